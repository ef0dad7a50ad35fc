package storefront_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/app/storefront"
	"github.com/shashiranjanraj/agromart/pkg/kv"
)

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) Fetch(ctx context.Context) (models.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Snapshot), args.Error(1)
}

func TestRefreshSequence(t *testing.T) {
	ctx := context.Background()
	f := &mockFetcher{}
	f.On("Fetch", mock.Anything).Return(remoteCatalog("First"), nil).Once()
	f.On("Fetch", mock.Anything).Return(models.DefaultSnapshot(), nil).Once()
	f.On("Fetch", mock.Anything).Return(models.Snapshot{}, errors.New("timeout")).Once()

	c := storefront.NewDataCache(f, kv.NewMemory())

	res, err := c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, storefront.Updated, res)

	res, err = c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, storefront.EmptyRemote, res)

	res, err = c.Refresh(ctx)
	assert.EqualError(t, err, "timeout")
	assert.Equal(t, "failed", res.String())

	assert.Equal(t, "First", c.Products()[0].Name)
	f.AssertNumberOfCalls(t, "Fetch", 3)
	f.AssertExpectations(t)
}
