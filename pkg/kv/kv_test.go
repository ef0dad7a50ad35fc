package kv_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/pkg/kv"
	"github.com/shashiranjanraj/agromart/pkg/storage"
)

func exercise(t *testing.T, s kv.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "agromart_cart")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "agromart_cart", []byte(`[{"productId":1}]`)))
	got, err := s.Get(ctx, "agromart_cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"productId":1}]`, string(got))

	require.NoError(t, s.Set(ctx, "agromart_cart", []byte(`[]`)))
	got, err = s.Get(ctx, "agromart_cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, s.Delete(ctx, "agromart_cart"))
	require.NoError(t, s.Delete(ctx, "agromart_cart"))
	_, err = s.Get(ctx, "agromart_cart")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exercise(t, kv.NewMemory())
}

func TestDiskStore(t *testing.T) {
	exercise(t, kv.NewDisk(storage.NewLocal(t.TempDir(), ""), "state"))
}

func TestDiskStoreEscapesKeys(t *testing.T) {
	ctx := context.Background()
	disk := storage.NewLocal(t.TempDir(), "")
	s := kv.NewDisk(disk, "")

	require.NoError(t, s.Set(ctx, "../../etc/passwd", []byte("x")))
	files, err := disk.Files(ctx, "")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("AGROMART_TEST_REDIS")
	if addr == "" {
		t.Skip("AGROMART_TEST_REDIS not set")
	}
	s, err := kv.NewRedis(context.Background(), addr, "")
	require.NoError(t, err)
	defer s.Close()
	exercise(t, s)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := kv.Open(context.Background(), kv.Options{Driver: "etcd"})
	assert.Error(t, err)

	s, err := kv.Open(context.Background(), kv.Options{Driver: "disk", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &kv.Disk{}, s)
}
