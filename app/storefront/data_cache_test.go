package storefront_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/app/storefront"
	"github.com/shashiranjanraj/agromart/pkg/kv"
)

type fakeFetcher struct {
	mu    sync.Mutex
	snap  models.Snapshot
	err   error
	calls atomic.Int32
}

func (f *fakeFetcher) Fetch(context.Context) (models.Snapshot, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Snapshot{}, f.err
	}
	return f.snap.Clone(), nil
}

func (f *fakeFetcher) set(snap models.Snapshot, err error) {
	f.mu.Lock()
	f.snap, f.err = snap, err
	f.mu.Unlock()
}

// brokenKV fails every call.
type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, error) { return nil, errors.New("quota exceeded") }
func (brokenKV) Set(context.Context, string, []byte) error { return errors.New("quota exceeded") }
func (brokenKV) Delete(context.Context, string) error { return errors.New("quota exceeded") }

func remoteCatalog(names ...string) models.Snapshot {
	s := models.DefaultSnapshot()
	s.WhatsAppNumber = "911234567890"
	for i, n := range names {
		s.Products = append(s.Products, models.Product{ID: i + 1, Name: n, OfferPrice: 100 * (i + 1), Category: "seeds"})
	}
	return s
}

func TestInitializeAcceptsRemoteCatalog(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	f := &fakeFetcher{snap: remoteCatalog("Wheat seed", "Rice seed")}
	c := storefront.NewDataCache(f, store)

	res, err := c.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, storefront.Updated, res)
	assert.Len(t, c.Products(), 2)

	raw, err := store.Get(ctx, storefront.DataKey)
	require.NoError(t, err)
	var persisted models.Snapshot
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, "Wheat seed", persisted.Products[0].Name)
}

func TestInitializeKeepsLocalCatalogWhenRemoteIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	saved, _ := json.Marshal(remoteCatalog("Saved product"))
	require.NoError(t, store.Set(ctx, storefront.DataKey, saved))

	c := storefront.NewDataCache(&fakeFetcher{snap: models.DefaultSnapshot()}, store)
	res, err := c.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, storefront.EmptyRemote, res)
	require.Len(t, c.Products(), 1)
	assert.Equal(t, "Saved product", c.Products()[0].Name)
}

func TestInitializeFallsBackToDemoCatalog(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, storefront.DataKey, []byte("{not json")))

	c := storefront.NewDataCache(&fakeFetcher{err: errors.New("offline")}, store)
	res, err := c.Initialize(ctx)
	assert.Error(t, err)
	assert.Equal(t, storefront.Failed, res)
	assert.Len(t, c.Products(), len(models.DemoSnapshot().Products))
}

func TestReadReturnsCopies(t *testing.T) {
	c := storefront.NewDataCache(&fakeFetcher{}, kv.NewMemory())

	snap := c.Read()
	snap.Products[0].Name = "mutated"
	assert.NotEqual(t, "mutated", c.Read().Products[0].Name)
}

func TestWriteAndReset(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	c := storefront.NewDataCache(&fakeFetcher{}, store)

	c.Write(ctx, remoteCatalog("Only product"))
	assert.Len(t, c.Products(), 1)
	p, ok := c.ProductByID(1)
	require.True(t, ok)
	assert.Equal(t, "Only product", p.Name)

	c.Reset(ctx)
	assert.Len(t, c.Products(), len(models.DemoSnapshot().Products))
	assert.Len(t, c.ProductsByCategory("pesticide"), 6)
	assert.NotEmpty(t, c.BestSelling())
	assert.Len(t, c.Search("neem"), 1)
}

func TestPersistentStoreFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	c := storefront.NewDataCache(&fakeFetcher{snap: remoteCatalog("Maize")}, brokenKV{})

	res, err := c.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, storefront.Updated, res)
	assert.Equal(t, "Maize", c.Products()[0].Name)
}

func TestStartRefreshesInBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := &fakeFetcher{snap: remoteCatalog("v1")}
	c := storefront.NewDataCache(f, kv.NewMemory(), storefront.WithRefreshInterval(20*time.Millisecond))
	_, err := c.Initialize(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Start(ctx))
	defer c.Stop()

	f.set(remoteCatalog("v2"), nil)
	assert.Eventually(t, func() bool {
		return c.Products()[0].Name == "v2"
	}, 2*time.Second, 10*time.Millisecond)

	// failures keep the last good catalog
	f.set(models.Snapshot{}, errors.New("offline"))
	calls := f.calls.Load()
	assert.Eventually(t, func() bool { return f.calls.Load() > calls+1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "v2", c.Products()[0].Name)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/data" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(remoteCatalog("Served")) //nolint:errcheck
	}))
	defer srv.Close()

	snap, err := storefront.NewHTTPFetcher(srv.URL+"/api", time.Second, srv.Client()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Served", snap.Products[0].Name)
	assert.Equal(t, "911234567890", snap.WhatsAppNumber)

	_, err = storefront.NewHTTPFetcher(srv.URL+"/missing", time.Second, srv.Client()).Fetch(context.Background())
	assert.Error(t, err)
}
