package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/pkg/kv"
	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/schedule"
)

// RefreshResult tells an accepted fetch apart from an empty remote catalog
// and from a failed fetch.
type RefreshResult int

const (
	Updated RefreshResult = iota
	EmptyRemote
	Failed
)

func (r RefreshResult) String() string {
	switch r {
	case Updated:
		return "updated"
	case EmptyRemote:
		return "empty-remote"
	default:
		return "failed"
	}
}

// DataCache serves the catalog from memory. The memory tier is seeded from
// the persistent store (or the demo catalog) and replaced by each remote
// fetch that returns at least one product.
type DataCache struct {
	fetcher  Fetcher
	store    kv.Store
	interval time.Duration

	mu   sync.RWMutex
	data models.Snapshot

	schedMu sync.Mutex
	sched   *schedule.Scheduler
}

type Option func(*DataCache)

// WithRefreshInterval sets the background refresh period (default 30s).
func WithRefreshInterval(d time.Duration) Option {
	return func(c *DataCache) { c.interval = d }
}

// NewDataCache starts with the demo catalog in memory; call Initialize to
// load the persisted and remote tiers.
func NewDataCache(fetcher Fetcher, store kv.Store, opts ...Option) *DataCache {
	c := &DataCache{
		fetcher:  fetcher,
		store:    store,
		interval: 30 * time.Second,
		data:     models.DemoSnapshot(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Initialize seeds memory from the persistent store, then awaits one remote
// fetch.
func (c *DataCache) Initialize(ctx context.Context) (RefreshResult, error) {
	c.set(c.loadLocal(ctx))
	return c.Refresh(ctx)
}

// Refresh fetches once. Only a catalog with products replaces the current
// one; the accepted catalog is persisted.
func (c *DataCache) Refresh(ctx context.Context) (RefreshResult, error) {
	snap, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return Failed, err
	}
	if len(snap.Products) == 0 {
		return EmptyRemote, nil
	}
	c.Write(ctx, snap)
	return Updated, nil
}

// Start refreshes in the background every interval until ctx is done or
// Stop is called. Failures are logged at debug level and otherwise ignored.
func (c *DataCache) Start(ctx context.Context) error {
	c.schedMu.Lock()
	defer c.schedMu.Unlock()
	if c.sched != nil {
		return nil
	}

	s := schedule.New(schedule.WithTick(tickFor(c.interval)))
	err := s.Every(c.interval).Name("catalog-refresh").WithoutOverlapping().Run(func(ctx context.Context) {
		if res, err := c.Refresh(ctx); err != nil {
			logger.WithCtx(ctx).Debug("catalog refresh failed", "result", res.String(), "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.Start(ctx)
	c.sched = s
	return nil
}

func (c *DataCache) Stop() {
	c.schedMu.Lock()
	s := c.sched
	c.sched = nil
	c.schedMu.Unlock()
	if s != nil {
		s.Stop()
	}
}

func tickFor(interval time.Duration) time.Duration {
	tick := interval / 4
	if tick > time.Second {
		tick = time.Second
	}
	if tick < time.Millisecond {
		tick = time.Millisecond
	}
	return tick
}

// Read returns a copy of the current catalog without any I/O.
func (c *DataCache) Read() models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Clone()
}

// Write replaces the memory tier and persists snap.
func (c *DataCache) Write(ctx context.Context, snap models.Snapshot) {
	c.set(snap.Clone())
	c.persist(ctx, snap)
}

// Reset drops the persisted catalog and goes back to the demo catalog.
func (c *DataCache) Reset(ctx context.Context) {
	if err := c.store.Delete(ctx, DataKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog reset: delete failed", "error", err)
	}
	c.Write(ctx, models.DemoSnapshot())
}

func (c *DataCache) Products() []models.Product { return c.Read().Products }

func (c *DataCache) Categories() []models.Category { return c.Read().Categories }

func (c *DataCache) Settings() models.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Settings
}

func (c *DataCache) ProductByID(id int) (models.Product, bool) {
	return c.Read().ProductByID(id)
}

func (c *DataCache) ProductsByCategory(category string) []models.Product {
	return c.Read().ProductsByCategory(category)
}

func (c *DataCache) BestSelling() []models.Product { return c.Read().BestSelling() }

func (c *DataCache) Search(query string) []models.Product { return c.Read().Search(query) }

func (c *DataCache) set(snap models.Snapshot) {
	c.mu.Lock()
	c.data = snap
	c.mu.Unlock()
}

// loadLocal returns the persisted catalog, or the demo catalog when nothing
// usable is stored.
func (c *DataCache) loadLocal(ctx context.Context) models.Snapshot {
	raw, err := c.store.Get(ctx, DataKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.WithCtx(ctx).Warn("cached catalog unreadable", "error", err)
		}
		return models.DemoSnapshot()
	}
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		logger.WithCtx(ctx).Warn("cached catalog corrupt, using demo catalog", "error", err)
		return models.DemoSnapshot()
	}
	return snap
}

func (c *DataCache) persist(ctx context.Context, snap models.Snapshot) {
	raw, err := json.Marshal(snap)
	if err == nil {
		err = c.store.Set(ctx, DataKey, raw)
	}
	if err != nil {
		logger.WithCtx(ctx).Warn("catalog not persisted", "error", err)
	}
}
