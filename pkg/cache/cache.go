// Package cache holds a value loaded from a slow source for a fixed TTL.
//
//	snapshots := cache.New("snapshot", 30*time.Second, repo.ReadSnapshot,
//	    cache.WithFallback(models.DefaultSnapshot),
//	    cache.WithClone(models.Snapshot.Clone))
//
//	snap := snapshots.Get(ctx) // never fails
//
// Get serves the cached value while it is fresh. A stale or empty cache is
// reloaded; when the reload fails the last good value (or the fallback) is
// returned instead. Concurrent misses each run the loader; there is no
// single-flight.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/metrics"
)

// Loader fetches a fresh value.
type Loader[T any] func(ctx context.Context) (T, error)

// TTL caches one value of type T.
type TTL[T any] struct {
	name     string
	ttl      time.Duration
	load     Loader[T]
	fallback func() T
	clone    func(T) T
	now      func() time.Time

	mu        sync.Mutex
	value     T
	loaded    bool
	fetchedAt time.Time
	gen       uint64
}

// Option configures a TTL cache.
type Option[T any] func(*TTL[T])

// WithFallback sets the value served when nothing was ever loaded.
func WithFallback[T any](f func() T) Option[T] {
	return func(c *TTL[T]) { c.fallback = f }
}

// WithClone copies every value handed out so callers can mutate it.
func WithClone[T any](f func(T) T) Option[T] {
	return func(c *TTL[T]) { c.clone = f }
}

// WithClock replaces time.Now.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *TTL[T]) { c.now = now }
}

// New creates a cache; name labels its metrics and log lines.
func New[T any](name string, ttl time.Duration, load Loader[T], opts ...Option[T]) *TTL[T] {
	c := &TTL[T]{
		name:  name,
		ttl:   ttl,
		load:  load,
		now:   time.Now,
		clone: func(v T) T { return v },
		fallback: func() T {
			var zero T
			return zero
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the cached value, reloading it when stale.
func (c *TTL[T]) Get(ctx context.Context) T {
	c.mu.Lock()
	if c.loaded && !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		v := c.clone(c.value)
		c.mu.Unlock()
		metrics.CacheHits.WithLabelValues(c.name).Inc()
		return v
	}
	gen := c.gen
	c.mu.Unlock()

	metrics.CacheMisses.WithLabelValues(c.name).Inc()
	fresh, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		metrics.CacheLoadErrors.WithLabelValues(c.name).Inc()
		logger.WithCtx(ctx).Warn("cache reload failed, serving previous value",
			"cache", c.name, "stale", c.loaded, "error", err)
		if c.loaded {
			return c.clone(c.value)
		}
		return c.fallback()
	}

	c.value = c.clone(fresh)
	c.loaded = true
	// An Invalidate that raced this load leaves the value stale so the next
	// Get sees writes that finished after the load began.
	if gen == c.gen {
		c.fetchedAt = c.now()
	} else {
		c.fetchedAt = time.Time{}
	}
	return c.clone(fresh)
}

// Invalidate marks the value stale; the next Get reloads.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.gen++
	c.mu.Unlock()
}

// FetchedAt reports when the current value was loaded. Zero means stale or empty.
func (c *TTL[T]) FetchedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchedAt
}
