package cache_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/agromart/pkg/cache"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *clock { return &clock{t: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)} }
func fallback() []string { return []string{"fallback"} }
func cloneSlice(v []string) []string { return append([]string(nil), v...) }

type source struct {
	calls atomic.Int32
	value []string
	err   error
}

func (s *source) load(context.Context) ([]string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.value, nil
}

func newCache(src *source, clk *clock) *cache.TTL[[]string] {
	return cache.New("test", 30*time.Second, src.load,
		cache.WithFallback(fallback),
		cache.WithClone(cloneSlice),
		cache.WithClock[[]string](clk.now))
}

func TestGetServesFreshValueWithoutReload(t *testing.T) {
	src := &source{value: []string{"a"}}
	clk := newClock()
	c := newCache(src, clk)
	ctx := context.Background()

	assert.Equal(t, []string{"a"}, c.Get(ctx))
	clk.advance(29 * time.Second)
	assert.Equal(t, []string{"a"}, c.Get(ctx))
	assert.EqualValues(t, 1, src.calls.Load())

	clk.advance(2 * time.Second)
	src.value = []string{"b"}
	assert.Equal(t, []string{"b"}, c.Get(ctx))
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestGetFallsBackWhenNeverLoaded(t *testing.T) {
	src := &source{err: errors.New("down")}
	c := newCache(src, newClock())

	assert.Equal(t, []string{"fallback"}, c.Get(context.Background()))
}

func TestGetServesStaleValueOnFailure(t *testing.T) {
	src := &source{value: []string{"good"}}
	clk := newClock()
	c := newCache(src, clk)
	ctx := context.Background()

	c.Get(ctx)
	clk.advance(time.Minute)
	src.err = errors.New("down")

	assert.Equal(t, []string{"good"}, c.Get(ctx))
	// the failed reload does not refresh the timestamp, so the next call retries
	c.Get(ctx)
	assert.EqualValues(t, 3, src.calls.Load())
}

func TestInvalidateForcesReload(t *testing.T) {
	src := &source{value: []string{"v1"}}
	c := newCache(src, newClock())
	ctx := context.Background()

	c.Get(ctx)
	src.value = []string{"v2"}
	c.Invalidate()
	assert.True(t, c.FetchedAt().IsZero())

	assert.Equal(t, []string{"v2"}, c.Get(ctx))
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestValuesAreCopies(t *testing.T) {
	src := &source{value: []string{"a"}}
	c := newCache(src, newClock())
	ctx := context.Background()

	got := c.Get(ctx)
	got[0] = "mutated"

	assert.Equal(t, []string{"a"}, c.Get(ctx))
}

func TestInvalidateDuringLoadLeavesValueStale(t *testing.T) {
	clk := newClock()
	var c *cache.TTL[int]
	calls := 0
	c = cache.New("race", time.Minute, func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			c.Invalidate()
		}
		return calls, nil
	}, cache.WithClock[int](clk.now))

	ctx := context.Background()
	assert.Equal(t, 1, c.Get(ctx))
	assert.Equal(t, 2, c.Get(ctx))
	assert.Equal(t, 2, c.Get(ctx))
}
