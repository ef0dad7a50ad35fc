// Package middleware provides the HTTP middleware AgroMart mounts on its router.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/agromart/pkg/ctx"
	"github.com/shashiranjanraj/agromart/pkg/response"
)

// bucket tracks a fixed-window request count for one client.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(now time.Time, max int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !now.Before(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

func (b *bucket) refund() {
	b.mu.Lock()
	if b.count > 0 {
		b.count--
	}
	b.mu.Unlock()
}

func (b *bucket) expired(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !now.Before(b.resetAt)
}

// RateLimiter limits each client IP to Max requests per Window. Every limiter
// owns its buckets, so the login limiter never shares counts with the
// general /api limiter.
type RateLimiter struct {
	Max     int
	Window  time.Duration
	Message string

	// SkipSuccessful stops counting requests answered below 400, so only
	// failed logins use up the budget.
	SkipSuccessful bool

	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
}

// NewRateLimiter starts a limiter and its background eviction loop.
// Call Stop when the server shuts down.
func NewRateLimiter(max int, window time.Duration, message string) *RateLimiter {
	l := &RateLimiter{
		Max:     max,
		Window:  window,
		Message: message,
		now:     time.Now,
		buckets: map[string]*bucket{},
		stop:    make(chan struct{}),
	}
	go l.evictLoop()
	return l
}

// Allow records one request from key and reports whether it is within budget.
func (l *RateLimiter) Allow(key string) bool {
	return l.bucket(key).allow(l.now(), l.Max, l.Window)
}

func (l *RateLimiter) bucket(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{resetAt: l.now().Add(l.Window)}
		l.buckets[key] = b
	}
	return b
}

// Handler is the middleware form. Over-budget requests get a 429 JSON body.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := l.bucket(ctx.ClientIP(r))
		if !b.allow(l.now(), l.Max, l.Window) {
			w.Header().Set("Retry-After", retryAfter(l.Window))
			response.TooManyRequests(w, l.Message)
			return
		}
		if !l.SkipSuccessful {
			next.ServeHTTP(w, r)
			return
		}
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if status(ww) < http.StatusBadRequest {
			b.refund()
		}
	})
}

// Stop ends the eviction loop. Safe to call more than once.
func (l *RateLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// evict drops buckets whose window has passed.
func (l *RateLimiter) evict() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.expired(now) {
			delete(l.buckets, key)
		}
	}
}

func (l *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evict()
		case <-l.stop:
			return
		}
	}
}

func retryAfter(window time.Duration) string {
	secs := int(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
