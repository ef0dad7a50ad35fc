// Package metrics is the Prometheus side of the AgroMart server: HTTP
// traffic per route, the snapshot cache and the remote store.
//
// The kernel mounts it once:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agromart"

// unmatched labels requests no route answered, so 404 scans cannot blow up
// the label set.
const unmatched = "unmatched"

// ─── HTTP ─────────────────────────────────────────────────────────────────────

var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	RequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})
)

// ─── Remote store ─────────────────────────────────────────────────────────────

var (
	// StoreOps counts remote store calls; status is "ok" or "unavailable".
	StoreOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Remote store operations by outcome.",
	}, []string{"operation", "status"})

	// SQLDuration is the latency of the database table backend.
	SQLDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "sql_duration_seconds",
		Help:      "Latency of sheet_rows queries.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
	}, []string{"operation"})
)

// ─── Cache ────────────────────────────────────────────────────────────────────

var (
	CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Gets served from a fresh cached value.",
	}, []string{"driver"})

	CacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Gets that had to reload.",
	}, []string{"driver"})

	// CacheLoadErrors counts reloads that fell back to a stale or default value.
	CacheLoadErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "load_errors_total",
		Help:      "Cache reloads that failed.",
	}, []string{"driver"})
)

// Registry is served on /metrics. It carries the Go runtime and process
// collectors plus everything above.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestDuration, RequestsInFlight,
		StoreOps, SQLDuration,
		CacheHits, CacheMisses, CacheLoadErrors,
	)
}

// MustRegister adds collectors owned by other packages (the gRPC server).
func MustRegister(c ...prometheus.Collector) {
	Registry.MustRegister(c...)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware times every request. The route label is the chi pattern
// ("/api/products/{id}"), read after the handler ran so that nested groups
// have resolved it.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			RequestsInFlight.Inc()
			defer RequestsInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			RequestDuration.
				WithLabelValues(r.Method, route(r), strconv.Itoa(sw.status)).
				Observe(time.Since(start).Seconds())
		})
	}
}

func route(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatched
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unmatched
}

// Handler serves the registry in text and OpenMetrics formats.
func Handler() http.HandlerFunc {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true}).ServeHTTP
}

// ObserveSQL records a database backend query:
//
//	defer metrics.ObserveSQL("select", time.Now())
func ObserveSQL(operation string, start time.Time) {
	SQLDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveStore records the outcome of one remote store call.
func ObserveStore(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "unavailable"
	}
	StoreOps.WithLabelValues(operation, status).Inc()
}
