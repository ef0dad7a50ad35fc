package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/agromart/pkg/metrics"
	"github.com/shashiranjanraj/agromart/pkg/router"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Group("/api").Delete("/products/{id}", "products.destroy", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/products/"+id, nil))
	}

	n := testutil.CollectAndCount(metrics.RequestDuration, "agromart_http_request_duration_seconds")
	assert.Equal(t, 1, n, "one series for every product id")
}

func TestObserveStore(t *testing.T) {
	before := testutil.ToFloat64(metrics.StoreOps.WithLabelValues("read", "unavailable"))
	metrics.ObserveStore("read", errors.New("timeout"))
	metrics.ObserveStore("read", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StoreOps.WithLabelValues("read", "unavailable")))
}

func TestHandlerServesRegistry(t *testing.T) {
	metrics.CacheHits.WithLabelValues("snapshot").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `agromart_cache_hits_total{driver="snapshot"}`))
}
