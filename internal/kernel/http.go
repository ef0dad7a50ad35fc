// Package kernel assembles the HTTP handler: the global middleware stack
// followed by the application routes.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/agromart/pkg/metrics"
	"github.com/shashiranjanraj/agromart/pkg/middleware"
	"github.com/shashiranjanraj/agromart/pkg/reqid"
	"github.com/shashiranjanraj/agromart/pkg/router"
)

// HTTPKernel owns the router and its global middleware.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the router with the global stack applied, then lets
// each register callback mount its routes.
//
// Global middleware (outermost first):
//  1. Prometheus metrics, for total latency
//  2. Request ID, before anything logs
//  3. Recovery, so a panic becomes a 500
//  4. Logger, with request_id
//  5. CORS
//
// Rate limits are per route family and live in app/routes.
func NewHTTPKernel(register ...func(*router.Router)) *HTTPKernel {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	for _, fn := range register {
		fn(r)
	}
	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

func (k *HTTPKernel) Router() *router.Router {
	return k.router
}
