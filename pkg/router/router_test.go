package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupMiddlewareAndNames(t *testing.T) {
	r := router.New()
	var hits []string
	mark := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				hits = append(hits, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", mark("api"))
	admin := api.Group("/", mark("admin"))
	admin.Delete("/products/{id}", "products.destroy", ok)
	api.Get("/data", "data", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/products/3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"api", "admin"}, hits)

	assert.Panics(t, func() { api.Get("/data/again", "data", ok) })

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, router.Route{Method: http.MethodGet, Path: "/api/data", Name: "data"}, routes[0])
}

func TestNotFoundIsJSON(t *testing.T) {
	r := router.New()
	r.Get("/health", "health", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"status":404`))

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAndPaths(t *testing.T) {
	r := router.New()
	r.Handle("/graphql/", "graphql", http.HandlerFunc(ok))
	r.Group("api/").Group("/sheets-config").Post("", "sheets.update", ok)

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, httptest.NewRequest(m, "/graphql", nil))
		assert.Equal(t, http.StatusOK, rec.Code, m)
	}

	assert.Equal(t, []router.Route{
		{Method: http.MethodPost, Path: "/api/sheets-config", Name: "sheets.update"},
		{Method: "*", Path: "/graphql", Name: "graphql"},
	}, r.Routes())
}
