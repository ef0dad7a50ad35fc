// Package routes maps URLs to controllers and attaches per-group limits.
package routes

import (
	"time"

	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/agromart/app/controllers"
	"github.com/shashiranjanraj/agromart/pkg/ctx"
	"github.com/shashiranjanraj/agromart/pkg/graphql"
	"github.com/shashiranjanraj/agromart/pkg/metrics"
	"github.com/shashiranjanraj/agromart/pkg/middleware"
	"github.com/shashiranjanraj/agromart/pkg/router"
)

// Controllers is everything RegisterAPI mounts.
type Controllers struct {
	Data         *controllers.DataController
	Catalog      *controllers.CatalogController
	Auth         *controllers.AuthController
	SheetsConfig *controllers.SheetsConfigController
	Health       *controllers.HealthController
	GraphQL      gql.Schema
}

// Limiters holds one limiter per route family; each owns its buckets.
type Limiters struct {
	General *middleware.RateLimiter
	Write   *middleware.RateLimiter
	Config  *middleware.RateLimiter
	Login   *middleware.RateLimiter
}

func NewLimiters() *Limiters {
	login := middleware.NewRateLimiter(5, 15*time.Minute, "Too many login attempts, please try again later.")
	login.SkipSuccessful = true

	return &Limiters{
		General: middleware.NewRateLimiter(200, time.Minute, "Too many requests, please try again later."),
		Write:   middleware.NewRateLimiter(30, time.Minute, "Too many write operations, please slow down."),
		Config:  middleware.NewRateLimiter(10, time.Minute, "Too many configuration requests, please try again later."),
		Login:   login,
	}
}

// Stop ends every limiter's eviction loop.
func (l *Limiters) Stop() {
	for _, rl := range []*middleware.RateLimiter{l.General, l.Write, l.Config, l.Login} {
		if rl != nil {
			rl.Stop()
		}
	}
}

// RegisterAPI mounts the JSON API, health, metrics and GraphQL endpoints.
func RegisterAPI(r *router.Router, c Controllers, l *Limiters) {
	r.Get("/health", "health", ctx.Wrap(c.Health.Show))
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Handle("/graphql", "graphql", graphql.Handler(c.GraphQL), l.General.Handler)

	api := r.Group("/api", l.General.Handler)
	api.Get("/data", "data.show", ctx.Wrap(c.Data.Show))

	api.Post("/admin/login", "admin.login", ctx.Wrap(c.Auth.Login), l.Login.Handler)
	api.Post("/admin/logout", "admin.logout", ctx.Wrap(c.Auth.Logout))

	writes := api.Group("", l.Write.Handler, middleware.AdminAuth)
	writes.Post("/products", "products.save", ctx.Wrap(c.Catalog.SaveProduct))
	writes.Put("/products", "products.update", ctx.Wrap(c.Catalog.SaveProduct))
	writes.Delete("/products/{id}", "products.delete", ctx.Wrap(c.Catalog.DeleteProduct))
	writes.Post("/categories", "categories.save", ctx.Wrap(c.Catalog.SaveCategory))
	writes.Delete("/categories/{id}", "categories.delete", ctx.Wrap(c.Catalog.DeleteCategory))
	writes.Post("/settings", "settings.save", ctx.Wrap(c.Catalog.SaveSettings))
	writes.Post("/contacts", "contacts.save", ctx.Wrap(c.Catalog.SaveContacts))

	admin := api.Group("", middleware.AdminAuth)
	admin.Get("/export", "data.export", ctx.Wrap(c.Data.Export))
	admin.Post("/import", "data.import", ctx.Wrap(c.Data.Import))
	admin.Post("/seed", "data.seed", ctx.Wrap(c.Data.Seed))
	admin.Post("/backup", "data.backup", ctx.Wrap(c.Data.Backup))

	sheets := api.Group("/sheets-config", l.Config.Handler, middleware.AdminAuth)
	sheets.Get("", "sheets.show", ctx.Wrap(c.SheetsConfig.Show))
	sheets.Post("", "sheets.update", ctx.Wrap(c.SheetsConfig.Update))
	sheets.Post("/test", "sheets.test", ctx.Wrap(c.SheetsConfig.Test))
}
