// Package router mounts named routes on chi. Groups share a path prefix
// and middleware; every route lands in one table that `agromart route:list`
// prints.
//
//	r := router.New()
//	api := r.Group("/api", limiter.Handler)
//	api.Get("/data", "data.show", ctx.Wrap(c.Data.Show))
//	admin := api.Group("", middleware.AdminAuth)
//	admin.Delete("/products/{id}", "products.delete", ctx.Wrap(c.Catalog.DeleteProduct))
package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/agromart/pkg/response"
)

type Middleware func(http.Handler) http.Handler

// Route is one row of the route table. Method is "*" for Handle.
type Route struct {
	Method string
	Path   string
	Name   string
}

// Router owns the chi mux and the route table. Registration is not safe
// for concurrent use; it happens once at boot.
type Router struct {
	top    *Group
	mux    *chi.Mux
	routes []Route
	names  map[string]bool
}

// Group is a path prefix and the middleware its routes run behind.
type Group struct {
	root   *Router
	prefix string
	mws    []Middleware
}

// New answers unknown paths and wrong methods with the JSON error envelope.
func New() *Router {
	mux := chi.NewRouter()
	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { response.MethodNotAllowed(w) })

	r := &Router{mux: mux, names: map[string]bool{}}
	r.top = &Group{root: r, prefix: "/"}
	return r
}

func (r *Router) Handler() http.Handler { return r.mux }

// Use adds middleware in front of every route. chi requires it before the
// first route is mounted.
func (r *Router) Use(mws ...Middleware) {
	for _, mw := range mws {
		r.mux.Use(mw)
	}
}

func (r *Router) Group(prefix string, mws ...Middleware) *Group {
	return r.top.Group(prefix, mws...)
}

func (r *Router) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.top.Get(path, name, h, mws...)
}

func (r *Router) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.top.Post(path, name, h, mws...)
}

// Handle mounts h for every method on path.
func (r *Router) Handle(path, name string, h http.Handler, mws ...Middleware) {
	r.top.mount("*", path, name, h, mws)
}

// Routes is the route table ordered by path, then method.
func (r *Router) Routes() []Route {
	out := append([]Route(nil), r.routes...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Method < out[j].Method
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Group nests prefix under g; its routes run g's middleware, then mws.
func (g *Group) Group(prefix string, mws ...Middleware) *Group {
	return &Group{
		root:   g.root,
		prefix: join(g.prefix, prefix),
		mws:    append(append([]Middleware(nil), g.mws...), mws...),
	}
}

func (g *Group) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.mount(http.MethodGet, path, name, h, mws)
}

func (g *Group) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.mount(http.MethodPost, path, name, h, mws)
}

func (g *Group) Put(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.mount(http.MethodPut, path, name, h, mws)
}

func (g *Group) Delete(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.mount(http.MethodDelete, path, name, h, mws)
}

// mount panics on a reused route name; that is a wiring bug caught at boot.
func (g *Group) mount(method, path, name string, h http.Handler, mws []Middleware) {
	r := g.root
	full := join(g.prefix, path)
	if name != "" {
		if r.names[name] {
			panic("router: route name " + name + " registered twice")
		}
		r.names[name] = true
	}

	all := append(append([]Middleware(nil), g.mws...), mws...)
	for i := len(all) - 1; i >= 0; i-- {
		h = all[i](h)
	}
	if method == "*" {
		r.mux.Handle(full, h)
	} else {
		r.mux.Method(method, full, h)
	}
	r.routes = append(r.routes, Route{Method: method, Path: full, Name: name})
}

// join cleans and concatenates path segments: join("/api/", "", "/data")
// is "/api/data".
func join(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		for _, seg := range strings.Split(p, "/") {
			if seg != "" {
				b.WriteByte('/')
				b.WriteString(seg)
			}
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
