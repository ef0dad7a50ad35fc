package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/agromart/config"
	"github.com/shashiranjanraj/agromart/pkg/reqid"
)

type CORSOptions struct {
	// AllowedOrigins holds exact origins; "*" lets any origin in without
	// credentials.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge is how long a browser may cache a preflight, in seconds.
	MaxAge int
}

// DefaultCORSOptions lets the storefront and admin panel origins listed in
// CORS_ORIGINS call the API with the admin cookie or password header.
func DefaultCORSOptions() CORSOptions {
	return CORSOptions{
		AllowedOrigins: config.CORSOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", AdminPasswordHeader, reqid.Header},
		MaxAge:         300,
	}
}

// CORS answers preflights with 204 and decorates responses to allowed
// origins. Requests from other origins pass through undecorated, leaving
// the browser to block them.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	exact := make(map[string]bool, len(opts.AllowedOrigins))
	wildcard := false
	for _, o := range opts.AllowedOrigins {
		if o == "*" {
			wildcard = true
			continue
		}
		exact[strings.TrimRight(o, "/")] = true
	}
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")
	maxAge := ""
	if opts.MaxAge > 0 {
		maxAge = strconv.Itoa(opts.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")

			origin := r.Header.Get("Origin")
			switch {
			case origin == "":
			case exact[origin]:
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
			case wildcard:
				h.Set("Access-Control-Allow-Origin", "*")
			default:
				origin = ""
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if !preflight {
				next.ServeHTTP(w, r)
				return
			}
			if origin != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if maxAge != "" {
					h.Set("Access-Control-Max-Age", maxAge)
				}
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
