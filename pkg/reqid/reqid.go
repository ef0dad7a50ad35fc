// Package reqid tags every API request with an ID. The ID travels in the
// request context, comes back in the X-Request-ID response header and is
// forwarded on outgoing storefront calls, so a storefront refresh and the
// server log line it caused share one ID.
package reqid

import (
	"context"
	"encoding/hex"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const Header = "X-Request-ID"

type key struct{}

// accepted is the shape of a caller-supplied ID that is kept as is.
var accepted = regexp.MustCompile(`^[A-Za-z0-9._-]{8,64}$`)

// New returns 16 hex characters of a random UUID.
func New() string {
	u := uuid.New()
	return hex.EncodeToString(u[:8])
}

func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, key{}, id)
}

// FromCtx is "" outside a request.
func FromCtx(ctx context.Context) string {
	id, _ := ctx.Value(key{}).(string)
	return id
}

// Propagate copies the ID in ctx, if any, onto an outgoing request header.
func Propagate(ctx context.Context, h http.Header) {
	if id := FromCtx(ctx); id != "" {
		h.Set(Header, id)
	}
}

// Middleware keeps a well-formed incoming X-Request-ID and mints one
// otherwise.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !accepted.MatchString(id) {
				id = New()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
