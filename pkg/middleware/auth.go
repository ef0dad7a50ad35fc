package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/agromart/pkg/auth"
	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/response"
)

// AdminPasswordHeader is the legacy header some admin clients still send.
const AdminPasswordHeader = "X-Admin-Password"

// AdminAuth admits a request carrying a valid session cookie, a valid Bearer
// token, or the admin password header. Every failure gets the same 401.
func AdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if via := authorize(r); via != "" {
			logger.WithCtx(r.Context()).Debug("admin request authorized", "via", via)
			next.ServeHTTP(w, r)
			return
		}
		logger.WithCtx(r.Context()).Warn("admin request rejected", "path", r.URL.Path)
		response.Unauthorized(w)
	})
}

// authorize returns which credential admitted r, or "" when none did.
func authorize(r *http.Request) string {
	if c, err := r.Cookie(auth.CookieName); err == nil && c.Value != "" {
		if _, err := auth.ValidateToken(c.Value); err == nil {
			return "cookie"
		}
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if _, err := auth.ValidateToken(strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))); err == nil {
			return "bearer"
		}
	}
	if pw := r.Header.Get(AdminPasswordHeader); pw != "" && auth.CheckAdminPassword(pw) {
		return "password"
	}
	return ""
}
