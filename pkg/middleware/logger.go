package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/agromart/pkg/ctx"
	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/reqid"
)

// pollPaths are polled by the platform and the Prometheus scraper; their lines
// go out at debug level.
var pollPaths = map[string]bool{"/health": true, "/metrics": true}

// status is what the handler answered; a handler that only wrote a body
// answered 200.
func status(ww chimw.WrapResponseWriter) int {
	if code := ww.Status(); code != 0 {
		return code
	}
	return http.StatusOK
}

// Logger puts a request_id-tagged logger into the request context and
// writes one line per request once the handler is done. 5xx responses log
// at error level. Mount it after reqid.Middleware.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), log))

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		code := status(ww)
		level := slog.LevelInfo
		switch {
		case code >= http.StatusInternalServerError:
			level = slog.LevelError
		case pollPaths[r.URL.Path]:
			level = slog.LevelDebug
		}
		log.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", code,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"ip", ctx.ClientIP(r),
		)
	})
}
