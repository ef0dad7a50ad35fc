// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the logger the Logger middleware stored on the request
// context, so every line from a handler carries the request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product saved", "id", p.ID)
//	// → time=... level=INFO msg="product saved" request_id=a1b2c3d4 id=7
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/agromart/config"
)

var L *slog.Logger

func init() {
	Setup(config.AppEnv(), os.Stdout)
}

// Setup rebuilds the base logger: JSON at info level in production, text at
// debug level otherwise.
func Setup(env string, w io.Writer) {
	L = slog.New(newHandler(env, w))
	slog.SetDefault(L)
}

func newHandler(env string, w io.Writer) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// EnableMongo tees every record into a MongoDB collection as well. The
// returned func flushes and disconnects; call it on shutdown.
func EnableMongo(uri, db string) (func(), error) {
	mh, err := NewMongoHandler(uri, db, "logs")
	if err != nil {
		return func() {}, fmt.Errorf("logger: %w", err)
	}
	base := L.Handler()
	L = slog.New(tee{base, mh})
	slog.SetDefault(L)
	return func() {
		mh.Close()
		if n := mh.Dropped(); n > 0 {
			slog.New(base).Warn("mongo logs: records dropped on a full queue", "count", n)
		}
	}, nil
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
