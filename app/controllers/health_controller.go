package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/agromart/pkg/ctx"
)

// HealthController answers GET /health.
type HealthController struct {
	started time.Time
	ping    func(ctx context.Context) (string, error)
}

// NewHealthController reports the store as connected while ping succeeds.
func NewHealthController(started time.Time, ping func(ctx context.Context) (string, error)) *HealthController {
	return &HealthController{started: started, ping: ping}
}

func (h *HealthController) Show(c *ctx.Context) {
	pingCtx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()
	_, err := h.ping(pingCtx)

	c.JSON(http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime":         time.Since(h.started).Seconds(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"storeConnected": err == nil,
	})
}
