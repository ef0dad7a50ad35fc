// Package controllers holds the HTTP handlers of the AgroMart API. Every
// handler takes a *ctx.Context; errors are turned into responses by fail.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/agromart/app/requests"
	"github.com/shashiranjanraj/agromart/pkg/auth"
	"github.com/shashiranjanraj/agromart/pkg/bind"
	"github.com/shashiranjanraj/agromart/pkg/ctx"
	"github.com/shashiranjanraj/agromart/pkg/logger"
	"github.com/shashiranjanraj/agromart/pkg/table"
)

// MsgStoreUnavailable is the 500 message for a failed remote write.
const MsgStoreUnavailable = "store unavailable"

// fail maps an error to its response.
func fail(c *ctx.Context, err error) {
	var verr *requests.ValidationError
	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Fields)
	case errors.Is(err, bind.ErrMalformed):
		c.Error(http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.Unauthorized("Invalid credentials")
	case errors.Is(err, table.ErrUnavailable):
		logger.WithCtx(c.Context()).Error("store unavailable", "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, MsgStoreUnavailable)
	default:
		logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, "Internal server error")
	}
}
