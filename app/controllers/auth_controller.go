package controllers

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/agromart/app/requests"
	"github.com/shashiranjanraj/agromart/app/services"
	"github.com/shashiranjanraj/agromart/config"
	"github.com/shashiranjanraj/agromart/pkg/auth"
	"github.com/shashiranjanraj/agromart/pkg/ctx"
	"github.com/shashiranjanraj/agromart/pkg/validate"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login is POST /api/admin/login. The token is set as an http-only cookie
// and returned for API clients.
func (a *AuthController) Login(c *ctx.Context) {
	var req requests.LoginRequest
	if !c.Decode(&req) {
		return
	}
	req.Password = strings.TrimSpace(req.Password)
	if errs := validate.Struct(req); validate.HasErrors(errs) {
		c.ValidationError(errs)
		return
	}

	token, expires, err := a.service.Login(c.Context(), req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(a.service.TTL().Seconds()),
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
	c.Success(map[string]any{
		"redirect": "/" + strings.TrimPrefix(config.AdminPath(), "/"),
		"token":    token,
	})
}

// Logout is POST /api/admin/logout.
func (a *AuthController) Logout(c *ctx.Context) {
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
	c.Success(nil)
}
