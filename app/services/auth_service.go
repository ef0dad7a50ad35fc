package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/agromart/pkg/auth"
	"github.com/shashiranjanraj/agromart/pkg/logger"
)

type AuthService struct {
	ttl time.Duration
}

func NewAuthService(ttl time.Duration) *AuthService {
	return &AuthService{ttl: ttl}
}

// Login checks the admin password and issues a session token.
func (s *AuthService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if !auth.CheckAdminPassword(password) {
		logger.WithCtx(ctx).Warn("admin login rejected")
		return "", time.Time{}, auth.ErrInvalidCredentials
	}
	token, expires, err := auth.GenerateToken(s.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	logger.WithCtx(ctx).Info("admin logged in", "expires", expires)
	return token, expires, nil
}

// TTL is the lifetime of issued tokens, used for the cookie Max-Age.
func (s *AuthService) TTL() time.Duration { return s.ttl }
