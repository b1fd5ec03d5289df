package service

import (
	"context"
	"time"

	appErr "github.com/xxxsen/mblog/internal/pkg/errors"
	"github.com/xxxsen/mblog/internal/pkg/jwt"
	"github.com/xxxsen/mblog/internal/pkg/password"
)

const adminRole = "admin"

// AuthService authenticates the single admin against the configured
// bcrypt hash.
type AuthService struct {
	passwordHash string
	jwtSecret    []byte
	jwtTTL       time.Duration
}

func NewAuthService(passwordHash string, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{passwordHash: passwordHash, jwtSecret: secret, jwtTTL: ttl}
}

func (s *AuthService) Login(ctx context.Context, plainPassword string) (string, error) {
	_ = ctx
	if err := password.Compare(s.passwordHash, plainPassword); err != nil {
		return "", appErr.ErrUnauthorized
	}
	token, err := jwt.GenerateToken(adminRole, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", err
	}
	return token, nil
}
