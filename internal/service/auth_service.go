package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ems-service/internal/auth"
	"github.com/spec-kit/ems-service/internal/config"
	"github.com/spec-kit/ems-service/internal/domain"
	"github.com/spec-kit/ems-service/internal/repository"
	apperrors "github.com/spec-kit/ems-service/pkg/util"
)

// LoginResult bundles the issued token with the authenticated identity.
// The password hash never leaves the service.
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService verifies credentials and issues session tokens. The token is
// the whole session; nothing is persisted server-side beyond the revocation
// denylist written on logout.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	denylist auth.TokenDenylist
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, denylist auth.TokenDenylist) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		denylist: denylist,
	}
}

// Login authenticates a username/password pair. Unknown username, wrong
// password, and disabled account all fail with the same message so callers
// cannot probe which field was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.Enabled {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.Generate(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &LoginResult{
		Token:     token,
		TokenType: auth.TokenType,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if s.denylist == nil || principal.TokenID == "" {
		return nil
	}
	ttl := time.Until(principal.ExpiresAt)
	if err := s.denylist.Revoke(ctx, principal.TokenID, ttl); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
