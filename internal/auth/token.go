package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/ems-service/internal/domain"
)

// TokenType is the scheme marker returned alongside issued tokens.
const TokenType = "Bearer"

// TokenManager issues and validates signed session tokens. The signing secret
// is injected at construction so tests can swap it per instance.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the JWT payload. Subject carries the username; Authorities
// carries the prefixed role names granted at issue time.
type Claims struct {
	UserID      int64    `json:"uid"`
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// RoleSet resolves the embedded authorities back into a role set. Unknown
// authority strings are ignored; tampering is already caught by the signature.
func (c *Claims) RoleSet() domain.RoleSet {
	var set domain.RoleSet
	for _, authority := range c.Authorities {
		if role, ok := domain.ParseRole(authority); ok {
			set |= domain.NewRoleSet(role)
		}
	}
	return set
}

// Generate signs a token asserting the user's identity and granted roles.
func (tm *TokenManager) Generate(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		UserID:      user.ID,
		Authorities: user.Roles.Authorities(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates the signature and expiry and returns the claims. Any claim
// alteration fails signature verification; expired tokens fail closed.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
