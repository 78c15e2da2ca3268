package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ems-service/internal/domain"
	apperrors "github.com/spec-kit/ems-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, reconstructed from verified
// token claims. The token is the whole session; no server-side state backs it.
type Principal struct {
	UserID    int64
	Username  string
	Roles     domain.RoleSet
	TokenID   string
	ExpiresAt time.Time
}

// Middleware validates bearer tokens on protected routes.
type Middleware struct {
	tokens   *TokenManager
	denylist TokenDenylist
}

// NewMiddleware constructs middleware. A nil denylist disables revocation
// checks (used by tests).
func NewMiddleware(tokens *TokenManager, denylist TokenDenylist) *Middleware {
	return &Middleware{tokens: tokens, denylist: denylist}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], TokenType) {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	if m.denylist != nil && claims.ID != "" {
		revoked, err := m.denylist.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	principal := &Principal{
		UserID:   claims.UserID,
		Username: claims.Subject,
		Roles:    claims.RoleSet(),
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
