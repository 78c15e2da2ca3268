package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ems-service/internal/domain"
	apperrors "github.com/spec-kit/ems-service/pkg/util"
)

// RequireRoles authorizes the caller when it holds at least one of the
// required roles. An empty required set admits any authenticated principal.
// A denial on a valid identity is FORBIDDEN, distinct from the UNAUTHORIZED
// returned when no valid token was presented.
func RequireRoles(required ...domain.Role) fiber.Handler {
	requiredSet := domain.NewRoleSet(required...)

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if requiredSet.IsEmpty() {
			return c.Next()
		}
		if !principal.Roles.Intersects(requiredSet) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
