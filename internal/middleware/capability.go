package middleware

import (
	"content-review/internal/features/role"
	"content-review/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireCapability rejects the request unless the authenticated user's role
// carries the given capability in the matrix. Runs after AuthMiddleware.
func RequireCapability(matrix *role.Matrix, capability role.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !matrix.Allows(role.Role(claims.Role), capability) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Insufficient permissions",
			})
		}

		return c.Next()
	}
}
