package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

// Locals keys set by the auth middleware.
const (
	LocalClaims = "claims"
	LocalUserID = "userId"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// JWTFromBearer verifies "Authorization: Bearer <token>" and stores the claims
// under LocalClaims.
func JWTFromBearer(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET is not set")
		}

		auth := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(auth, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := utils.ParseJWT(secret, raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the verified claims, or nil outside an authenticated route.
func ClaimsFrom(c *fiber.Ctx) *utils.Claims {
	claims, _ := c.Locals(LocalClaims).(*utils.Claims)
	return claims
}
