package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderActiveRole is sent by older clients. It is never trusted; a value that
// disagrees with the token's role is refused so the client notices.
const HeaderActiveRole = "X-Active-Role"

func AttachJWTLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return fiber.ErrUnauthorized
		}

		uid := strings.TrimSpace(claims.UserID)
		if _, err := uuid.Parse(uid); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token subject")
		}
		role := strings.ToLower(strings.TrimSpace(claims.Role))

		if h := strings.ToLower(strings.TrimSpace(c.Get(HeaderActiveRole))); h != "" && h != role {
			return fiber.NewError(fiber.StatusForbidden, "active role mismatch: switch role to obtain a new token")
		}

		c.Locals(LocalUserID, uid)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, role)

		return c.Next()
	}
}
