package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RoleLookup returns the roles a user holds right now.
type RoleLookup func(ctx context.Context, userID uuid.UUID) ([]string, error)

// RequireRoles gates on the active role carried in the verified token.
func RequireRoles(allowed ...string) fiber.Handler {
	return RequireHeldRoles(nil, allowed...)
}

// RequireHeldRoles is RequireRoles plus a check that the user still holds the
// token's active role, so removing a role takes effect before the token expires.
// A nil lookup skips the second check.
func RequireHeldRoles(lookup RoleLookup, allowed ...string) fiber.Handler {
	allowedSet := map[string]bool{}
	for _, r := range allowed {
		allowedSet[strings.ToLower(r)] = true
	}

	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return fiber.ErrUnauthorized
		}

		role := strings.ToLower(strings.TrimSpace(claims.Role))
		if !allowedSet[role] {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: requires role "+strings.Join(allowed, " or "))
		}

		if lookup != nil {
			uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
			if err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid token subject")
			}
			held, err := lookup(c.UserContext(), uid)
			if err != nil {
				return err
			}
			if !slices.Contains(held, role) {
				return fiber.NewError(fiber.StatusForbidden, "role "+role+" was removed from this account: switch role to obtain a new token")
			}
		}

		return c.Next()
	}
}
