package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/benchpoint/benchpoint/internal/core/domain"
)

const userIDKey = "userID"

// RequireAuth resolves the Bearer token through the identity verifier
// and stores the acting user id in the request locals. Expired tokens
// get a tokenExpired flag so clients know to refresh rather than
// re-login.
func RequireAuth(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return errUnauthorized(c, "Access denied. No token provided.")
		}

		userID, err := deps.Verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message":      "Token expired.",
					"tokenExpired": true,
				})
			}
			return errUnauthorized(c, "Invalid token.")
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// actorID returns the authenticated user id set by RequireAuth.
func actorID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(userIDKey).(int64)
	return id
}
