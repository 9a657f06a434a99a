package middleware

import (
	"log"
	"strings"

	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "user_id"
	localEmail  = "email"
)

// AuthRequired is a Fiber middleware to check for a valid access token.
// A missing token is 401, a token that fails verification is 403.
func AuthRequired(tokenService *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Access token required",
				"code":  "NO_TOKEN",
			})
		}

		claims, err := tokenService.VerifyAccess(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Invalid or expired token",
				"code":  "INVALID_TOKEN",
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals(localUserID, claims.ID)
		c.Locals(localEmail, claims.Email)

		return c.Next()
	}
}

// UserID returns the authenticated user id set by AuthRequired.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(localUserID).(uint)
	return id
}

// Email returns the authenticated user's email as carried in the token.
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(localEmail).(string)
	return email
}
