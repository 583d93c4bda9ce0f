// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	UserIDKey   = "user_id"
	DeviceIDKey = "device_id"
)

// UserContextMiddleware extracts the caller identity the gateway forwards in
// X-User-ID. Requests without a user are refused. Roles are resolved from the
// user record, not from gateway headers.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// GetUserID returns the authenticated user id, or "" outside the user context.
func GetUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
