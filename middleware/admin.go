package middleware

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
)

// AdminChecker resolves whether a user may use the admin routes.
type AdminChecker interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

// AdminAuth lets only admins through. It must run after UserContextMiddleware.
func AdminAuth(checker AdminChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		isAdmin, err := checker.IsAdmin(c.Context(), userID)
		if err != nil {
			log.Printf("❌ [ADMIN] role lookup failed for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to check admin status",
			})
		}
		if !isAdmin {
			log.Printf("🚫 [ADMIN] %s denied on %s", userID, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "access denied",
			})
		}

		return c.Next()
	}
}
