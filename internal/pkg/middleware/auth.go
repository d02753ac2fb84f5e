package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PayFox/internal/pkg/usercontext"
)

// RequireLogin rejects requests without a logged-in session with a JSON 401.
func RequireLogin(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Login required",
			"type":    "unauthorized",
			"detail":  "a logged in session is required for this endpoint",
		})
	}
	return c.Next()
}
