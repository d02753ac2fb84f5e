package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PayFox/internal/pkg/session"
	"github.com/ManuelReschke/PayFox/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session user once per request.
func UserContextMiddleware(c *fiber.Ctx) error {
	usercontext.Set(c, session.UserID(c))
	return c.Next()
}
