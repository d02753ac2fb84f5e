package middleware

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/usercontext"
)

// accountRef picks the connected account out of a request body. Payment
// routes name it stripe_account, invoice deletion connected_account_id.
type accountRef struct {
	StripeAccount      string `json:"stripe_account"`
	ConnectedAccountID string `json:"connected_account_id"`
}

func (a accountRef) id() string {
	if a.StripeAccount != "" {
		return a.StripeAccount
	}
	return a.ConnectedAccountID
}

// RequireAccountOwner only lets a logged-in user act on their own connected
// account. A body without an account id is passed on so the handler can
// report the missing field.
func RequireAccountOwner(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !usercontext.IsLoggedIn(c) {
			return RequireLogin(c)
		}

		var ref accountRef
		if body := c.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &ref); err != nil {
				// malformed bodies are reported by the handler
				return c.Next()
			}
		}
		if ref.id() == "" {
			return c.Next()
		}

		user, err := users.GetByID(usercontext.GetUserID(c))
		if err != nil {
			log.Warnf("[RequireAccountOwner] session user %d not found: %v", usercontext.GetUserID(c), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Login required",
				"type":    "unauthorized",
				"detail":  "the session user no longer exists",
			})
		}
		if user.StripeAccountID != ref.id() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden",
				"type":    "forbidden",
				"detail":  "the connected account does not belong to the logged in user",
			})
		}
		return c.Next()
	}
}
