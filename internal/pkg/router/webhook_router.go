package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PayFox/app/controllers"
	"github.com/ManuelReschke/PayFox/internal/pkg/middleware"
)

// WebhookRouter mounts the payment platform callbacks. They carry no session
// and are not rate limited; the platform retries on its own schedule.
type WebhookRouter struct {
	hooks *controllers.WebhookController
}

func NewWebhookRouter(hooks *controllers.WebhookController) *WebhookRouter {
	return &WebhookRouter{hooks: hooks}
}

func (w WebhookRouter) InstallRouter(app *fiber.App) {
	group := app.Group("/webhooks")
	group.Get("/", w.hooks.HandleStatus)
	group.Post("/invoice/receive", w.hooks.HandleInvoiceEvent)
	group.Post("/transactions/receive", w.hooks.HandleTransactionEvent)
	group.Get("/dead-letters", middleware.RequireLogin, w.hooks.HandleDeadLetters)
}
