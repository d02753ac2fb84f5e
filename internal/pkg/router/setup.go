package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PayFox/app/controllers"
	"github.com/ManuelReschke/PayFox/app/repository"
)

// Router installs one group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Controllers bundles the handlers the routers mount.
type Controllers struct {
	Auth     *controllers.AuthController
	Payments *controllers.PaymentController
	Catalog  *controllers.CatalogController
	Webhooks *controllers.WebhookController
	// Users resolves the session user for the account ownership check.
	Users repository.UserRepository
}

func InstallRouter(app *fiber.App, ctrl Controllers) {
	// HttpRouter goes first: it installs the user context middleware the
	// session-protected routes of the other routers depend on.
	setup(app,
		NewHttpRouter(ctrl),
		NewWebhookRouter(ctrl.Webhooks),
		NewOpsRouter(),
	)

	app.Use(notFound)
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Not found",
		"type":    "not_found",
		"detail":  c.Method() + " " + c.Path() + " is not a known endpoint",
	})
}
