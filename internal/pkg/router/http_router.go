package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/PayFox/app/controllers"
	"github.com/ManuelReschke/PayFox/internal/pkg/middleware"
)

type HttpRouter struct {
	ctrl Controllers
}

func NewHttpRouter(ctrl Controllers) *HttpRouter {
	return &HttpRouter{ctrl: ctrl}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Use(middleware.UserContextMiddleware)

	app.Get("/", controllers.HandleStatus)

	// login and signup are the brute-forceable endpoints
	auth := app.Group("/auth", limiter.New(limiter.Config{Max: 20}))
	auth.Post("/signup", h.ctrl.Auth.HandleSignup)
	auth.Post("/login", h.ctrl.Auth.HandleLogin)
	auth.Post("/logout", h.ctrl.Auth.HandleLogout)
	auth.Post("/update-user", middleware.RequireLogin, h.ctrl.Auth.HandleUpdateUser)

	// attached per route, a group Use would turn unknown methods into 401s
	owner := middleware.RequireAccountOwner(h.ctrl.Users)

	payments := app.Group("/payments")
	payments.Post("/invoice/create", owner, h.ctrl.Payments.HandleCreateInvoice)
	payments.Put("/invoice/update", owner, h.ctrl.Payments.HandleUpdateInvoice)
	payments.Delete("/invoice/delete", owner, h.ctrl.Payments.HandleDeleteInvoice)
	payments.Post("/get-stats", owner, h.ctrl.Payments.HandleGetStats)

	app.Post("/customer/create", owner, h.ctrl.Catalog.HandleCreateCustomer)
	app.Post("/products/create", owner, h.ctrl.Catalog.HandleCreateProduct)
}
