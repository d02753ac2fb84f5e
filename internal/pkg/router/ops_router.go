package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OpsRouter exposes the prometheus scrape endpoint and the fiber monitor page.
type OpsRouter struct{}

func NewOpsRouter() *OpsRouter {
	return &OpsRouter{}
}

func (o OpsRouter) InstallRouter(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/monitor", monitor.New(monitor.Config{Title: "PayFox Monitor"}))
}
