package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/ManuelReschke/PayFox/app/controllers"
	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/cache"
	"github.com/ManuelReschke/PayFox/internal/pkg/config"
	"github.com/ManuelReschke/PayFox/internal/pkg/database"
	"github.com/ManuelReschke/PayFox/internal/pkg/env"
	"github.com/ManuelReschke/PayFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/PayFox/internal/pkg/metrics"
	"github.com/ManuelReschke/PayFox/internal/pkg/payments"
	"github.com/ManuelReschke/PayFox/internal/pkg/router"
	"github.com/ManuelReschke/PayFox/internal/pkg/session"
	"github.com/ManuelReschke/PayFox/internal/pkg/webhooks"
)

func main() {
	env.SetupEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app, manager, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	manager.Start()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during server shutdown: %v", err)
		}
	}()

	if err := app.Listen(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	manager.Stop()
}

// NewApplication connects the stores and wires every component into a fiber
// app. The returned manager is not started yet.
func NewApplication(cfg *config.Config) (*fiber.App, *jobqueue.Manager, error) {
	db, err := database.SetupDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	redisClient := cache.SetupCache(cfg)
	session.NewSessionStore(cfg)

	repos := repository.NewFactory(db)
	gateway := payments.NewStripeGateway(cfg)

	manager := jobqueue.NewManager(redisClient, cfg, webhooks.DeadLettered)
	dispatcher := webhooks.NewDispatcher(manager.GetQueue(), webhooks.NewHTTPForwarder(cfg), repos.GetWebhookEventRepository())
	dispatcher.Register(manager.GetQueue())

	app := fiber.New(fiber.Config{
		AppName:   "PayFox",
		BodyLimit: 1 << 20,
	})

	// recovery and logging
	app.Use(recover.New(), requestid.New(requestid.Config{Generator: uuid.NewString}), logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(metrics.Middleware())

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}))

	// ROUTER
	router.InstallRouter(app, router.Controllers{
		Auth:     controllers.NewAuthController(payments.NewOnboarder(gateway, repos.GetUserRepository(), cfg), repos.GetUserRepository()),
		Payments: controllers.NewPaymentController(payments.NewInvoiceService(gateway, cfg), payments.NewStatsService(gateway)),
		Catalog:  controllers.NewCatalogController(payments.NewCatalog(gateway)),
		Webhooks: controllers.NewWebhookController(dispatcher, manager.GetQueue()),
		Users:    repos.GetUserRepository(),
	})

	return app, manager, nil
}
