package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/neuroheart/hrv/internal/cache"
	"github.com/neuroheart/hrv/internal/config"
	"github.com/neuroheart/hrv/internal/handlers"
	"github.com/neuroheart/hrv/internal/logging"
	"github.com/neuroheart/hrv/internal/middleware"
	"github.com/neuroheart/hrv/internal/store"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, st store.HeartbeatStore, c *cache.AnalysisCache, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, st, c, cfg.Analysis)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Analysis Routes
	v1.Get("/hrv/analysis", h.Analysis)
	v1.Get("/hrv/day", h.Day)
	v1.Get("/hrv/range", h.DayRange)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, st store.HeartbeatStore, c *cache.AnalysisCache, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "NeuroHeart HRV API",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, st, c, cfg)

	return app
}
