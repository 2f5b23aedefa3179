package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-dashboard/internal/config"
	"github.com/noah-isme/gema-dashboard/internal/handler"
	"github.com/noah-isme/gema-dashboard/internal/middleware"
	"github.com/noah-isme/gema-dashboard/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	StatsHandler      *handler.StatsHandler
	AuthHandler       *handler.AuthHandler
	NavigationHandler *handler.NavigationHandler
	LiveHandler       *handler.LiveHandler
	SessionMiddleware fiber.Handler
	AuthRateLimiter   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	sessionMiddleware := deps.SessionMiddleware
	if sessionMiddleware == nil {
		sessionMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	}, sessionMiddleware)
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"), deps.AuthRateLimiter)
	}

	dashboard := api.Group("/dashboard")
	dashboard.Use("/instructor", middleware.RequireRole(middleware.AuthRoleInstructor))
	dashboard.Use("/student", middleware.RequireRole(middleware.AuthRoleStudent))

	if deps.NavigationHandler != nil {
		deps.NavigationHandler.Register(dashboard)
	}
	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(dashboard)
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(dashboard)
	}
	if deps.StatsHandler != nil {
		deps.StatsHandler.Register(dashboard)
	}
	if deps.LiveHandler != nil {
		deps.LiveHandler.Register(dashboard)
	}
}
