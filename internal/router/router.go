package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/admissions-go-api/internal/config"
	"github.com/noah-isme/admissions-go-api/internal/handler"
	"github.com/noah-isme/admissions-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	RequestHandler       *handler.RequestHandler
	AdminRequestHandler  *handler.AdminRequestHandler
	AdminStatsHandler    *handler.AdminStatsHandler
	AdminActivityHandler *handler.AdminActivityHandler
	JWTMiddleware        fiber.Handler
	RoleMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Public v1 group for health & submissions
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.RequestHandler != nil {
		deps.RequestHandler.Register(api)
	}

	// Use provided middlewares, or no-ops if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	roleMiddleware := deps.RoleMiddleware
	if roleMiddleware == nil {
		roleMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Staff-only decision surface
	admin := app.Group("/api/admin", jwtMiddleware, roleMiddleware)

	if deps.AdminRequestHandler != nil {
		deps.AdminRequestHandler.Register(admin)
	}

	if deps.AdminStatsHandler != nil {
		stats := admin.Group("/admissions")
		deps.AdminStatsHandler.Register(stats)
	}

	if deps.AdminActivityHandler != nil {
		activity := admin.Group("/activity")
		deps.AdminActivityHandler.Register(activity)
	}

	app.Get("/metrics", observability.MetricsHandler())
}
