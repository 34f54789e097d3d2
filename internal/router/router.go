package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/schooldesk/schooldesk-api/internal/config"
	"github.com/schooldesk/schooldesk-api/internal/handler"
	"github.com/schooldesk/schooldesk-api/internal/middleware"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	BatchHandler        *handler.BatchHandler
	ClassHandler        *handler.ClassHandler
	SubjectHandler      *handler.SubjectHandler
	StudentHandler      *handler.StudentHandler
	FeeStructureHandler *handler.FeeStructureHandler
	FeePaymentHandler   *handler.FeePaymentHandler
	ReportHandler       *handler.ReportHandler
	DashboardHandler    *handler.DashboardHandler
	UserHandler         *handler.UserHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	if deps.AuthHandler != nil {
		// Credential endpoints key the limiter by client IP since no user is signed in yet.
		deps.AuthHandler.Register(api.Group("/auth", middleware.RateLimit("auth", 10, time.Minute)))
	}

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.BatchHandler != nil {
		deps.BatchHandler.Register(api.Group("/batches", jwtMiddleware))
	}
	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(api.Group("/classes", jwtMiddleware))
	}
	if deps.SubjectHandler != nil {
		deps.SubjectHandler.Register(api.Group("/subjects", jwtMiddleware))
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", jwtMiddleware))
	}
	if deps.FeeStructureHandler != nil {
		deps.FeeStructureHandler.Register(api.Group("/fee-structures", jwtMiddleware))
	}
	if deps.FeePaymentHandler != nil {
		deps.FeePaymentHandler.Register(api.Group("/fee-payments", jwtMiddleware))
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(api.Group("/fee-reports", jwtMiddleware))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", jwtMiddleware))
	}
	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users", jwtMiddleware, middleware.RequireRole(models.RoleAdmin)))
	}
}
