// Package server wires middleware and routes into a fiber app.
package server

import (
	"errors"
	"strings"

	"propmgmt-backend/internal/audit"
	"propmgmt-backend/internal/auth"
	"propmgmt-backend/internal/config"
	"propmgmt-backend/internal/dashboard"
	"propmgmt-backend/internal/database"
	"propmgmt-backend/internal/lease"
	"propmgmt-backend/internal/logger"
	"propmgmt-backend/internal/metrics"
	"propmgmt-backend/internal/models"
	"propmgmt-backend/internal/property"
	"propmgmt-backend/internal/tenant"
	"propmgmt-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

// New builds the app. database.DB must be set before requests are served.
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "propmgmt",
		Views:                 web.NewEngine(),
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}

	app.Use(logger.RequestID())
	app.Use(logger.Middleware())
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, HX-Request, HX-Target, HX-Current-URL",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	// Public
	app.Get("/healthz", HealthHandler())
	app.Get("/metrics", metrics.Handler())
	app.Get(cfg.LoginPath, auth.LoginPageHandler())
	app.Post(cfg.LoginPath, auth.LoginHandler(cfg))
	app.Post("/logout", auth.LogoutHandler(cfg))

	// Protected
	protected := app.Group("", auth.Authenticate(cfg), auth.ResolveHub(cfg))

	protected.Get("/", web.WithNav("dashboard"), dashboard.DashboardHandler())
	protected.Get("/settings/", web.WithNav("settings"), auth.RequireRole(models.RoleAdmin), dashboard.SettingsHandler())
	protected.Get("/audit-logs/", auth.RequireRole(models.RoleAdmin), audit.ListHandler())
	protected.Post("/audit-logs/:id/undo", auth.RequireRole(models.RoleAdmin), audit.UndoHandler())

	properties := protected.Group("/properties", web.WithNav("properties"))
	properties.Get("/", property.ListHandler())
	properties.Get("/add/", property.AddFormHandler())
	properties.Post("/add/", property.CreateHandler())
	properties.Post("/bulk/", property.BulkHandler())
	properties.Get("/:id/edit/", property.EditFormHandler())
	properties.Post("/:id/edit/", property.UpdateHandler())
	properties.Post("/:id/delete/", property.DeleteHandler())
	properties.Post("/:id/toggle/", property.ToggleHandler())

	tenants := protected.Group("/tenants", web.WithNav("tenants"))
	tenants.Get("/", tenant.ListHandler())
	tenants.Get("/add/", tenant.AddFormHandler())
	tenants.Post("/add/", tenant.CreateHandler())
	tenants.Post("/bulk/", tenant.BulkHandler())
	tenants.Get("/:id/edit/", tenant.EditFormHandler())
	tenants.Post("/:id/edit/", tenant.UpdateHandler())
	tenants.Post("/:id/delete/", tenant.DeleteHandler())
	tenants.Post("/:id/toggle/", tenant.ToggleHandler())

	leases := protected.Group("/leases", web.WithNav("leases"))
	leases.Get("/", lease.ListHandler())
	leases.Get("/add/", lease.AddFormHandler())
	leases.Post("/add/", lease.CreateHandler())
	leases.Post("/bulk/", lease.BulkHandler())
	leases.Get("/:id/edit/", lease.EditFormHandler())
	leases.Post("/:id/edit/", lease.UpdateHandler())
	leases.Post("/:id/delete/", lease.DeleteHandler())

	return app
}

// ErrorHandler answers expected failures with their status and message.
// Anything else is logged and reported as a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
		})
	}
	logger.FromCtx(c).Error("unexpected error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}

// GET /healthz
func HealthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := database.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			logger.FromCtx(c).Warn("health check failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
