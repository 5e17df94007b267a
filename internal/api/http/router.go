package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-service/internal/api/http/handlers"
	"github.com/spec-kit/hr-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Employees      *handlers.EmployeesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The profile update lives only under
// /auth/profile; the old duplicate PUT /employees/profile route was
// consolidated away.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/profile", cfg.Auth.GetProfile)
	authProtected.Put("/profile", cfg.Auth.UpdateProfile)

	employees := app.Group("/employees", cfg.AuthMiddleware.Handle)
	employees.Get("/profile", cfg.Employees.GetOwnRecord)
	employees.Post("/leaves", cfg.Employees.SubmitLeave)
	employees.Post("/documents", cfg.Employees.AddDocument)

	adminOnly := employees.Group("", auth.RequireAdmin())
	adminOnly.Get("/all", cfg.Employees.List)
	adminOnly.Get("/analytics", cfg.Employees.Analytics)
	adminOnly.Get("/deleted", cfg.Employees.ListDeleted)
	adminOnly.Put("/:id/update-status", cfg.Employees.AdminUpdate)
	adminOnly.Put("/:id/leaves/:leaveId", cfg.Employees.DecideLeave)
	adminOnly.Patch("/:id/restore", cfg.Employees.Restore)
	adminOnly.Delete("/:id", cfg.Employees.Delete)
}
