package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ems-service/internal/api/http/handlers"
	"github.com/spec-kit/ems-service/internal/auth"
	"github.com/spec-kit/ems-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Employees   *handlers.EmployeesHandler
	Departments *handlers.DepartmentsHandler
	Users       *handlers.UsersHandler
	Middleware  *auth.Middleware

	// RestrictDepartments gates department CRUD behind ADMIN/MANAGER when
	// true; otherwise any authenticated caller may manage departments.
	RestrictDepartments bool
}

// RegisterRoutes wires HTTP routes and their role requirements. Role checks
// are any-of: holding one of the listed roles is enough.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Middleware.Handle, cfg.Auth.Logout)

	manage := auth.RequireRoles(domain.RoleAdmin, domain.RoleManager)
	read := auth.RequireRoles(domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee)

	employees := api.Group("/employees", cfg.Middleware.Handle)
	employees.Post("/", manage, cfg.Employees.Create)
	employees.Get("/", read, cfg.Employees.List)
	employees.Get("/:id", read, cfg.Employees.Get)
	employees.Put("/:id", manage, cfg.Employees.Update)
	employees.Delete("/:id", manage, cfg.Employees.Delete)

	departmentPolicy := auth.RequireRoles()
	if cfg.RestrictDepartments {
		departmentPolicy = manage
	}
	departments := api.Group("/departments", cfg.Middleware.Handle, departmentPolicy)
	departments.Post("/", cfg.Departments.Create)
	departments.Get("/", cfg.Departments.List)
	departments.Get("/:id", cfg.Departments.Get)
	departments.Put("/:id", cfg.Departments.Update)
	departments.Delete("/:id", cfg.Departments.Delete)

	admin := auth.RequireRoles(domain.RoleAdmin)
	users := api.Group("/users", cfg.Middleware.Handle, admin)
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
}
