package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hpdsk/helpdesk-service/internal/api/http/handlers"
	"github.com/hpdsk/helpdesk-service/internal/auth"
	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Tasks          *handlers.TasksHandler
	Equipment      *handlers.EquipmentHandler
	Contracts      *handlers.ContractsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/sign-in", cfg.Auth.SignIn)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	authProtected.Post("/sign-out", cfg.Auth.SignOut)
	authProtected.Post("/password", cfg.Auth.UpdatePassword)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Put("/me", cfg.Auth.UpdateProfile)
	authProtected.Post("/profiles", auth.RequireRole(domain.RoleAdministrator), cfg.Auth.CreateProfile)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)
	tickets.Patch("/:id/status", cfg.Tickets.ChangeStatus)
	tickets.Get("/:id/stream", cfg.Tickets.StreamTicket)

	tasks := protected.Group("/tasks")
	tasks.Post("", cfg.Tasks.Create)
	tasks.Get("", cfg.Tasks.List)
	tasks.Get("/:id", cfg.Tasks.Get)
	tasks.Put("/:id", cfg.Tasks.Update)
	tasks.Delete("/:id", cfg.Tasks.Delete)

	equipment := protected.Group("/equipment")
	equipment.Post("", cfg.Equipment.Create)
	equipment.Get("", cfg.Equipment.List)
	equipment.Get("/:id", cfg.Equipment.Get)
	equipment.Put("/:id", cfg.Equipment.Update)
	equipment.Delete("/:id", cfg.Equipment.Delete)

	contracts := protected.Group("/contracts")
	contracts.Post("", cfg.Contracts.Create)
	contracts.Get("", cfg.Contracts.List)
	contracts.Get("/expiring", cfg.Contracts.ListExpiring)
	contracts.Get("/:id", cfg.Contracts.Get)
	contracts.Put("/:id", cfg.Contracts.Update)
	contracts.Delete("/:id", cfg.Contracts.Delete)

	reports := protected.Group("/reports", auth.RequireRole(domain.RoleAdministrator, domain.RoleSupervisor))
	reports.Get("", cfg.Reports.Generate)
	reports.Get("/time-frames", cfg.Reports.TimeFrames)
}
