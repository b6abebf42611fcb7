package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskd/helpdesk/internal/api/http/handlers"
	"github.com/helpdeskd/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Departments    *handlers.DepartmentsHandler
	Notifications  *handlers.NotificationsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Users.ChangePassword)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/me", cfg.Users.Me)
	protected.Patch("/me", cfg.Users.UpdateProfile)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/status", cfg.Tickets.ChangeStatus)
	tickets.Post("/:id/close", cfg.Tickets.CloseTicket)
	tickets.Post("/:id/reopen", cfg.Tickets.ReopenTicket)
	tickets.Post("/:id/accept", cfg.Tickets.AcceptTicket)
	tickets.Post("/:id/assign", cfg.Tickets.AssignTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/rating", cfg.Tickets.RateTicket)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)

	protected.Get("/categories", cfg.Tickets.ListCategories)

	departments := protected.Group("/departments")
	departments.Get("", cfg.Departments.ListDepartments)
	departments.Get("/:id", cfg.Departments.GetDepartment)
	departments.Post("", auth.RequireSuperuser(), cfg.Departments.CreateDepartment)
	departments.Patch("/:id", auth.RequireSuperuser(), cfg.Departments.UpdateDepartment)
	departments.Post("/:id/members", auth.RequireSuperuser(), cfg.Departments.AddMember)
	departments.Patch("/:id/members/:userId", auth.RequireSuperuser(), cfg.Departments.UpdateMember)
	departments.Delete("/:id/members/:userId", auth.RequireSuperuser(), cfg.Departments.RemoveMember)

	sla := protected.Group("/sla")
	sla.Get("/policies", cfg.Departments.ListSLAPolicies)
	sla.Post("/policies", auth.RequireSuperuser(), cfg.Departments.CreateSLAPolicy)
	sla.Get("/escalation-rules", cfg.Departments.ListEscalationRules)
	sla.Post("/escalation-rules", auth.RequireSuperuser(), cfg.Departments.CreateEscalationRule)

	notifications := protected.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Post("/mark-all-read", cfg.Notifications.MarkAllRead)
	notifications.Patch("/:id", cfg.Notifications.MarkRead)

	protected.Get("/analytics/dashboard", auth.RequireSuperuser(), cfg.Analytics.Dashboard)
}
