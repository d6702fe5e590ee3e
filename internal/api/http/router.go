package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kalpesh-Product/wono-ticketing/internal/api/http/handlers"
	"github.com/Kalpesh-Product/wono-ticketing/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Queries        *handlers.QueriesHandler
	Issues         *handlers.IssuesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Path names mirror the dashboard API
// contract. Order matters within the group: the catch-all ":id" read is
// registered last.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/token", cfg.Auth.Token)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)

	// taxonomy
	tickets.Patch("/add-ticket-issue", cfg.Issues.Add)
	tickets.Get("/ticket-issues/:department", cfg.Issues.Approved)
	tickets.Get("/new-ticket-issues/:department", cfg.Issues.Pending)
	tickets.Patch("/approve-ticket-issue/:id", cfg.Issues.Approve)
	tickets.Delete("/reject-ticket-issue/:id", cfg.Issues.Reject)

	// lifecycle
	tickets.Post("/raise-ticket", cfg.Tickets.Raise)
	tickets.Patch("/accept-ticket/:ticketId", cfg.Tickets.Accept)
	tickets.Patch("/reject-ticket/:id", cfg.Tickets.Reject)
	tickets.Patch("/assign-ticket/:ticketId", cfg.Tickets.Assign)
	tickets.Patch("/escalate-ticket", cfg.Tickets.Escalate)
	tickets.Patch("/close-ticket", cfg.Tickets.Close)
	tickets.Get("/attachment/:key", cfg.Tickets.Attachment)

	// queries
	tickets.Get("/get-tickets/:departmentId", cfg.Queries.ByDepartment)
	tickets.Get("/get-all-tickets", cfg.Queries.All)
	tickets.Get("/get-depts-tickets", cfg.Queries.DepartmentCounts)
	tickets.Get("/my-tickets", cfg.Queries.Mine)
	tickets.Get("/today", cfg.Queries.Today)
	tickets.Get("/ticket-filter/:flag/:dept", cfg.Queries.Filtered)
	tickets.Get("/team-members-tickets/:departmentId", cfg.Queries.TeamWorkload)
	tickets.Get("/ticket-history/:ticketId", cfg.Queries.History)
	tickets.Get("/:id", cfg.Queries.One)
}
