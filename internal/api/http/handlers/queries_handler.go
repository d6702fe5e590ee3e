package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kalpesh-Product/wono-ticketing/internal/api/dto"
	"github.com/Kalpesh-Product/wono-ticketing/internal/auth"
	"github.com/Kalpesh-Product/wono-ticketing/internal/service"
	apperrors "github.com/Kalpesh-Product/wono-ticketing/pkg/util/errorutil"
)

// QueriesHandler exposes the read-side projections.
type QueriesHandler struct {
	queries *service.QueryService
}

// NewQueriesHandler constructs handler.
func NewQueriesHandler(queries *service.QueryService) *QueriesHandler {
	return &QueriesHandler{queries: queries}
}

// ByDepartment GET /tickets/get-tickets/:departmentId.
func (h *QueriesHandler) ByDepartment(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	tickets, err := h.queries.ListByDepartment(c.UserContext(), c.Params("departmentId"), parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// All GET /tickets/get-all-tickets.
func (h *QueriesHandler) All(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	tickets, err := h.queries.ListAll(c.UserContext(), parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// DepartmentCounts GET /tickets/get-depts-tickets.
func (h *QueriesHandler) DepartmentCounts(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	counts, err := h.queries.DepartmentCounts(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentCountsResponse, 0, len(counts))
	for _, count := range counts {
		items = append(items, dto.DepartmentCountsResponse{
			DepartmentID: count.DepartmentID,
			Open:         count.Open,
			Escalated:    count.Escalated,
			Closed:       count.Closed,
			Rejected:     count.Rejected,
			Total:        count.Total,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Mine GET /tickets/my-tickets.
func (h *QueriesHandler) Mine(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	tickets, err := h.queries.ListMine(c.UserContext(), actor, parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Today GET /tickets/today.
func (h *QueriesHandler) Today(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	tickets, err := h.queries.ListToday(c.UserContext(), parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Filtered GET /tickets/ticket-filter/:flag/:dept.
func (h *QueriesHandler) Filtered(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	tickets, err := h.queries.ListFiltered(c.UserContext(), c.Params("flag"), c.Params("dept"), parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// TeamWorkload GET /tickets/team-members-tickets/:departmentId.
func (h *QueriesHandler) TeamWorkload(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	workload, err := h.queries.TeamWorkload(c.UserContext(), c.Params("departmentId"))
	if err != nil {
		return err
	}
	items := make([]dto.AssigneeWorkloadResponse, 0, len(workload))
	for _, w := range workload {
		items = append(items, dto.AssigneeWorkloadResponse{
			AssigneeID: w.AssigneeID,
			OpenCount:  w.OpenCount,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// History GET /tickets/ticket-history/:ticketId.
func (h *QueriesHandler) History(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	entries, err := h.queries.History(c.UserContext(), actor, c.Params("ticketId"), parsePage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": auditResponses(entries)})
}

// One GET /tickets/:id.
func (h *QueriesHandler) One(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	ticket, err := h.queries.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}
