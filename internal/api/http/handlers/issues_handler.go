package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kalpesh-Product/wono-ticketing/internal/api/dto"
	"github.com/Kalpesh-Product/wono-ticketing/internal/auth"
	"github.com/Kalpesh-Product/wono-ticketing/internal/service"
	apperrors "github.com/Kalpesh-Product/wono-ticketing/pkg/util/errorutil"
)

// IssuesHandler exposes the issue taxonomy workflow.
type IssuesHandler struct {
	taxonomy *service.TaxonomyService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(taxonomy *service.TaxonomyService) *IssuesHandler {
	return &IssuesHandler{taxonomy: taxonomy}
}

// Add PATCH /tickets/add-ticket-issue.
func (h *IssuesHandler) Add(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	var req dto.AddIssueTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	issueType, err := h.taxonomy.Propose(c.UserContext(), actor, req.DepartmentID, req.Label)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": issueTypeResponse(issueType)})
}

// Approved GET /tickets/ticket-issues/:department.
func (h *IssuesHandler) Approved(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	types, err := h.taxonomy.ListApproved(c.UserContext(), c.Params("department"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueTypeResponses(types)})
}

// Pending GET /tickets/new-ticket-issues/:department.
func (h *IssuesHandler) Pending(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	types, err := h.taxonomy.ListPending(c.UserContext(), c.Params("department"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueTypeResponses(types)})
}

// Approve PATCH /tickets/approve-ticket-issue/:id.
func (h *IssuesHandler) Approve(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	issueType, err := h.taxonomy.Approve(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueTypeResponse(issueType)})
}

// Reject DELETE /tickets/reject-ticket-issue/:id.
func (h *IssuesHandler) Reject(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	issueType, err := h.taxonomy.Reject(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueTypeResponse(issueType)})
}
