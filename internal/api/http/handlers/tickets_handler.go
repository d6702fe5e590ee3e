package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kalpesh-Product/wono-ticketing/internal/api/dto"
	"github.com/Kalpesh-Product/wono-ticketing/internal/auth"
	"github.com/Kalpesh-Product/wono-ticketing/internal/service"
	"github.com/Kalpesh-Product/wono-ticketing/internal/storage"
	apperrors "github.com/Kalpesh-Product/wono-ticketing/pkg/util/errorutil"
)

// TicketsHandler exposes the lifecycle operations.
type TicketsHandler struct {
	lifecycle *service.LifecycleService
	uploads   *storage.UploadStore
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(lifecycle *service.LifecycleService, uploads *storage.UploadStore) *TicketsHandler {
	return &TicketsHandler{lifecycle: lifecycle, uploads: uploads}
}

// Raise POST /tickets/raise-ticket. Multipart form with an optional file
// field "issue".
func (h *TicketsHandler) Raise(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}

	input := service.RaiseInput{
		DepartmentID: c.FormValue("department_id"),
		IssueTypeID:  c.FormValue("issue_type_id"),
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
	}

	if file, err := c.FormFile("issue"); err == nil && file != nil {
		key, err := h.uploads.Save(file)
		if err != nil {
			return err
		}
		input.AttachmentKey = &key
	}

	ticket, err := h.lifecycle.Raise(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Accept PATCH /tickets/accept-ticket/:ticketId.
func (h *TicketsHandler) Accept(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	ticket, err := h.lifecycle.Accept(c.UserContext(), actor, c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Reject PATCH /tickets/reject-ticket/:id.
func (h *TicketsHandler) Reject(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	var req dto.RejectTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.lifecycle.Reject(c.UserContext(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Assign PATCH /tickets/assign-ticket/:ticketId.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.lifecycle.Assign(c.UserContext(), actor, c.Params("ticketId"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Escalate PATCH /tickets/escalate-ticket. Body-addressed per the dashboard
// contract.
func (h *TicketsHandler) Escalate(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	var req dto.TicketIDRequest
	if err := c.BodyParser(&req); err != nil || req.TicketID == "" {
		return apperrors.NewValidationError("ticket_id required", nil)
	}
	ticket, err := h.lifecycle.Escalate(c.UserContext(), actor, req.TicketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Close PATCH /tickets/close-ticket.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	var req dto.TicketIDRequest
	if err := c.BodyParser(&req); err != nil || req.TicketID == "" {
		return apperrors.NewValidationError("ticket_id required", nil)
	}
	ticket, err := h.lifecycle.Close(c.UserContext(), actor, req.TicketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Attachment GET /tickets/attachment/:key streams a stored upload.
func (h *TicketsHandler) Attachment(c *fiber.Ctx) error {
	if _, ok := auth.ActorFromContext(c); !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	reader, err := h.uploads.Open(c.Params("key"))
	if err != nil {
		return err
	}
	return c.SendStream(reader)
}
