package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Kalpesh-Product/wono-ticketing/internal/api/dto"
	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
	"github.com/Kalpesh-Product/wono-ticketing/internal/service"
	"github.com/Kalpesh-Product/wono-ticketing/pkg/format"
)

func ticketResponse(t *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		AttachmentKey:   t.AttachmentKey,
		DepartmentID:    t.DepartmentID,
		IssueTypeID:     t.IssueTypeID,
		RaisedByID:      t.RaisedByID,
		AssignedToID:    t.AssignedToID,
		Status:          t.Status,
		RejectionReason: t.RejectionReason,
		CreatedAt:       t.CreatedAt,
		CreatedDate:     format.Date(&t.CreatedAt),
		CreatedTime:     format.Time(&t.CreatedAt),
		AcceptedAt:      t.AcceptedAt,
		AssignedAt:      t.AssignedAt,
		EscalatedAt:     t.EscalatedAt,
		ClosedAt:        t.ClosedAt,
		ResolutionTime:  format.Duration(&t.CreatedAt, t.ClosedAt),
		UpdatedAt:       t.UpdatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func issueTypeResponse(it *domain.IssueType) dto.IssueTypeResponse {
	return dto.IssueTypeResponse{
		ID:           it.ID,
		DepartmentID: it.DepartmentID,
		Label:        it.Label,
		Status:       it.Status,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func issueTypeResponses(types []domain.IssueType) []dto.IssueTypeResponse {
	items := make([]dto.IssueTypeResponse, 0, len(types))
	for i := range types {
		items = append(items, issueTypeResponse(&types[i]))
	}
	return items
}

func auditResponses(entries []domain.TicketAudit) []dto.TicketAuditResponse {
	items := make([]dto.TicketAuditResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.TicketAuditResponse{
			ID:         entry.ID,
			ActorID:    entry.ActorID,
			Action:     entry.Action,
			FromStatus: entry.FromStatus,
			ToStatus:   entry.ToStatus,
			Note:       entry.Note,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return items
}

func parsePage(c *fiber.Ctx) service.Page {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	return service.Page{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
