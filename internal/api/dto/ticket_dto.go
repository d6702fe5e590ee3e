package dto

import (
	"time"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
)

// RejectTicketRequest payload.
type RejectTicketRequest struct {
	Reason string `json:"reason"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// TicketIDRequest payload for the body-addressed transitions
// (escalate-ticket, close-ticket).
type TicketIDRequest struct {
	TicketID string `json:"ticket_id"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	AttachmentKey   *string             `json:"attachment_key,omitempty"`
	DepartmentID    string              `json:"department_id"`
	IssueTypeID     string              `json:"issue_type_id"`
	RaisedByID      string              `json:"raised_by_id"`
	AssignedToID    *string             `json:"assigned_to_id,omitempty"`
	Status          domain.TicketStatus `json:"status"`
	RejectionReason *string             `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	CreatedDate     string              `json:"created_date"`
	CreatedTime     string              `json:"created_time"`
	AcceptedAt      *time.Time          `json:"accepted_at,omitempty"`
	AssignedAt      *time.Time          `json:"assigned_at,omitempty"`
	EscalatedAt     *time.Time          `json:"escalated_at,omitempty"`
	ClosedAt        *time.Time          `json:"closed_at,omitempty"`
	ResolutionTime  string              `json:"resolution_time"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// DepartmentCountsResponse aggregates one department.
type DepartmentCountsResponse struct {
	DepartmentID string `json:"department_id"`
	Open         int    `json:"open"`
	Escalated    int    `json:"escalated"`
	Closed       int    `json:"closed"`
	Rejected     int    `json:"rejected"`
	Total        int    `json:"total"`
}

// AssigneeWorkloadResponse is one row of the team workload projection.
type AssigneeWorkloadResponse struct {
	AssigneeID string `json:"assignee_id"`
	OpenCount  int    `json:"open_count"`
}

// TicketAuditResponse is one audit trail entry.
type TicketAuditResponse struct {
	ID         string              `json:"id"`
	ActorID    string              `json:"actor_id"`
	Action     domain.TicketAction `json:"action"`
	FromStatus domain.TicketStatus `json:"from_status,omitempty"`
	ToStatus   domain.TicketStatus `json:"to_status"`
	Note       string              `json:"note,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}
