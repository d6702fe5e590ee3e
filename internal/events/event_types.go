package events

import (
	"time"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketRaised      EventType = "ticket_raised"
	EventTicketAccepted    EventType = "ticket_accepted"
	EventTicketRejected    EventType = "ticket_rejected"
	EventTicketAssigned    EventType = "ticket_assigned"
	EventTicketEscalated   EventType = "ticket_escalated"
	EventTicketClosed      EventType = "ticket_closed"
	EventIssueTypeProposed EventType = "issue_type_proposed"
	EventIssueTypeRejected EventType = "issue_type_rejected"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketRaisedPayload payload.
type TicketRaisedPayload struct {
	DepartmentID string `json:"department_id"`
	IssueTypeID  string `json:"issue_type_id"`
	Title        string `json:"title"`
}

// TicketTransitionPayload covers accept/reject/escalate/close.
type TicketTransitionPayload struct {
	FromStatus domain.TicketStatus `json:"from_status"`
	ToStatus   domain.TicketStatus `json:"to_status"`
	Note       string              `json:"note,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID       string  `json:"assignee_id"`
	PreviousAssignee *string `json:"previous_assignee,omitempty"`
}

// IssueTypePayload covers taxonomy events.
type IssueTypePayload struct {
	IssueTypeID  string `json:"issue_type_id"`
	DepartmentID string `json:"department_id"`
	Label        string `json:"label"`
}
