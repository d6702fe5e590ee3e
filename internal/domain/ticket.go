package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. The status column is
// the single source of truth; the timestamp fields are audit-only and are
// never read back to infer state.
type TicketStatus string

const (
	TicketStatusRaised    TicketStatus = "RAISED"
	TicketStatusAccepted  TicketStatus = "ACCEPTED"
	TicketStatusAssigned  TicketStatus = "ASSIGNED"
	TicketStatusEscalated TicketStatus = "ESCALATED"
	TicketStatusClosed    TicketStatus = "CLOSED"
	TicketStatusRejected  TicketStatus = "REJECTED"
)

// OpenStatuses lists the states in which a ticket still counts as open.
// Escalated tickets remain open until closed.
var OpenStatuses = []TicketStatus{
	TicketStatusRaised,
	TicketStatusAccepted,
	TicketStatusAssigned,
	TicketStatusEscalated,
}

// IsTerminal reports whether no further transitions are allowed.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusClosed || s == TicketStatusRejected
}

// IsValid reports whether the value is a known status.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusRaised, TicketStatusAccepted, TicketStatusAssigned,
		TicketStatusEscalated, TicketStatusClosed, TicketStatusRejected:
		return true
	}
	return false
}

// Ticket is the aggregate for department support requests.
type Ticket struct {
	ID              string
	Title           string
	Description     string
	AttachmentKey   *string
	DepartmentID    string
	IssueTypeID     string
	RaisedByID      string
	AssignedToID    *string
	Status          TicketStatus
	RejectionReason *string
	CreatedAt       time.Time
	AcceptedAt      *time.Time
	AssignedAt      *time.Time
	EscalatedAt     *time.Time
	ClosedAt        *time.Time
	UpdatedAt       time.Time
}

// IsOpen reports whether the ticket still requires work.
func (t *Ticket) IsOpen() bool {
	return !t.Status.IsTerminal()
}
