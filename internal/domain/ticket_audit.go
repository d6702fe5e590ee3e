package domain

import "time"

// TicketAction names a lifecycle operation for audit entries.
type TicketAction string

const (
	ActionRaise    TicketAction = "RAISE"
	ActionAccept   TicketAction = "ACCEPT"
	ActionReject   TicketAction = "REJECT"
	ActionAssign   TicketAction = "ASSIGN"
	ActionEscalate TicketAction = "ESCALATE"
	ActionClose    TicketAction = "CLOSE"
	ActionView     TicketAction = "VIEW"
)

// TicketAudit records one applied transition. Entries are append-only and
// retained after the ticket reaches a terminal state.
type TicketAudit struct {
	ID         string
	TicketID   string
	ActorID    string
	Action     TicketAction
	FromStatus TicketStatus
	ToStatus   TicketStatus
	Note       string
	CreatedAt  time.Time
}
