package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Kalpesh-Product/wono-ticketing/internal/auth"
	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
	"github.com/Kalpesh-Product/wono-ticketing/internal/events"
	"github.com/Kalpesh-Product/wono-ticketing/internal/repository"
	apperrors "github.com/Kalpesh-Product/wono-ticketing/pkg/util/errorutil"
)

// allowedTransitions is the ticket state machine. Closed and rejected are
// terminal; there is no reopening. Assign appears twice because reassignment
// while assigned is permitted.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusRaised:    {domain.TicketStatusAccepted, domain.TicketStatusRejected},
	domain.TicketStatusAccepted:  {domain.TicketStatusAssigned},
	domain.TicketStatusAssigned:  {domain.TicketStatusAssigned, domain.TicketStatusEscalated, domain.TicketStatusClosed},
	domain.TicketStatusEscalated: {domain.TicketStatusClosed},
	domain.TicketStatusClosed:    {},
	domain.TicketStatusRejected:  {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// LifecycleService validates and applies ticket state transitions, enforcing
// actor authorization and the required fields of each transition. Transitions
// on the same ticket are serialized with a keyed lock; the store re-validates
// the expected status as a last line of defense.
type LifecycleService struct {
	tickets    repository.TicketRepository
	issueTypes repository.IssueTypeRepository
	audits     repository.AuditRepository
	dispatcher events.Dispatcher
	locks      keyedMutex
}

// LifecycleDependencies bundles repositories for the lifecycle service.
type LifecycleDependencies struct {
	TicketRepo    repository.TicketRepository
	IssueTypeRepo repository.IssueTypeRepository
	AuditRepo     repository.AuditRepository
	Dispatcher    events.Dispatcher
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		tickets:    deps.TicketRepo,
		issueTypes: deps.IssueTypeRepo,
		audits:     deps.AuditRepo,
		dispatcher: deps.Dispatcher,
	}
}

// RaiseInput describes ticket creation payload.
type RaiseInput struct {
	DepartmentID  string
	IssueTypeID   string
	Title         string
	Description   string
	AttachmentKey *string
}

// Raise creates a ticket in state RAISED.
func (s *LifecycleService) Raise(ctx context.Context, actor *domain.Actor, input RaiseInput) (*domain.Ticket, error) {
	if !auth.CanPerform(actor, domain.ActionRaise, nil) {
		return nil, apperrors.NewForbidden("not allowed to raise tickets")
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.DepartmentID == "" || input.IssueTypeID == "" || input.Title == "" || input.Description == "" {
		return nil, apperrors.NewValidationError("department_id, issue_type_id, title, description required", nil)
	}

	issueType, err := s.issueTypes.GetByID(ctx, input.IssueTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidIssueType("unknown issue type", map[string]any{"issue_type_id": input.IssueTypeID})
		}
		return nil, apperrors.MapError(err)
	}
	if issueType.DepartmentID != input.DepartmentID {
		return nil, apperrors.NewInvalidIssueType("issue type belongs to another department", map[string]any{
			"issue_type_id": input.IssueTypeID,
			"department_id": input.DepartmentID,
		})
	}
	if issueType.Status != domain.IssueTypeStatusApproved {
		return nil, apperrors.NewInvalidIssueType("issue type not approved for department", map[string]any{
			"issue_type_id": input.IssueTypeID,
			"status":        issueType.Status,
		})
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:            uuid.NewString(),
		Title:         input.Title,
		Description:   input.Description,
		AttachmentKey: input.AttachmentKey,
		DepartmentID:  input.DepartmentID,
		IssueTypeID:   input.IssueTypeID,
		RaisedByID:    actor.ID,
		Status:        domain.TicketStatusRaised,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordAudit(ctx, actor.ID, ticket, domain.ActionRaise, "", ""); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRaised,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketRaisedPayload{
			DepartmentID: ticket.DepartmentID,
			IssueTypeID:  ticket.IssueTypeID,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// Accept moves a raised ticket to ACCEPTED.
func (s *LifecycleService) Accept(ctx context.Context, actor *domain.Actor, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, domain.ActionAccept, func(ticket *domain.Ticket, now time.Time) error {
		if ticket.Status != domain.TicketStatusRaised {
			return invalidTransition(ticket, domain.TicketStatusAccepted)
		}
		ticket.Status = domain.TicketStatusAccepted
		ticket.AcceptedAt = &now
		return nil
	}, "")
}

// Reject moves a raised ticket to the terminal REJECTED state. A reason is
// required.
func (s *LifecycleService) Reject(ctx context.Context, actor *domain.Actor, ticketID, reason string) (*domain.Ticket, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("rejection reason required", nil)
	}
	return s.transition(ctx, actor, ticketID, domain.ActionReject, func(ticket *domain.Ticket, now time.Time) error {
		if ticket.Status != domain.TicketStatusRaised {
			return invalidTransition(ticket, domain.TicketStatusRejected)
		}
		ticket.Status = domain.TicketStatusRejected
		ticket.RejectionReason = &reason
		return nil
	}, reason)
}

// Assign sets the assignee. Reassignment while ASSIGNED is allowed and keeps
// the state at ASSIGNED.
func (s *LifecycleService) Assign(ctx context.Context, actor *domain.Actor, ticketID, assigneeID string) (*domain.Ticket, error) {
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		return nil, apperrors.NewValidationError("assignee_id required", nil)
	}
	return s.transition(ctx, actor, ticketID, domain.ActionAssign, func(ticket *domain.Ticket, now time.Time) error {
		if ticket.Status != domain.TicketStatusAccepted && ticket.Status != domain.TicketStatusAssigned {
			return invalidTransition(ticket, domain.TicketStatusAssigned)
		}
		ticket.Status = domain.TicketStatusAssigned
		ticket.AssignedToID = &assigneeID
		ticket.AssignedAt = &now
		return nil
	}, assigneeID)
}

// Escalate flags an assigned ticket as requiring priority attention. The
// ticket remains open and still requires a close to terminate. Escalating an
// already escalated ticket is a no-op.
func (s *LifecycleService) Escalate(ctx context.Context, actor *domain.Actor, ticketID string) (*domain.Ticket, error) {
	mu := s.locks.lock(ticketID)
	defer mu.Unlock()

	ticket, err := s.getForTransition(ctx, actor, ticketID, domain.ActionEscalate)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusEscalated {
		return ticket, nil
	}
	if ticket.Status != domain.TicketStatusAssigned {
		return nil, invalidTransition(ticket, domain.TicketStatusEscalated)
	}

	now := time.Now().UTC()
	from := ticket.Status
	ticket.Status = domain.TicketStatusEscalated
	ticket.EscalatedAt = &now
	ticket.UpdatedAt = now

	if err := s.applyUpdate(ctx, ticket, from); err != nil {
		return nil, err
	}
	if err := s.recordAudit(ctx, actor.ID, ticket, domain.ActionEscalate, from, ""); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishTransitionEvent(ctx, events.EventTicketEscalated, actor.ID, ticket, from, "")
	return ticket, nil
}

// Close terminates an assigned or escalated ticket. Closing an already
// closed ticket fails with InvalidTransition rather than succeeding
// silently; re-closing is a caller bug worth surfacing.
func (s *LifecycleService) Close(ctx context.Context, actor *domain.Actor, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, domain.ActionClose, func(ticket *domain.Ticket, now time.Time) error {
		if ticket.Status != domain.TicketStatusAssigned && ticket.Status != domain.TicketStatusEscalated {
			return invalidTransition(ticket, domain.TicketStatusClosed)
		}
		ticket.Status = domain.TicketStatusClosed
		ticket.ClosedAt = &now
		return nil
	}, "")
}

// transition runs the common fetch/authorize/mutate/persist/audit sequence
// under the per-ticket lock.
func (s *LifecycleService) transition(ctx context.Context, actor *domain.Actor, ticketID string, action domain.TicketAction, mutate func(*domain.Ticket, time.Time) error, note string) (*domain.Ticket, error) {
	mu := s.locks.lock(ticketID)
	defer mu.Unlock()

	ticket, err := s.getForTransition(ctx, actor, ticketID, action)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from := ticket.Status
	if err := mutate(ticket, now); err != nil {
		return nil, err
	}
	ticket.UpdatedAt = now

	if err := s.applyUpdate(ctx, ticket, from); err != nil {
		return nil, err
	}
	if err := s.recordAudit(ctx, actor.ID, ticket, action, from, note); err != nil {
		return nil, apperrors.MapError(err)
	}

	switch action {
	case domain.ActionAccept:
		s.publishTransitionEvent(ctx, events.EventTicketAccepted, actor.ID, ticket, from, note)
	case domain.ActionReject:
		s.publishTransitionEvent(ctx, events.EventTicketRejected, actor.ID, ticket, from, note)
	case domain.ActionClose:
		s.publishTransitionEvent(ctx, events.EventTicketClosed, actor.ID, ticket, from, note)
	case domain.ActionAssign:
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  actor.ID,
			Payload: events.TicketAssignedPayload{
				AssigneeID: note,
			},
		})
	}
	return ticket, nil
}

func (s *LifecycleService) getForTransition(ctx context.Context, actor *domain.Actor, ticketID string, action domain.TicketAction) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.CanPerform(actor, action, ticket) {
		return nil, apperrors.NewForbidden("actor not allowed to " + strings.ToLower(string(action)) + " this ticket")
	}
	return ticket, nil
}

func (s *LifecycleService) applyUpdate(ctx context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error {
	err := s.tickets.UpdateTransition(ctx, ticket, expected)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrStatusConflict):
		return apperrors.NewConflict("ticket was modified concurrently", map[string]any{"ticket_id": ticket.ID})
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticket.ID})
	default:
		return apperrors.MapError(err)
	}
}

func (s *LifecycleService) recordAudit(ctx context.Context, actorID string, ticket *domain.Ticket, action domain.TicketAction, from domain.TicketStatus, note string) error {
	if s.audits == nil {
		return nil
	}
	return s.audits.Create(ctx, &domain.TicketAudit{
		ID:         uuid.NewString(),
		TicketID:   ticket.ID,
		ActorID:    actorID,
		Action:     action,
		FromStatus: from,
		ToStatus:   ticket.Status,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	})
}

func invalidTransition(ticket *domain.Ticket, next domain.TicketStatus) error {
	return apperrors.NewInvalidTransition("invalid status transition", map[string]any{
		"ticket_id": ticket.ID,
		"from":      ticket.Status,
		"to":        next,
	})
}

func (s *LifecycleService) publishTransitionEvent(ctx context.Context, eventType events.EventType, actorID string, ticket *domain.Ticket, from domain.TicketStatus, note string) {
	s.publishEvent(ctx, events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketTransitionPayload{
			FromStatus: from,
			ToStatus:   ticket.Status,
			Note:       note,
		},
	})
}

func (s *LifecycleService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
