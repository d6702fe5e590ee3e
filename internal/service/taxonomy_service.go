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

// TaxonomyService manages the department issue-type registry and its
// propose/approve/reject workflow.
type TaxonomyService struct {
	issueTypes repository.IssueTypeRepository
	dispatcher events.Dispatcher
}

// NewTaxonomyService constructs the service.
func NewTaxonomyService(issueTypes repository.IssueTypeRepository, dispatcher events.Dispatcher) *TaxonomyService {
	return &TaxonomyService{issueTypes: issueTypes, dispatcher: dispatcher}
}

// Propose registers a new pending issue type for a department. Any actor may
// propose; a department head must approve before it becomes raisable.
func (s *TaxonomyService) Propose(ctx context.Context, actor *domain.Actor, departmentID, label string) (*domain.IssueType, error) {
	departmentID = strings.TrimSpace(departmentID)
	label = strings.TrimSpace(label)
	if departmentID == "" || label == "" {
		return nil, apperrors.NewValidationError("department_id and label required", nil)
	}

	exists, err := s.issueTypes.LabelExists(ctx, departmentID, label)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewDuplicateIssueType(label, map[string]any{"department_id": departmentID})
	}

	now := time.Now().UTC()
	issueType := &domain.IssueType{
		ID:           uuid.NewString(),
		DepartmentID: departmentID,
		Label:        label,
		Status:       domain.IssueTypeStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.issueTypes.Create(ctx, issueType); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishIssueTypeEvent(ctx, events.EventIssueTypeProposed, actor.ID, issueType)
	return issueType, nil
}

// ListApproved returns raisable issue types for a department.
func (s *TaxonomyService) ListApproved(ctx context.Context, departmentID string) ([]domain.IssueType, error) {
	types, err := s.issueTypes.ListByDepartment(ctx, departmentID, domain.IssueTypeStatusApproved)
	return types, apperrors.MapError(err)
}

// ListPending returns proposals awaiting approval for a department.
func (s *TaxonomyService) ListPending(ctx context.Context, departmentID string) ([]domain.IssueType, error) {
	types, err := s.issueTypes.ListByDepartment(ctx, departmentID, domain.IssueTypeStatusPending)
	return types, apperrors.MapError(err)
}

// Approve marks a pending proposal as approved. Department head only.
func (s *TaxonomyService) Approve(ctx context.Context, actor *domain.Actor, id string) (*domain.IssueType, error) {
	return s.resolve(ctx, actor, id, domain.IssueTypeStatusApproved)
}

// Reject marks a pending proposal as rejected. Rejected entries disappear
// from both listings but are retained for audit. Department head only.
func (s *TaxonomyService) Reject(ctx context.Context, actor *domain.Actor, id string) (*domain.IssueType, error) {
	return s.resolve(ctx, actor, id, domain.IssueTypeStatusRejected)
}

func (s *TaxonomyService) resolve(ctx context.Context, actor *domain.Actor, id string, status domain.IssueTypeStatus) (*domain.IssueType, error) {
	issueType, err := s.issueTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue type", map[string]any{"issue_type_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.CanManageTaxonomy(actor, issueType.DepartmentID) {
		return nil, apperrors.NewForbidden("department head required")
	}
	if issueType.Status != domain.IssueTypeStatusPending {
		return nil, apperrors.NewConflict("issue type already resolved", map[string]any{
			"issue_type_id": id,
			"status":        issueType.Status,
		})
	}

	updated, err := s.issueTypes.UpdateStatus(ctx, id, status, time.Now().UTC())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if status == domain.IssueTypeStatusRejected {
		s.publishIssueTypeEvent(ctx, events.EventIssueTypeRejected, actor.ID, updated)
	}
	return updated, nil
}

func (s *TaxonomyService) publishIssueTypeEvent(ctx context.Context, eventType events.EventType, actorID string, issueType *domain.IssueType) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload: events.IssueTypePayload{
			IssueTypeID:  issueType.ID,
			DepartmentID: issueType.DepartmentID,
			Label:        issueType.Label,
		},
	})
}
