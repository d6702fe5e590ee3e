package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
)

// In-memory implementations of the repositories, used by the test suite and
// when no POSTGRES_DSN is configured. They honor the same contracts as the
// postgres versions, including pgx.ErrNoRows for misses and
// ErrStatusConflict on lost transition races.

type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]domain.Ticket
}

// NewMemoryTicketRepository creates an empty in-memory ticket store.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{tickets: make(map[string]domain.Ticket)}
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memoryTicketRepository) UpdateTransition(_ context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if current.Status != expected {
		return ErrStatusConflict
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memoryTicketRepository) ListWithFilter(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	matched := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		if ticketMatches(&ticket, filter) {
			matched = append(matched, ticket)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []domain.Ticket{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func ticketMatches(t *domain.Ticket, filter TicketFilter) bool {
	if filter.DepartmentID != nil && t.DepartmentID != *filter.DepartmentID {
		return false
	}
	if filter.RaisedByID != nil && t.RaisedByID != *filter.RaisedByID {
		return false
	}
	if filter.AssignedToID != nil {
		if t.AssignedToID == nil || *t.AssignedToID != *filter.AssignedToID {
			return false
		}
	}
	if filter.InvolvedUserID != nil {
		involved := t.RaisedByID == *filter.InvolvedUserID ||
			(t.AssignedToID != nil && *t.AssignedToID == *filter.InvolvedUserID)
		if !involved {
			return false
		}
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, s := range filter.Statuses {
			if t.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.CreatedFrom != nil && t.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && !t.CreatedAt.Before(*filter.CreatedTo) {
		return false
	}
	return true
}

func (r *memoryTicketRepository) CountByDepartment(_ context.Context) ([]domain.DepartmentCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDept := make(map[string]*domain.DepartmentCounts)
	for _, ticket := range r.tickets {
		counts, ok := byDept[ticket.DepartmentID]
		if !ok {
			counts = &domain.DepartmentCounts{DepartmentID: ticket.DepartmentID}
			byDept[ticket.DepartmentID] = counts
		}
		counts.Total++
		switch ticket.Status {
		case domain.TicketStatusClosed:
			counts.Closed++
		case domain.TicketStatusRejected:
			counts.Rejected++
		case domain.TicketStatusEscalated:
			counts.Escalated++
			counts.Open++
		default:
			counts.Open++
		}
	}

	result := make([]domain.DepartmentCounts, 0, len(byDept))
	for _, counts := range byDept {
		result = append(result, *counts)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DepartmentID < result[j].DepartmentID
	})
	return result, nil
}

func (r *memoryTicketRepository) CountOpenByAssignee(_ context.Context, departmentID string) ([]domain.AssigneeWorkload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byAssignee := make(map[string]int)
	for _, ticket := range r.tickets {
		if ticket.DepartmentID != departmentID || ticket.AssignedToID == nil || !ticket.IsOpen() {
			continue
		}
		byAssignee[*ticket.AssignedToID]++
	}

	result := make([]domain.AssigneeWorkload, 0, len(byAssignee))
	for assignee, count := range byAssignee {
		result = append(result, domain.AssigneeWorkload{AssigneeID: assignee, OpenCount: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AssigneeID < result[j].AssigneeID
	})
	return result, nil
}

type memoryIssueTypeRepository struct {
	mu    sync.RWMutex
	types map[string]domain.IssueType
}

// NewMemoryIssueTypeRepository creates an empty in-memory taxonomy store.
func NewMemoryIssueTypeRepository() IssueTypeRepository {
	return &memoryIssueTypeRepository{types: make(map[string]domain.IssueType)}
}

func (r *memoryIssueTypeRepository) Create(_ context.Context, issueType *domain.IssueType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[issueType.ID] = *issueType
	return nil
}

func (r *memoryIssueTypeRepository) GetByID(_ context.Context, id string) (*domain.IssueType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.types[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &it, nil
}

func (r *memoryIssueTypeRepository) ListByDepartment(_ context.Context, departmentID string, statuses ...domain.IssueTypeStatus) ([]domain.IssueType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.IssueType
	for _, it := range r.types {
		if it.DepartmentID != departmentID {
			continue
		}
		if len(statuses) > 0 {
			found := false
			for _, s := range statuses {
				if it.Status == s {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, it)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Label < result[j].Label
	})
	return result, nil
}

func (r *memoryIssueTypeRepository) LabelExists(_ context.Context, departmentID, label string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.types {
		if it.DepartmentID != departmentID {
			continue
		}
		if it.Status == domain.IssueTypeStatusRejected {
			continue
		}
		if strings.EqualFold(it.Label, label) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryIssueTypeRepository) UpdateStatus(_ context.Context, id string, status domain.IssueTypeStatus, updatedAt time.Time) (*domain.IssueType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.types[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	it.Status = status
	it.UpdatedAt = updatedAt
	r.types[id] = it
	return &it, nil
}

type memoryAuditRepository struct {
	mu      sync.RWMutex
	entries map[string][]domain.TicketAudit
}

// NewMemoryAuditRepository creates an empty in-memory audit log.
func NewMemoryAuditRepository() AuditRepository {
	return &memoryAuditRepository{entries: make(map[string][]domain.TicketAudit)}
}

func (r *memoryAuditRepository) Create(_ context.Context, entry *domain.TicketAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.TicketID] = append(r.entries[entry.TicketID], *entry)
	return nil
}

func (r *memoryAuditRepository) ListByTicket(_ context.Context, ticketID string, limit, offset int) ([]domain.TicketAudit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.entries[ticketID]
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return []domain.TicketAudit{}, nil
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	out := make([]domain.TicketAudit, end-offset)
	copy(out, entries[offset:end])
	return out, nil
}
