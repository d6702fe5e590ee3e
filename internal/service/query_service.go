package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/Kalpesh-Product/wono-ticketing/internal/auth"
	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
	"github.com/Kalpesh-Product/wono-ticketing/internal/repository"
	apperrors "github.com/Kalpesh-Product/wono-ticketing/pkg/util/errorutil"
)

const deptCountsCacheKey = "tickets:dept-counts"

// QueryService serves the read-side projections. All methods are pure reads;
// a query may observe a ticket mid-transition but never a torn record, since
// writes are atomic per row.
type QueryService struct {
	tickets  repository.TicketRepository
	audits   repository.AuditRepository
	cache    *redis.Client
	location *time.Location
	cacheTTL time.Duration
}

// QueryDependencies bundles inputs for the query service. Cache may be nil;
// aggregate queries then go straight to the store.
type QueryDependencies struct {
	TicketRepo repository.TicketRepository
	AuditRepo  repository.AuditRepository
	Cache      *redis.Client
	Location   *time.Location
	CacheTTL   time.Duration
}

// NewQueryService constructs the service.
func NewQueryService(deps QueryDependencies) *QueryService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &QueryService{
		tickets:  deps.TicketRepo,
		audits:   deps.AuditRepo,
		cache:    deps.Cache,
		location: loc,
		cacheTTL: ttl,
	}
}

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

// ListByDepartment returns tickets for one department, newest first.
func (s *QueryService) ListByDepartment(ctx context.Context, departmentID string, page Page) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		DepartmentID: &departmentID,
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	return tickets, apperrors.MapError(err)
}

// ListAll returns tickets across departments, newest first.
func (s *QueryService) ListAll(ctx context.Context, page Page) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	return tickets, apperrors.MapError(err)
}

// ListMine returns tickets where the actor is raiser or assignee.
func (s *QueryService) ListMine(ctx context.Context, actor *domain.Actor, page Page) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		InvolvedUserID: &actor.ID,
		Limit:          page.Limit,
		Offset:         page.Offset,
	})
	return tickets, apperrors.MapError(err)
}

// ListToday returns tickets created within the current calendar day in the
// configured timezone: [midnight, next midnight).
func (s *QueryService) ListToday(ctx context.Context, page Page) ([]domain.Ticket, error) {
	now := time.Now().In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 0, 1)
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		CreatedFrom: &start,
		CreatedTo:   &end,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	return tickets, apperrors.MapError(err)
}

// ListFiltered returns one department's tickets narrowed by a status flag.
// The flag is a lifecycle status name, or "open" for all non-terminal states.
func (s *QueryService) ListFiltered(ctx context.Context, flag, departmentID string, page Page) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		DepartmentID: &departmentID,
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	if strings.EqualFold(flag, "open") {
		filter.Statuses = domain.OpenStatuses
	} else {
		status := domain.TicketStatus(strings.ToUpper(flag))
		if !status.IsValid() {
			return nil, apperrors.NewValidationError("unknown ticket filter flag", map[string]any{"flag": flag})
		}
		filter.Statuses = []domain.TicketStatus{status}
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	return tickets, apperrors.MapError(err)
}

// GetTicket fetches one ticket, enforcing visibility: raisers and assignees
// see their own, department staff see the department's.
func (s *QueryService) GetTicket(ctx context.Context, actor *domain.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.CanPerform(actor, domain.ActionView, ticket) {
		return nil, apperrors.NewForbidden("not allowed to view this ticket")
	}
	return ticket, nil
}

// History returns the audit trail for a ticket the actor may view.
func (s *QueryService) History(ctx context.Context, actor *domain.Actor, ticketID string, page Page) ([]domain.TicketAudit, error) {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.audits.ListByTicket(ctx, ticketID, page.Limit, page.Offset)
	return entries, apperrors.MapError(err)
}

// DepartmentCounts returns per-department ticket aggregates, cached briefly
// in Redis when available.
func (s *QueryService) DepartmentCounts(ctx context.Context) ([]domain.DepartmentCounts, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, deptCountsCacheKey).Bytes(); err == nil {
			var counts []domain.DepartmentCounts
			if json.Unmarshal(data, &counts) == nil {
				return counts, nil
			}
		}
	}

	counts, err := s.tickets.CountByDepartment(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(counts); err == nil {
			// best effort; a cold cache just means one more count query
			s.cache.Set(ctx, deptCountsCacheKey, data, s.cacheTTL)
		}
	}
	return counts, nil
}

// TeamWorkload returns open tickets per assignee within a department.
func (s *QueryService) TeamWorkload(ctx context.Context, departmentID string) ([]domain.AssigneeWorkload, error) {
	workload, err := s.tickets.CountOpenByAssignee(ctx, departmentID)
	return workload, apperrors.MapError(err)
}
