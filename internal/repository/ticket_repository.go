package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
)

// ErrStatusConflict is returned by UpdateTransition when the ticket exists
// but its status no longer matches the expected one. This is the store-level
// last line of defense for the monotonic-status invariant.
var ErrStatusConflict = errors.New("ticket status changed concurrently")

// TicketFilter captures list query parameters.
type TicketFilter struct {
	DepartmentID *string
	RaisedByID   *string
	AssignedToID *string
	// InvolvedUserID matches tickets where the user is raiser OR assignee.
	InvolvedUserID *string
	Statuses       []domain.TicketStatus
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Limit          int
	Offset         int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// UpdateTransition persists the ticket only if its stored status still
	// equals expected. Returns ErrStatusConflict on a lost race and
	// pgx.ErrNoRows when the ticket does not exist.
	UpdateTransition(ctx context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByDepartment(ctx context.Context) ([]domain.DepartmentCounts, error)
	CountOpenByAssignee(ctx context.Context, departmentID string) ([]domain.AssigneeWorkload, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, description, attachment_key, department_id, issue_type_id,
	raised_by_id, assigned_to_id, status, rejection_reason,
	created_at, accepted_at, assigned_at, escalated_at, closed_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, title, description, attachment_key, department_id, issue_type_id,
            raised_by_id, assigned_to_id, status, rejection_reason,
            created_at, accepted_at, assigned_at, escalated_at, closed_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.AttachmentKey,
		ticket.DepartmentID,
		ticket.IssueTypeID,
		ticket.RaisedByID,
		ticket.AssignedToID,
		ticket.Status,
		ticket.RejectionReason,
		ticket.CreatedAt,
		ticket.AcceptedAt,
		ticket.AssignedAt,
		ticket.EscalatedAt,
		ticket.ClosedAt,
		ticket.UpdatedAt,
	)
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketFields(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) UpdateTransition(ctx context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error {
	const query = `
        UPDATE tickets SET assigned_to_id=$1, status=$2, rejection_reason=$3,
            accepted_at=$4, assigned_at=$5, escalated_at=$6, closed_at=$7, updated_at=$8
        WHERE id=$9 AND status=$10`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.AssignedToID,
		ticket.Status,
		ticket.RejectionReason,
		ticket.AcceptedAt,
		ticket.AssignedAt,
		ticket.EscalatedAt,
		ticket.ClosedAt,
		ticket.UpdatedAt,
		ticket.ID,
		expected,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id=$1)`, ticket.ID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrStatusConflict
	}
	return pgx.ErrNoRows
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.RaisedByID != nil {
		args = append(args, *filter.RaisedByID)
		clauses = append(clauses, fmt.Sprintf("raised_by_id=$%d", len(args)))
	}
	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_id=$%d", len(args)))
	}
	if filter.InvolvedUserID != nil {
		args = append(args, *filter.InvolvedUserID)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(raised_by_id=%s OR assigned_to_id=%s)", placeholder, placeholder))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at < $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByDepartment(ctx context.Context) ([]domain.DepartmentCounts, error) {
	const query = `
        SELECT department_id,
               COUNT(*) FILTER (WHERE status IN ('RAISED','ACCEPTED','ASSIGNED','ESCALATED')),
               COUNT(*) FILTER (WHERE status = 'ESCALATED'),
               COUNT(*) FILTER (WHERE status = 'CLOSED'),
               COUNT(*) FILTER (WHERE status = 'REJECTED'),
               COUNT(*)
        FROM tickets
        GROUP BY department_id
        ORDER BY department_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DepartmentCounts
	for rows.Next() {
		var c domain.DepartmentCounts
		if err := rows.Scan(&c.DepartmentID, &c.Open, &c.Escalated, &c.Closed, &c.Rejected, &c.Total); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountOpenByAssignee(ctx context.Context, departmentID string) ([]domain.AssigneeWorkload, error) {
	const query = `
        SELECT assigned_to_id, COUNT(*)
        FROM tickets
        WHERE department_id=$1
          AND assigned_to_id IS NOT NULL
          AND status IN ('RAISED','ACCEPTED','ASSIGNED','ESCALATED')
        GROUP BY assigned_to_id
        ORDER BY assigned_to_id`
	rows, err := r.pool.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssigneeWorkload
	for rows.Next() {
		var w domain.AssigneeWorkload
		if err := rows.Scan(&w.AssigneeID, &w.OpenCount); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func ticketFields(t *domain.Ticket) []any {
	return []any{
		&t.ID,
		&t.Title,
		&t.Description,
		&t.AttachmentKey,
		&t.DepartmentID,
		&t.IssueTypeID,
		&t.RaisedByID,
		&t.AssignedToID,
		&t.Status,
		&t.RejectionReason,
		&t.CreatedAt,
		&t.AcceptedAt,
		&t.AssignedAt,
		&t.EscalatedAt,
		&t.ClosedAt,
		&t.UpdatedAt,
	}
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(ticketFields(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
