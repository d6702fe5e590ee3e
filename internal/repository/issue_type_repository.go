package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
)

// IssueTypeRepository encapsulates the department issue taxonomy.
type IssueTypeRepository interface {
	Create(ctx context.Context, issueType *domain.IssueType) error
	GetByID(ctx context.Context, id string) (*domain.IssueType, error)
	ListByDepartment(ctx context.Context, departmentID string, statuses ...domain.IssueTypeStatus) ([]domain.IssueType, error)
	// LabelExists checks for a case-insensitive duplicate among pending and
	// approved entries. Rejected labels may be re-proposed.
	LabelExists(ctx context.Context, departmentID, label string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status domain.IssueTypeStatus, updatedAt time.Time) (*domain.IssueType, error)
}

type issueTypeRepository struct {
	pool *pgxpool.Pool
}

// NewIssueTypeRepository instantiates the postgres-backed repository.
func NewIssueTypeRepository(pool *pgxpool.Pool) IssueTypeRepository {
	return &issueTypeRepository{pool: pool}
}

const issueTypeColumns = `id, department_id, label, status, created_at, updated_at`

func (r *issueTypeRepository) Create(ctx context.Context, issueType *domain.IssueType) error {
	const query = `
        INSERT INTO ticket_issue_types (id, department_id, label, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, query,
		issueType.ID,
		issueType.DepartmentID,
		issueType.Label,
		issueType.Status,
		issueType.CreatedAt,
		issueType.UpdatedAt,
	)
	return err
}

func (r *issueTypeRepository) GetByID(ctx context.Context, id string) (*domain.IssueType, error) {
	const query = `SELECT ` + issueTypeColumns + ` FROM ticket_issue_types WHERE id=$1`
	var it domain.IssueType
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.DepartmentID, &it.Label, &it.Status, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *issueTypeRepository) ListByDepartment(ctx context.Context, departmentID string, statuses ...domain.IssueTypeStatus) ([]domain.IssueType, error) {
	query := `SELECT ` + issueTypeColumns + ` FROM ticket_issue_types WHERE department_id=$1`
	args := []any{departmentID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		args = append(args, values)
	}
	query += ` ORDER BY label`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.IssueType
	for rows.Next() {
		var it domain.IssueType
		if err := rows.Scan(&it.ID, &it.DepartmentID, &it.Label, &it.Status, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

func (r *issueTypeRepository) LabelExists(ctx context.Context, departmentID, label string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM ticket_issue_types
            WHERE department_id=$1 AND LOWER(label)=LOWER($2) AND status IN ('PENDING','APPROVED')
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, departmentID, label).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *issueTypeRepository) UpdateStatus(ctx context.Context, id string, status domain.IssueTypeStatus, updatedAt time.Time) (*domain.IssueType, error) {
	const query = `
        UPDATE ticket_issue_types SET status=$1, updated_at=$2 WHERE id=$3
        RETURNING ` + issueTypeColumns
	var it domain.IssueType
	if err := r.pool.QueryRow(ctx, query, status, updatedAt, id).Scan(
		&it.ID, &it.DepartmentID, &it.Label, &it.Status, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}
