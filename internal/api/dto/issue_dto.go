package dto

import (
	"time"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
)

// AddIssueTypeRequest payload.
type AddIssueTypeRequest struct {
	DepartmentID string `json:"department_id"`
	Label        string `json:"label"`
}

// IssueTypeResponse representation.
type IssueTypeResponse struct {
	ID           string                 `json:"id"`
	DepartmentID string                 `json:"department_id"`
	Label        string                 `json:"label"`
	Status       domain.IssueTypeStatus `json:"status"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
