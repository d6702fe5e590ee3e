package domain

import "time"

// IssueTypeStatus tracks the approval workflow for issue categories.
type IssueTypeStatus string

const (
	IssueTypeStatusPending  IssueTypeStatus = "PENDING"
	IssueTypeStatusApproved IssueTypeStatus = "APPROVED"
	IssueTypeStatusRejected IssueTypeStatus = "REJECTED"
)

// IssueType is a department-scoped category tag for tickets. Labels are
// unique per department among pending and approved entries; rejected entries
// are retained for audit but excluded from listings.
type IssueType struct {
	ID           string
	DepartmentID string
	Label        string
	Status       IssueTypeStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
