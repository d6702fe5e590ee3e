package domain

// Departments are owned by an external system and referenced by id only.
// The types below are read-side projections computed by the query service.

// DepartmentCounts aggregates ticket volume for one department.
type DepartmentCounts struct {
	DepartmentID string
	Open         int
	Escalated    int
	Closed       int
	Rejected     int
	Total        int
}

// AssigneeWorkload is the number of open tickets held by one assignee within
// a department.
type AssigneeWorkload struct {
	AssigneeID string
	OpenCount  int
}
