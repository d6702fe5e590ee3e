package domain

// Role enumerates what an actor may do with tickets in their department.
type Role string

const (
	// RoleRaiser may raise tickets and view their own.
	RoleRaiser Role = "RAISER"
	// RoleMember works tickets within their department.
	RoleMember Role = "MEMBER"
	// RoleHead additionally manages the department issue taxonomy.
	RoleHead Role = "HEAD"
)

// IsValid reports whether the value is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleRaiser, RoleMember, RoleHead:
		return true
	}
	return false
}

// Actor is the authenticated caller on every request. Full identity lives in
// an external system; the service only needs id, department affiliation and
// role.
type Actor struct {
	ID           string
	DepartmentID string
	Role         Role
}

// IsDepartmentStaff reports whether the actor works tickets for the given
// department.
func (a *Actor) IsDepartmentStaff(departmentID string) bool {
	if a.Role != RoleMember && a.Role != RoleHead {
		return false
	}
	return a.DepartmentID == departmentID
}
