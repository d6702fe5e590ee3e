package auth

import "github.com/Kalpesh-Product/wono-ticketing/internal/domain"

// CanPerform is the single authorization policy consulted by every lifecycle
// operation. Raisers may only raise and view their own tickets; department
// staff (members and heads) accept, assign, reject, escalate and close within
// their own department. Cross-department mutation is never allowed.
func CanPerform(actor *domain.Actor, action domain.TicketAction, ticket *domain.Ticket) bool {
	if actor == nil {
		return false
	}

	switch action {
	case domain.ActionRaise:
		// Any authenticated actor may raise a ticket against any department.
		return true
	case domain.ActionView:
		if ticket == nil {
			return false
		}
		if ticket.RaisedByID == actor.ID {
			return true
		}
		if ticket.AssignedToID != nil && *ticket.AssignedToID == actor.ID {
			return true
		}
		return actor.IsDepartmentStaff(ticket.DepartmentID)
	case domain.ActionAccept, domain.ActionReject, domain.ActionAssign,
		domain.ActionEscalate, domain.ActionClose:
		if ticket == nil {
			return false
		}
		return actor.IsDepartmentStaff(ticket.DepartmentID)
	}
	return false
}

// CanManageTaxonomy reports whether the actor may approve or reject issue
// types for the given department.
func CanManageTaxonomy(actor *domain.Actor, departmentID string) bool {
	if actor == nil {
		return false
	}
	return actor.Role == domain.RoleHead && actor.DepartmentID == departmentID
}
