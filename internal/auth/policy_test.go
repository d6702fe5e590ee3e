package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
)

func TestCanPerform(t *testing.T) {
	assignee := "m2"
	ticket := &domain.Ticket{
		ID:           "t1",
		DepartmentID: "IT",
		RaisedByID:   "u1",
		AssignedToID: &assignee,
		Status:       domain.TicketStatusAssigned,
	}

	owner := &domain.Actor{ID: "u1", DepartmentID: "SALES", Role: domain.RoleRaiser}
	assigneeActor := &domain.Actor{ID: assignee, DepartmentID: "IT", Role: domain.RoleMember}
	staff := &domain.Actor{ID: "m3", DepartmentID: "IT", Role: domain.RoleMember}
	itHead := &domain.Actor{ID: "h1", DepartmentID: "IT", Role: domain.RoleHead}
	outsider := &domain.Actor{ID: "m9", DepartmentID: "HR", Role: domain.RoleMember}
	stranger := &domain.Actor{ID: "u9", DepartmentID: "SALES", Role: domain.RoleRaiser}

	mutations := []domain.TicketAction{
		domain.ActionAccept, domain.ActionReject, domain.ActionAssign,
		domain.ActionEscalate, domain.ActionClose,
	}

	t.Run("anyone can raise", func(t *testing.T) {
		for _, actor := range []*domain.Actor{owner, staff, itHead, outsider, stranger} {
			require.True(t, CanPerform(actor, domain.ActionRaise, nil), "actor %s", actor.ID)
		}
		require.False(t, CanPerform(nil, domain.ActionRaise, nil))
	})

	t.Run("view", func(t *testing.T) {
		require.True(t, CanPerform(owner, domain.ActionView, ticket))
		require.True(t, CanPerform(assigneeActor, domain.ActionView, ticket))
		require.True(t, CanPerform(staff, domain.ActionView, ticket))
		require.True(t, CanPerform(itHead, domain.ActionView, ticket))
		require.False(t, CanPerform(outsider, domain.ActionView, ticket))
		require.False(t, CanPerform(stranger, domain.ActionView, ticket))
	})

	t.Run("mutations are department staff only", func(t *testing.T) {
		for _, action := range mutations {
			require.True(t, CanPerform(staff, action, ticket), "staff %s", action)
			require.True(t, CanPerform(itHead, action, ticket), "head %s", action)
			require.False(t, CanPerform(owner, action, ticket), "raiser %s", action)
			require.False(t, CanPerform(outsider, action, ticket), "outsider %s", action)
			require.False(t, CanPerform(staff, action, nil), "nil ticket %s", action)
		}
	})
}

func TestCanManageTaxonomy(t *testing.T) {
	require.True(t, CanManageTaxonomy(&domain.Actor{ID: "h1", DepartmentID: "IT", Role: domain.RoleHead}, "IT"))
	require.False(t, CanManageTaxonomy(&domain.Actor{ID: "h1", DepartmentID: "IT", Role: domain.RoleHead}, "HR"))
	require.False(t, CanManageTaxonomy(&domain.Actor{ID: "m1", DepartmentID: "IT", Role: domain.RoleMember}, "IT"))
	require.False(t, CanManageTaxonomy(&domain.Actor{ID: "u1", DepartmentID: "IT", Role: domain.RoleRaiser}, "IT"))
	require.False(t, CanManageTaxonomy(nil, "IT"))
}
