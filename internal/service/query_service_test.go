package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
	"github.com/Kalpesh-Product/wono-ticketing/internal/repository"
	apperrors "github.com/Kalpesh-Product/wono-ticketing/pkg/util/errorutil"
)

type queryFixture struct {
	query   *QueryService
	tickets repository.TicketRepository
	audits  repository.AuditRepository
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()
	tickets := repository.NewMemoryTicketRepository()
	audits := repository.NewMemoryAuditRepository()
	query := NewQueryService(QueryDependencies{
		TicketRepo: tickets,
		AuditRepo:  audits,
		Location:   time.UTC,
	})
	return &queryFixture{query: query, tickets: tickets, audits: audits}
}

func (f *queryFixture) seedTicket(t *testing.T, mutate func(*domain.Ticket)) *domain.Ticket {
	t.Helper()
	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:           uuid.NewString(),
		Title:        "Printer jam",
		Description:  "3rd floor printer",
		DepartmentID: "IT",
		IssueTypeID:  uuid.NewString(),
		RaisedByID:   "u1",
		Status:       domain.TicketStatusRaised,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if mutate != nil {
		mutate(ticket)
	}
	require.NoError(t, f.tickets.Create(context.Background(), ticket))
	return ticket
}

func TestListByDepartment(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	f.seedTicket(t, nil)
	f.seedTicket(t, nil)
	f.seedTicket(t, func(tk *domain.Ticket) { tk.DepartmentID = "HR" })

	tickets, err := f.query.ListByDepartment(ctx, "IT", Page{})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	for _, tk := range tickets {
		require.Equal(t, "IT", tk.DepartmentID)
	}
}

func TestListAllNewestFirst(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	base := time.Now().UTC()

	old := f.seedTicket(t, func(tk *domain.Ticket) { tk.CreatedAt = base.Add(-2 * time.Hour) })
	mid := f.seedTicket(t, func(tk *domain.Ticket) { tk.CreatedAt = base.Add(-time.Hour) })
	newest := f.seedTicket(t, func(tk *domain.Ticket) { tk.CreatedAt = base })

	tickets, err := f.query.ListAll(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	require.Equal(t, newest.ID, tickets[0].ID)
	require.Equal(t, mid.ID, tickets[1].ID)
	require.Equal(t, old.ID, tickets[2].ID)
}

func TestListAllTieBreakByID(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Second)

	f.seedTicket(t, func(tk *domain.Ticket) { tk.ID = "aaaa"; tk.CreatedAt = at })
	f.seedTicket(t, func(tk *domain.Ticket) { tk.ID = "bbbb"; tk.CreatedAt = at })

	tickets, err := f.query.ListAll(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	require.Equal(t, "bbbb", tickets[0].ID)
	require.Equal(t, "aaaa", tickets[1].ID)
}

func TestListMineUnionOfRaisedAndAssigned(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	me := "m2"

	raised := f.seedTicket(t, func(tk *domain.Ticket) { tk.RaisedByID = me })
	assigned := f.seedTicket(t, func(tk *domain.Ticket) {
		tk.Status = domain.TicketStatusAssigned
		tk.AssignedToID = &me
	})
	f.seedTicket(t, nil) // someone else's

	tickets, err := f.query.ListMine(ctx, &domain.Actor{ID: me, DepartmentID: "IT", Role: domain.RoleMember}, Page{})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	ids := []string{tickets[0].ID, tickets[1].ID}
	require.Contains(t, ids, raised.ID)
	require.Contains(t, ids, assigned.ID)
}

func TestListTodayWindow(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	f.seedTicket(t, func(tk *domain.Ticket) { tk.CreatedAt = now })
	f.seedTicket(t, func(tk *domain.Ticket) { tk.CreatedAt = startOfDay })
	yesterday := f.seedTicket(t, func(tk *domain.Ticket) { tk.CreatedAt = startOfDay.Add(-time.Second) })

	tickets, err := f.query.ListToday(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	for _, tk := range tickets {
		require.NotEqual(t, yesterday.ID, tk.ID)
	}
}

func TestListFiltered(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	f.seedTicket(t, nil)
	f.seedTicket(t, func(tk *domain.Ticket) { tk.Status = domain.TicketStatusEscalated })
	f.seedTicket(t, func(tk *domain.Ticket) { tk.Status = domain.TicketStatusClosed })
	f.seedTicket(t, func(tk *domain.Ticket) { tk.Status = domain.TicketStatusRejected })

	open, err := f.query.ListFiltered(ctx, "open", "IT", Page{})
	require.NoError(t, err)
	require.Len(t, open, 2)

	escalated, err := f.query.ListFiltered(ctx, "escalated", "IT", Page{})
	require.NoError(t, err)
	require.Len(t, escalated, 1)

	closed, err := f.query.ListFiltered(ctx, "CLOSED", "IT", Page{})
	require.NoError(t, err)
	require.Len(t, closed, 1)

	_, err = f.query.ListFiltered(ctx, "bogus", "IT", Page{})
	requireCode(t, err, apperrors.CodeValidationFailed)
}

func TestGetTicketVisibility(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	assignee := "m2"

	ticket := f.seedTicket(t, func(tk *domain.Ticket) {
		tk.Status = domain.TicketStatusAssigned
		tk.AssignedToID = &assignee
	})

	cases := []struct {
		name  string
		actor *domain.Actor
		ok    bool
	}{
		{"raiser", &domain.Actor{ID: "u1", DepartmentID: "SALES", Role: domain.RoleRaiser}, true},
		{"assignee", &domain.Actor{ID: assignee, DepartmentID: "IT", Role: domain.RoleMember}, true},
		{"department staff", &domain.Actor{ID: "m3", DepartmentID: "IT", Role: domain.RoleMember}, true},
		{"department head", &domain.Actor{ID: "h1", DepartmentID: "IT", Role: domain.RoleHead}, true},
		{"unrelated raiser", &domain.Actor{ID: "u9", DepartmentID: "SALES", Role: domain.RoleRaiser}, false},
		{"other department staff", &domain.Actor{ID: "m9", DepartmentID: "HR", Role: domain.RoleMember}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.query.GetTicket(ctx, tc.actor, ticket.ID)
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, ticket.ID, got.ID)
			} else {
				requireCode(t, err, apperrors.CodeForbidden)
			}
		})
	}
}

func TestGetTicketNotFound(t *testing.T) {
	f := newQueryFixture(t)
	_, err := f.query.GetTicket(context.Background(), &domain.Actor{ID: "m1", DepartmentID: "IT", Role: domain.RoleMember}, uuid.NewString())
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestHistoryRequiresVisibility(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	ticket := f.seedTicket(t, nil)
	require.NoError(t, f.audits.Create(ctx, &domain.TicketAudit{
		ID:       uuid.NewString(),
		TicketID: ticket.ID,
		ActorID:  "u1",
		Action:   domain.ActionRaise,
		ToStatus: domain.TicketStatusRaised,
	}))

	entries, err := f.query.History(ctx, &domain.Actor{ID: "m1", DepartmentID: "IT", Role: domain.RoleMember}, ticket.ID, Page{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = f.query.History(ctx, &domain.Actor{ID: "m9", DepartmentID: "HR", Role: domain.RoleMember}, ticket.ID, Page{})
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestDepartmentCountsNoCache(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	f.seedTicket(t, nil)
	f.seedTicket(t, func(tk *domain.Ticket) { tk.Status = domain.TicketStatusEscalated })
	f.seedTicket(t, func(tk *domain.Ticket) { tk.Status = domain.TicketStatusClosed })
	f.seedTicket(t, func(tk *domain.Ticket) { tk.Status = domain.TicketStatusRejected })
	f.seedTicket(t, func(tk *domain.Ticket) { tk.DepartmentID = "HR" })

	counts, err := f.query.DepartmentCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	require.Equal(t, "HR", counts[0].DepartmentID)
	require.Equal(t, 1, counts[0].Total)

	it := counts[1]
	require.Equal(t, "IT", it.DepartmentID)
	require.Equal(t, 4, it.Total)
	require.Equal(t, 2, it.Open) // escalated tickets are still open
	require.Equal(t, 1, it.Escalated)
	require.Equal(t, 1, it.Closed)
	require.Equal(t, 1, it.Rejected)
}

func TestTeamWorkload(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	m2, m3 := "m2", "m3"

	f.seedTicket(t, func(tk *domain.Ticket) { tk.Status = domain.TicketStatusAssigned; tk.AssignedToID = &m2 })
	f.seedTicket(t, func(tk *domain.Ticket) { tk.Status = domain.TicketStatusEscalated; tk.AssignedToID = &m2 })
	f.seedTicket(t, func(tk *domain.Ticket) { tk.Status = domain.TicketStatusAssigned; tk.AssignedToID = &m3 })
	// closed tickets don't count toward workload
	f.seedTicket(t, func(tk *domain.Ticket) { tk.Status = domain.TicketStatusClosed; tk.AssignedToID = &m3 })

	workload, err := f.query.TeamWorkload(ctx, "IT")
	require.NoError(t, err)
	require.Len(t, workload, 2)
	require.Equal(t, domain.AssigneeWorkload{AssigneeID: m2, OpenCount: 2}, workload[0])
	require.Equal(t, domain.AssigneeWorkload{AssigneeID: m3, OpenCount: 1}, workload[1])
}

func TestPagination(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		offset := time.Duration(i) * time.Minute
		f.seedTicket(t, func(tk *domain.Ticket) { tk.CreatedAt = base.Add(-offset) })
	}

	first, err := f.query.ListAll(ctx, Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := f.query.ListAll(ctx, Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.NotEqual(t, first[0].ID, second[0].ID)

	tail, err := f.query.ListAll(ctx, Page{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, tail, 1)
}
