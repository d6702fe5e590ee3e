package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
)

func seedTicket(t *testing.T, repo TicketRepository, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:           uuid.NewString(),
		Title:        "t",
		Description:  "d",
		DepartmentID: "IT",
		IssueTypeID:  uuid.NewString(),
		RaisedByID:   "u1",
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	return ticket
}

func TestMemoryTicketGetByIDMiss(t *testing.T) {
	repo := NewMemoryTicketRepository()
	_, err := repo.GetByID(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryUpdateTransitionStatusGuard(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := seedTicket(t, repo, domain.TicketStatusRaised)

	updated := *ticket
	updated.Status = domain.TicketStatusAccepted
	require.NoError(t, repo.UpdateTransition(ctx, &updated, domain.TicketStatusRaised))

	// second writer still expecting RAISED loses the race
	stale := *ticket
	stale.Status = domain.TicketStatusRejected
	err := repo.UpdateTransition(ctx, &stale, domain.TicketStatusRaised)
	require.ErrorIs(t, err, ErrStatusConflict)

	current, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusAccepted, current.Status)
}

func TestMemoryUpdateTransitionMissingTicket(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ghost := &domain.Ticket{ID: uuid.NewString(), Status: domain.TicketStatusAccepted}
	err := repo.UpdateTransition(context.Background(), ghost, domain.TicketStatusRaised)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryGetByIDReturnsCopy(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := seedTicket(t, repo, domain.TicketStatusRaised)

	got, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	got.Status = domain.TicketStatusClosed

	fresh, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusRaised, fresh.Status)
}

func TestMemoryIssueTypeLabelExists(t *testing.T) {
	repo := NewMemoryIssueTypeRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &domain.IssueType{
		ID:           uuid.NewString(),
		DepartmentID: "IT",
		Label:        "VPN Access",
		Status:       domain.IssueTypeStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	exists, err := repo.LabelExists(ctx, "IT", "vpn access")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.LabelExists(ctx, "HR", "VPN Access")
	require.NoError(t, err)
	require.False(t, exists)
}
