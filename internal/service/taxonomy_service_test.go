package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
	"github.com/Kalpesh-Product/wono-ticketing/internal/repository"
	apperrors "github.com/Kalpesh-Product/wono-ticketing/pkg/util/errorutil"
)

func newTaxonomyService() *TaxonomyService {
	return NewTaxonomyService(repository.NewMemoryIssueTypeRepository(), nil)
}

func head(dept string) *domain.Actor {
	return &domain.Actor{ID: "h-" + dept, DepartmentID: dept, Role: domain.RoleHead}
}

func TestProposeStartsPending(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	issueType, err := svc.Propose(ctx, member("m1", "IT"), "IT", "VPN access")
	require.NoError(t, err)
	require.Equal(t, domain.IssueTypeStatusPending, issueType.Status)
	require.Equal(t, "VPN access", issueType.Label)

	pending, err := svc.ListPending(ctx, "IT")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	approved, err := svc.ListApproved(ctx, "IT")
	require.NoError(t, err)
	require.Empty(t, approved)
}

func TestProposeDuplicateLabel(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	_, err := svc.Propose(ctx, member("m1", "IT"), "IT", "VPN access")
	require.NoError(t, err)

	// case-insensitive within the department
	_, err = svc.Propose(ctx, member("m2", "IT"), "IT", "vpn ACCESS")
	requireCode(t, err, apperrors.CodeDuplicateIssueType)

	// same label in another department is fine
	_, err = svc.Propose(ctx, member("m3", "HR"), "HR", "VPN access")
	require.NoError(t, err)
}

func TestProposeValidation(t *testing.T) {
	svc := newTaxonomyService()
	_, err := svc.Propose(context.Background(), member("m1", "IT"), "IT", "   ")
	requireCode(t, err, apperrors.CodeValidationFailed)
}

func TestApproveFlow(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	issueType, err := svc.Propose(ctx, member("m1", "IT"), "IT", "VPN access")
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, head("IT"), issueType.ID)
	require.NoError(t, err)
	require.Equal(t, domain.IssueTypeStatusApproved, approved.Status)

	listed, err := svc.ListApproved(ctx, "IT")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	pending, err := svc.ListPending(ctx, "IT")
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestApproveRequiresDepartmentHead(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	issueType, err := svc.Propose(ctx, member("m1", "IT"), "IT", "VPN access")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, member("m2", "IT"), issueType.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = svc.Approve(ctx, head("HR"), issueType.ID)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestRejectedHiddenFromListings(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	issueType, err := svc.Propose(ctx, member("m1", "IT"), "IT", "VPN access")
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, head("IT"), issueType.ID)
	require.NoError(t, err)
	require.Equal(t, domain.IssueTypeStatusRejected, rejected.Status)

	approved, err := svc.ListApproved(ctx, "IT")
	require.NoError(t, err)
	require.Empty(t, approved)

	pending, err := svc.ListPending(ctx, "IT")
	require.NoError(t, err)
	require.Empty(t, pending)

	// the label is free again after rejection
	_, err = svc.Propose(ctx, member("m2", "IT"), "IT", "VPN access")
	require.NoError(t, err)
}

func TestResolveTwiceConflicts(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	issueType, err := svc.Propose(ctx, member("m1", "IT"), "IT", "VPN access")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, head("IT"), issueType.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, head("IT"), issueType.ID)
	requireCode(t, err, apperrors.CodeConflict)

	_, err = svc.Reject(ctx, head("IT"), issueType.ID)
	requireCode(t, err, apperrors.CodeConflict)
}

func TestResolveUnknownIssueType(t *testing.T) {
	svc := newTaxonomyService()
	_, err := svc.Approve(context.Background(), head("IT"), uuid.NewString())
	requireCode(t, err, apperrors.CodeNotFound)
}
