package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardikasatria/gymdesk/internal/domain"
)

type membershipFixture struct {
	svc         *MembershipService
	payments    *fakePaymentRepo
	memberships *fakeMembershipRepo
	packages    *fakePackageRepo
	member      *domain.Member
	pkg         *domain.Package
}

func newMembershipFixture(t *testing.T, clock time.Time) *membershipFixture {
	t.Helper()
	ctx := context.Background()

	memberRepo := newFakeMemberRepo()
	packageRepo := newFakePackageRepo()
	membershipRepo := newFakeMembershipRepo()
	paymentRepo := newFakePaymentRepo()
	counterRepo := newFakeCounterRepo()

	member := &domain.Member{MemberCode: "GYM0001", FullName: "Budi Santoso", Phone: "0811111111", IsActive: true}
	require.NoError(t, memberRepo.Create(ctx, member))

	pkg := &domain.Package{PackageName: "Monthly", DurationDays: 30, Price: 350000, IsActive: true}
	require.NoError(t, packageRepo.Create(ctx, pkg))

	paymentSvc := NewPaymentService(paymentRepo, counterRepo)
	paymentSvc.now = func() time.Time { return clock }

	svc := NewMembershipService(membershipRepo, packageRepo, memberRepo, paymentSvc)
	svc.now = func() time.Time { return clock }

	return &membershipFixture{
		svc:         svc,
		payments:    paymentRepo,
		memberships: membershipRepo,
		packages:    packageRepo,
		member:      member,
		pkg:         pkg,
	}
}

func TestCreateMembership(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	f := newMembershipFixture(t, clock)

	result, err := f.svc.CreateMembership(ctx, f.member.ID, f.pkg.ID, "new year signup")
	require.NoError(t, err)
	require.NotNil(t, result.Membership)

	assert.Equal(t, "2024-01-01", result.Membership.StartDate)
	assert.Equal(t, "2024-01-31", result.Membership.EndDate)
	assert.Equal(t, domain.MembershipStatusActive, result.Membership.Status)
	assert.Equal(t, f.pkg.Price, result.Membership.PricePaid)

	require.NotNil(t, result.Payment)
	assert.Empty(t, result.PaymentWarning)
	assert.Equal(t, f.pkg.Price, result.Payment.Amount)
	assert.Equal(t, result.Membership.ID, result.Payment.MembershipID)
	assert.Equal(t, domain.PaymentStatusPaid, result.Payment.PaymentStatus)
}

func TestCreateMembershipLocalDayEastOfUTC(t *testing.T) {
	ctx := context.Background()
	// 03:00 in Jakarta is still the previous day in UTC. The window and
	// the payment must be dated on the local calendar day, the same
	// basis the check-in tracker uses.
	jakarta := time.FixedZone("WIB", 7*3600)
	clock := time.Date(2024, 1, 1, 3, 0, 0, 0, jakarta)
	f := newMembershipFixture(t, clock)

	result, err := f.svc.CreateMembership(ctx, f.member.ID, f.pkg.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", result.Membership.StartDate)
	assert.Equal(t, "2024-01-31", result.Membership.EndDate)

	require.NotNil(t, result.Payment)
	assert.Equal(t, "2024-01-01", result.Payment.PaymentDate)
	assert.Contains(t, result.Payment.InvoiceNumber, "INV-20240101-")
}

func TestCreateMembershipRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	_, err := f.svc.CreateMembership(ctx, f.member.ID, f.pkg.ID, "")
	require.NoError(t, err)

	_, err = f.svc.CreateMembership(ctx, f.member.ID, f.pkg.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrActiveMembershipExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateMembershipAfterExpiry(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	_, err := f.svc.CreateMembership(ctx, f.member.ID, f.pkg.ID, "")
	require.NoError(t, err)

	// Move past the end date; the old membership no longer blocks.
	f.svc.now = func() time.Time { return time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC) }
	result, err := f.svc.CreateMembership(ctx, f.member.ID, f.pkg.ID, "renewal")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-15", result.Membership.StartDate)
}

func TestCreateMembershipPaymentFailureKeepsMembership(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	f.payments.createErr = errors.New("payments collection unavailable")

	result, err := f.svc.CreateMembership(ctx, f.member.ID, f.pkg.ID, "")
	require.NoError(t, err)
	require.NotNil(t, result.Membership)
	assert.Nil(t, result.Payment)
	assert.NotEmpty(t, result.PaymentWarning)

	// The membership stands and blocks entitlement re-checks.
	active, err := f.svc.HasActiveMembership(ctx, f.member.ID, f.svc.now())
	require.NoError(t, err)
	assert.True(t, active)
}

func TestCreateMembershipInactivePackage(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	f.pkg.IsActive = false
	require.NoError(t, f.packages.Update(ctx, f.pkg))

	_, err := f.svc.CreateMembership(ctx, f.member.ID, f.pkg.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelMembership(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	result, err := f.svc.CreateMembership(ctx, f.member.ID, f.pkg.ID, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelMembership(ctx, result.Membership.ID))

	active, err := f.svc.HasActiveMembership(ctx, f.member.ID, f.svc.now())
	require.NoError(t, err)
	assert.False(t, active)

	// Cancelled clears the way for a fresh period the same day.
	_, err = f.svc.CreateMembership(ctx, f.member.ID, f.pkg.ID, "re-signup")
	require.NoError(t, err)
}
