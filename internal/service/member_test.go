package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardikasatria/gymdesk/internal/domain"
)

type memberFixture struct {
	svc         *MemberService
	members     *fakeMemberRepo
	memberships *fakeMembershipRepo
	payments    *fakePaymentRepo
	checkIns    *fakeCheckInRepo
}

func newMemberFixture(clock time.Time) *memberFixture {
	members := newFakeMemberRepo()
	memberships := newFakeMembershipRepo()
	payments := newFakePaymentRepo()
	checkIns := newFakeCheckInRepo()

	svc := NewMemberService(members, memberships, payments, checkIns, newFakeCounterRepo(), nil)
	svc.now = func() time.Time { return clock }
	return &memberFixture{svc: svc, members: members, memberships: memberships, payments: payments, checkIns: checkIns}
}

func TestCreateMemberAssignsCode(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))

	first, err := f.svc.CreateMember(ctx, &domain.Member{FullName: "Budi Santoso", Phone: "0811111111"})
	require.NoError(t, err)
	assert.Equal(t, "GYM0001", first.MemberCode)
	assert.True(t, first.IsActive)
	assert.Equal(t, "2024-02-01", first.JoinDate)

	second, err := f.svc.CreateMember(ctx, &domain.Member{FullName: "Sari Dewi", Phone: "0822222222", JoinDate: "2024-01-15"})
	require.NoError(t, err)
	assert.Equal(t, "GYM0002", second.MemberCode)
	assert.Equal(t, "2024-01-15", second.JoinDate)
}

func TestCreateMemberValidation(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.CreateMember(ctx, &domain.Member{Phone: "0811111111"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.CreateMember(ctx, &domain.Member{FullName: "  ", Phone: "0811111111"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.CreateMember(ctx, &domain.Member{FullName: "Budi"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateMemberKeepsCode(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))

	member, err := f.svc.CreateMember(ctx, &domain.Member{FullName: "Budi Santoso", Phone: "0811111111"})
	require.NoError(t, err)

	edited := *member
	edited.FullName = "Budi S."
	edited.MemberCode = "GYM9999" // client tampering is ignored
	require.NoError(t, f.svc.UpdateMember(ctx, &edited))

	kept, err := f.members.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi S.", kept.FullName)
	assert.Equal(t, "GYM0001", kept.MemberCode)
}

func TestDeleteMemberCascades(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))

	member, err := f.svc.CreateMember(ctx, &domain.Member{FullName: "Budi Santoso", Phone: "0811111111"})
	require.NoError(t, err)

	require.NoError(t, f.memberships.Create(ctx, &domain.Membership{
		MemberID: member.ID, PackageID: "package-1",
		StartDate: "2024-02-01", EndDate: "2024-03-02",
		Status: domain.MembershipStatusActive,
	}))
	require.NoError(t, f.payments.Create(ctx, &domain.Payment{
		MemberID: member.ID, Amount: 350000,
		PaymentMethod: domain.PaymentMethodCash, PaymentStatus: domain.PaymentStatusPaid,
		InvoiceNumber: "INV-TEST-0001", PaymentDate: "2024-02-01",
	}))
	require.NoError(t, f.checkIns.Create(ctx, &domain.CheckIn{
		MemberID: member.ID, CheckInDate: "2024-02-01", CheckInTime: time.Now(),
	}))

	require.NoError(t, f.svc.DeleteMember(ctx, member.ID))

	_, err = f.members.GetByID(ctx, member.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rows, err := f.memberships.GetByMemberID(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	paid, err := f.payments.GetByMemberID(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, paid)

	visits, err := f.checkIns.GetByDateRange(ctx, "2024-01-01", "2024-12-31", member.ID)
	require.NoError(t, err)
	assert.Empty(t, visits)
}

func TestDeleteMemberUnknown(t *testing.T) {
	ctx := context.Background()
	f := newMemberFixture(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))

	err := f.svc.DeleteMember(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePackageReferenced(t *testing.T) {
	ctx := context.Background()
	packages := newFakePackageRepo()
	memberships := newFakeMembershipRepo()
	svc := NewPackageService(packages, memberships)

	pkg := &domain.Package{PackageName: "Monthly", DurationDays: 30, Price: 350000, IsActive: true}
	require.NoError(t, svc.CreatePackage(ctx, pkg))

	require.NoError(t, memberships.Create(ctx, &domain.Membership{
		MemberID: "member-1", PackageID: pkg.ID,
		StartDate: "2024-02-01", EndDate: "2024-03-02",
		Status: domain.MembershipStatusActive,
	}))

	err := svc.DeletePackage(ctx, pkg.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPackageReferenced)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Expired references no longer block removal.
	for id := range memberships.memberships {
		require.NoError(t, memberships.UpdateStatus(ctx, id, domain.MembershipStatusExpired))
	}
	require.NoError(t, svc.DeletePackage(ctx, pkg.ID))
}

func TestCreatePackageValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewPackageService(newFakePackageRepo(), newFakeMembershipRepo())

	tests := []struct {
		name string
		pkg  domain.Package
	}{
		{"missing name", domain.Package{DurationDays: 30, Price: 1000}},
		{"zero duration", domain.Package{PackageName: "Monthly", Price: 1000}},
		{"zero price", domain.Package{PackageName: "Monthly", DurationDays: 30}},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d_%s", i, tt.name), func(t *testing.T) {
			pkg := tt.pkg
			err := svc.CreatePackage(ctx, &pkg)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
