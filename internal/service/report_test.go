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

type reportFixture struct {
	svc         *ReportService
	members     *fakeMemberRepo
	payments    *fakePaymentRepo
	checkIns    *fakeCheckInRepo
	memberships *fakeMembershipRepo
}

func newReportFixture(clock time.Time) *reportFixture {
	members := newFakeMemberRepo()
	payments := newFakePaymentRepo()
	checkIns := newFakeCheckInRepo()
	memberships := newFakeMembershipRepo()

	svc := NewReportService(members, payments, checkIns, memberships, nil)
	svc.now = func() time.Time { return clock }
	return &reportFixture{svc: svc, members: members, payments: payments, checkIns: checkIns, memberships: memberships}
}

func (f *reportFixture) seedPayment(t *testing.T, date string, amount int64, method, status string) {
	t.Helper()
	err := f.payments.Create(context.Background(), &domain.Payment{
		MemberID:      "member-1",
		Amount:        amount,
		PaymentMethod: method,
		PaymentStatus: status,
		InvoiceNumber: fmt.Sprintf("INV-TEST-%04d", f.payments.seq+1),
		PaymentDate:   date,
	})
	require.NoError(t, err)
}

func TestRevenueSummaryEmptyWindow(t *testing.T) {
	f := newReportFixture(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	summary, err := f.svc.RevenueSummary(context.Background(), "2024-06-01", "2024-06-30")
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.Total)
	assert.Equal(t, 0, summary.Count)
	assert.Equal(t, int64(0), summary.AverageTransaction)
	assert.Empty(t, summary.ByMethod)
}

func TestRevenueSummary(t *testing.T) {
	f := newReportFixture(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	f.seedPayment(t, "2024-06-05", 350000, domain.PaymentMethodCash, domain.PaymentStatusPaid)
	f.seedPayment(t, "2024-06-10", 150000, domain.PaymentMethodQRIS, domain.PaymentStatusPaid)
	f.seedPayment(t, "2024-06-12", 100000, domain.PaymentMethodCash, domain.PaymentStatusPaid)
	// Outside the window or not paid; both excluded.
	f.seedPayment(t, "2024-05-30", 999999, domain.PaymentMethodCash, domain.PaymentStatusPaid)
	f.seedPayment(t, "2024-06-11", 888888, domain.PaymentMethodCash, domain.PaymentStatusPending)

	summary, err := f.svc.RevenueSummary(context.Background(), "2024-06-01", "2024-06-30")
	require.NoError(t, err)

	assert.Equal(t, int64(600000), summary.Total)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, int64(200000), summary.AverageTransaction)
	assert.Equal(t, int64(450000), summary.ByMethod[domain.PaymentMethodCash])
	assert.Equal(t, int64(150000), summary.ByMethod[domain.PaymentMethodQRIS])
}

func TestRevenueSummaryRejectsBadDates(t *testing.T) {
	f := newReportFixture(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	_, err := f.svc.RevenueSummary(context.Background(), "06/01/2024", "2024-06-30")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.RevenueSummary(context.Background(), "2024-06-01", "yesterday")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := newReportFixture(clock)

	require.NoError(t, f.members.Create(ctx, &domain.Member{MemberCode: "GYM0001", FullName: "Budi", IsActive: true}))
	require.NoError(t, f.members.Create(ctx, &domain.Member{MemberCode: "GYM0002", FullName: "Sari", IsActive: true}))
	require.NoError(t, f.members.Create(ctx, &domain.Member{MemberCode: "GYM0003", FullName: "Tono", IsActive: false}))

	f.seedPayment(t, "2024-06-01", 350000, domain.PaymentMethodCash, domain.PaymentStatusPaid)
	f.seedPayment(t, "2024-05-28", 350000, domain.PaymentMethodCash, domain.PaymentStatusPaid) // previous month

	require.NoError(t, f.checkIns.Create(ctx, &domain.CheckIn{MemberID: "member-1", CheckInDate: "2024-06-15", CheckInTime: clock}))
	require.NoError(t, f.checkIns.Create(ctx, &domain.CheckIn{MemberID: "member-2", CheckInDate: "2024-06-14", CheckInTime: clock.AddDate(0, 0, -1)}))

	require.NoError(t, f.memberships.Create(ctx, &domain.Membership{
		MemberID: "member-1", PackageID: "package-1",
		StartDate: "2024-05-20", EndDate: "2024-06-18",
		Status: domain.MembershipStatusActive,
	}))
	require.NoError(t, f.memberships.Create(ctx, &domain.Membership{
		MemberID: "member-2", PackageID: "package-1",
		StartDate: "2024-06-01", EndDate: "2024-08-01",
		Status: domain.MembershipStatusActive,
	}))

	stats, err := f.svc.DashboardStats(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalMembers)
	assert.Equal(t, int64(2), stats.ActiveMembers)
	assert.Equal(t, int64(350000), stats.MonthlyRevenue)
	assert.Equal(t, int64(1), stats.TodayCheckIns)
	assert.Equal(t, int64(1), stats.ExpiringSoon)
	assert.Equal(t, 7, stats.ExpiringSoonDays)
}

func TestExpiringMembershipsSkipsOrphans(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	member := &domain.Member{MemberCode: "GYM0001", FullName: "Budi", IsActive: true}
	require.NoError(t, f.members.Create(ctx, member))

	require.NoError(t, f.memberships.Create(ctx, &domain.Membership{
		MemberID: member.ID, PackageID: "package-1",
		StartDate: "2024-05-20", EndDate: "2024-06-20",
		Status: domain.MembershipStatusActive,
	}))
	// Membership whose member no longer exists.
	require.NoError(t, f.memberships.Create(ctx, &domain.Membership{
		MemberID: "ghost", PackageID: "package-1",
		StartDate: "2024-05-20", EndDate: "2024-06-19",
		Status: domain.MembershipStatusActive,
	}))

	expiring, err := f.svc.ExpiringMemberships(ctx, 7)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, member.ID, expiring[0].Member.ID)
	assert.Equal(t, "2024-06-20", expiring[0].Membership.EndDate)
}
