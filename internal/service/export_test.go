package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardikasatria/gymdesk/internal/domain"
)

func TestCheckInHistoryCSV(t *testing.T) {
	ctx := context.Background()
	members := newFakeMemberRepo()
	checkIns := newFakeCheckInRepo()

	svc := NewExportService(members, checkIns, newFakePaymentRepo())
	svc.now = func() time.Time { return time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC) }

	member := &domain.Member{MemberCode: "GYM0001", FullName: "Budi Santoso", Phone: "0811111111", IsActive: true}
	require.NoError(t, members.Create(ctx, member))

	in := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	out := in.Add(90 * time.Minute)
	require.NoError(t, checkIns.Create(ctx, &domain.CheckIn{
		MemberID: member.ID, CheckInDate: "2024-04-01", CheckInTime: in, CheckOutTime: &out,
	}))
	// Open session from earlier today.
	require.NoError(t, checkIns.Create(ctx, &domain.CheckIn{
		MemberID: member.ID, CheckInDate: "2024-04-02",
		CheckInTime: time.Date(2024, 4, 2, 9, 15, 0, 0, time.UTC),
	}))

	data, err := svc.CheckInHistoryCSV(ctx, "2024-04-01", "2024-04-30", "")
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Date", "Check-in Time", "Check-out Time", "Duration", "Member Code", "Member Name", "Phone"}, rows[0])

	byDate := map[string][]string{rows[1][0]: rows[1], rows[2][0]: rows[2]}

	closed := byDate["2024-04-01"]
	require.NotNil(t, closed)
	assert.Equal(t, "1h 30m", closed[3])
	assert.Equal(t, "GYM0001", closed[4])
	assert.Equal(t, "Budi Santoso", closed[5])

	open := byDate["2024-04-02"]
	require.NotNil(t, open)
	assert.Equal(t, "", open[2])
	assert.Equal(t, "0h 45m (still active)", open[3])
}

func TestFinancialCSV(t *testing.T) {
	ctx := context.Background()
	members := newFakeMemberRepo()
	payments := newFakePaymentRepo()

	svc := NewExportService(members, newFakeCheckInRepo(), payments)

	member := &domain.Member{MemberCode: "GYM0001", FullName: "Budi Santoso", Phone: "0811111111", IsActive: true}
	require.NoError(t, members.Create(ctx, member))

	require.NoError(t, payments.Create(ctx, &domain.Payment{
		MemberID: member.ID, Amount: 350000,
		PaymentMethod: domain.PaymentMethodCash, PaymentStatus: domain.PaymentStatusPaid,
		InvoiceNumber: "INV-20240401-0001", PaymentDate: "2024-04-01",
	}))
	// Orphan payment keeps its row with blank member columns.
	require.NoError(t, payments.Create(ctx, &domain.Payment{
		MemberID: "ghost", Amount: 150000,
		PaymentMethod: domain.PaymentMethodQRIS, PaymentStatus: domain.PaymentStatusPaid,
		InvoiceNumber: "INV-20240402-0001", PaymentDate: "2024-04-02",
	}))

	data, err := svc.FinancialCSV(ctx, "2024-04-01", "2024-04-30", domain.PaymentStatusPaid)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Date", "Invoice", "Member", "Member Code", "Amount", "Method", "Status"}, rows[0])

	byInvoice := map[string][]string{rows[1][1]: rows[1], rows[2][1]: rows[2]}

	known := byInvoice["INV-20240401-0001"]
	require.NotNil(t, known)
	assert.Equal(t, "Budi Santoso", known[2])
	assert.Equal(t, "350000", known[4])

	orphan := byInvoice["INV-20240402-0001"]
	require.NotNil(t, orphan)
	assert.Equal(t, "", orphan[2])
	assert.Equal(t, "", orphan[3])
}

func TestExportsRequireWindow(t *testing.T) {
	ctx := context.Background()
	svc := NewExportService(newFakeMemberRepo(), newFakeCheckInRepo(), newFakePaymentRepo())

	_, err := svc.CheckInHistoryCSV(ctx, "", "2024-04-30", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.FinancialCSV(ctx, "2024-04-01", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
