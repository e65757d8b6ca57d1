package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/ardikasatria/gymdesk/internal/domain"
)

// ExportService renders report rows as CSV artifacts. Column sets are
// fixed per report; the member join happens in memory by foreign key.
type ExportService struct {
	memberRepo  domain.MemberRepository
	checkInRepo domain.CheckInRepository
	paymentRepo domain.PaymentRepository
	now         func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(
	memberRepo domain.MemberRepository,
	checkInRepo domain.CheckInRepository,
	paymentRepo domain.PaymentRepository,
) *ExportService {
	return &ExportService{
		memberRepo:  memberRepo,
		checkInRepo: checkInRepo,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// CheckInHistoryCSV exports the check-in log for a date window. Open
// sessions carry a "still active" duration label, never a final-looking
// number.
func (s *ExportService) CheckInHistoryCSV(ctx context.Context, from, to, memberID string) ([]byte, error) {
	if err := validateDateWindow(from, to); err != nil {
		return nil, err
	}
	checkIns, err := s.checkInRepo.GetByDateRange(ctx, from, to, memberID)
	if err != nil {
		return nil, err
	}

	members, err := s.memberIndex(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Check-in Time", "Check-out Time", "Duration", "Member Code", "Member Name", "Phone"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	now := s.now()
	for _, c := range checkIns {
		var code, name, phone string
		if m, ok := members[c.MemberID]; ok {
			code, name, phone = m.MemberCode, m.FullName, m.Phone
		}

		checkOut := ""
		if c.CheckOutTime != nil {
			checkOut = c.CheckOutTime.Format(time.RFC3339)
		}

		row := []string{
			c.CheckInDate,
			c.CheckInTime.Format(time.RFC3339),
			checkOut,
			formatDuration(c, now),
			code,
			name,
			phone,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FinancialCSV exports payments for a date window.
func (s *ExportService) FinancialCSV(ctx context.Context, from, to, status string) ([]byte, error) {
	if err := validateDateWindow(from, to); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.GetByDateRange(ctx, from, to, status)
	if err != nil {
		return nil, err
	}

	members, err := s.memberIndex(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Invoice", "Member", "Member Code", "Amount", "Method", "Status"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range payments {
		var code, name string
		if m, ok := members[p.MemberID]; ok {
			code, name = m.MemberCode, m.FullName
		}

		row := []string{
			p.PaymentDate,
			p.InvoiceNumber,
			name,
			code,
			fmt.Sprintf("%d", p.Amount),
			p.PaymentMethod,
			p.PaymentStatus,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) memberIndex(ctx context.Context) (map[string]*domain.Member, error) {
	members, err := s.memberRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*domain.Member, len(members))
	for _, m := range members {
		index[m.ID] = m
	}
	return index, nil
}

func formatDuration(c *domain.CheckIn, now time.Time) string {
	d, final := c.Duration(now)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if !final {
		return fmt.Sprintf("%dh %dm (still active)", h, m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
