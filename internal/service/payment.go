package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ardikasatria/gymdesk/internal/domain"
	"github.com/oklog/ulid/v2"
)

// invoiceInsertAttempts bounds how many fresh invoice numbers we try
// before giving up on a persistently colliding insert.
const invoiceInsertAttempts = 3

// PaymentService records and removes payments and owns invoice number
// generation. Invoice numbers come from a per-day store counter
// (INV-YYYYMMDD-NNNN); if the counter is unreachable the service falls
// back to a ULID-derived token. Either way the unique index on
// invoice_number is the final arbiter: a collision fails the insert and
// is retried with a new token, never overwritten.
type PaymentService struct {
	paymentRepo domain.PaymentRepository
	counterRepo domain.CounterRepository
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo domain.PaymentRepository, counterRepo domain.CounterRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		counterRepo: counterRepo,
		now:         time.Now,
	}
}

// RecordPaymentInput carries the fields of one manual payment record.
type RecordPaymentInput struct {
	MemberID      string
	MembershipID  string // optional; ownership against MemberID is not validated
	Amount        int64
	PaymentMethod string
	Notes         string
}

// RecordPayment validates the input, generates a unique invoice number
// and persists the payment with status paid.
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Payment, error) {
	if input.MemberID == "" {
		return nil, fmt.Errorf("member_id is required: %w", domain.ErrValidation)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrValidation)
	}
	if !domain.ValidPaymentMethod(input.PaymentMethod) {
		return nil, fmt.Errorf("unknown payment method %q: %w", input.PaymentMethod, domain.ErrValidation)
	}

	// Local day, matching the calendar-day convention used by check-ins
	// and membership windows.
	now := s.now()

	for attempt := 0; attempt < invoiceInsertAttempts; attempt++ {
		payment := &domain.Payment{
			MemberID:      input.MemberID,
			MembershipID:  input.MembershipID,
			Amount:        input.Amount,
			PaymentMethod: input.PaymentMethod,
			PaymentStatus: domain.PaymentStatusPaid,
			InvoiceNumber: s.nextInvoiceNumber(ctx, now),
			PaymentDate:   now.Format(domain.DateLayout),
			Notes:         input.Notes,
		}

		err := s.paymentRepo.Create(ctx, payment)
		if err == nil {
			return payment, nil
		}
		if !errors.Is(err, domain.ErrInvoiceNumberTaken) {
			return nil, err
		}
		log.Printf("[Payment] Invoice number %s collided, retrying", payment.InvoiceNumber)
	}

	return nil, fmt.Errorf("could not allocate a unique invoice number after %d attempts: %w",
		invoiceInsertAttempts, domain.ErrInvoiceNumberTaken)
}

// DeletePayment hard-deletes a payment. Membership state is left
// untouched even when this was the sole payment funding it; revenue
// reports simply recompute from the remaining rows.
func (s *PaymentService) DeletePayment(ctx context.Context, paymentID string) error {
	return s.paymentRepo.Delete(ctx, paymentID)
}

// GetPayment fetches one payment by id.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.paymentRepo.GetByID(ctx, paymentID)
}

// ListPayments returns payments inside a date window, optionally
// filtered by status.
func (s *PaymentService) ListPayments(ctx context.Context, from, to, status string) ([]*domain.Payment, error) {
	if err := validateDateWindow(from, to); err != nil {
		return nil, err
	}
	if status != "" {
		switch status {
		case domain.PaymentStatusPaid, domain.PaymentStatusPending,
			domain.PaymentStatusFailed, domain.PaymentStatusRefunded:
		default:
			return nil, fmt.Errorf("unknown payment status %q: %w", status, domain.ErrValidation)
		}
	}
	return s.paymentRepo.GetByDateRange(ctx, from, to, status)
}

// ListMemberPayments returns all payments for one member.
func (s *PaymentService) ListMemberPayments(ctx context.Context, memberID string) ([]*domain.Payment, error) {
	return s.paymentRepo.GetByMemberID(ctx, memberID)
}

func (s *PaymentService) nextInvoiceNumber(ctx context.Context, now time.Time) string {
	day := now.Format("20060102")
	seq, err := s.counterRepo.Next(ctx, "invoice:"+day)
	if err != nil {
		// Counter unreachable: fall back to a random token so the sale
		// can still be recorded. The unique index catches collisions.
		log.Printf("[Payment] Invoice counter unavailable, using fallback token: %v", err)
		return fmt.Sprintf("INV-%s", ulid.Make().String())
	}
	return fmt.Sprintf("INV-%s-%04d", day, seq)
}
