package domain

import (
	"context"
	"time"
)

// Payment status constants. Manual back-office records are created as
// paid; pending, failed and refunded exist as stored values with no
// programmatic transitions in the current flows.
const (
	PaymentStatusPaid     = "paid"
	PaymentStatusPending  = "pending"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment method constants
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodQRIS         = "qris"
	PaymentMethodGoPay        = "gopay"
	PaymentMethodOVO          = "ovo"
	PaymentMethodShopeePay    = "shopeepay"
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodOther        = "other"
)

// ValidPaymentMethod reports whether method is one of the accepted enum
// values.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodQRIS,
		PaymentMethodGoPay, PaymentMethodOVO, PaymentMethodShopeePay,
		PaymentMethodCreditCard, PaymentMethodOther:
		return true
	}
	return false
}

// Payment records one monetary transaction for a member, optionally tied
// to a membership. The invoice number is unique across the store.
type Payment struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	MemberID      string    `bson:"member_id" json:"member_id"`
	MembershipID  string    `bson:"membership_id,omitempty" json:"membership_id,omitempty"`
	Amount        int64     `bson:"amount" json:"amount"`
	PaymentMethod string    `bson:"payment_method" json:"payment_method"`
	PaymentStatus string    `bson:"payment_status" json:"payment_status"`
	InvoiceNumber string    `bson:"invoice_number" json:"invoice_number"`
	PaymentDate   string    `bson:"payment_date" json:"payment_date"` // YYYY-MM-DD
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// PaymentRepository defines operations for managing payments
type PaymentRepository interface {
	// Create inserts the payment; a duplicate invoice_number fails with
	// ErrInvoiceNumberTaken (store-level unique index), never a silent
	// overwrite.
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByMemberID(ctx context.Context, memberID string) ([]*Payment, error)
	GetByDateRange(ctx context.Context, from, to string, status string) ([]*Payment, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
	DeleteByMemberID(ctx context.Context, memberID string) error
}

// CounterRepository hands out monotonic sequence values per scope. It
// backs member codes and daily invoice numbers; the store arbitrates
// concurrent increments.
type CounterRepository interface {
	Next(ctx context.Context, scope string) (int64, error)
}
