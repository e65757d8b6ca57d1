package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/ardikasatria/gymdesk/internal/domain"
)

// InvoiceDocService renders one payment as a self-contained printable
// HTML document. Generated on demand, never persisted.
type InvoiceDocService struct {
	paymentRepo    domain.PaymentRepository
	memberRepo     domain.MemberRepository
	membershipRepo domain.MembershipRepository
	packageRepo    domain.PackageRepository
	tmpl           *template.Template
}

// NewInvoiceDocService creates a new InvoiceDocService
func NewInvoiceDocService(
	paymentRepo domain.PaymentRepository,
	memberRepo domain.MemberRepository,
	membershipRepo domain.MembershipRepository,
	packageRepo domain.PackageRepository,
) *InvoiceDocService {
	return &InvoiceDocService{
		paymentRepo:    paymentRepo,
		memberRepo:     memberRepo,
		membershipRepo: membershipRepo,
		packageRepo:    packageRepo,
		tmpl:           template.Must(template.New("invoice").Parse(invoiceTemplate)),
	}
}

type invoiceDocData struct {
	InvoiceNumber string
	PaymentDate   string
	Amount        int64
	Method        string
	Status        string
	Notes         string

	MemberCode string
	MemberName string
	Phone      string

	HasMembership bool
	PackageName   string
	StartDate     string
	EndDate       string
}

// Render builds the invoice document for one payment. Membership and
// package details are included when the payment references a
// membership; a dangling reference degrades to a payment-only invoice.
func (s *InvoiceDocService) Render(ctx context.Context, paymentID string) ([]byte, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetByID(ctx, payment.MemberID)
	if err != nil {
		return nil, fmt.Errorf("member for payment %s: %w", paymentID, err)
	}

	data := invoiceDocData{
		InvoiceNumber: payment.InvoiceNumber,
		PaymentDate:   payment.PaymentDate,
		Amount:        payment.Amount,
		Method:        payment.PaymentMethod,
		Status:        payment.PaymentStatus,
		Notes:         payment.Notes,
		MemberCode:    member.MemberCode,
		MemberName:    member.FullName,
		Phone:         member.Phone,
	}

	if payment.MembershipID != "" {
		membership, err := s.membershipRepo.GetByID(ctx, payment.MembershipID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if membership != nil {
			data.HasMembership = true
			data.StartDate = membership.StartDate
			data.EndDate = membership.EndDate
			if pkg, err := s.packageRepo.GetByID(ctx, membership.PackageID); err == nil {
				data.PackageName = pkg.PackageName
			}
		}
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
  body { font-family: Arial, sans-serif; margin: 40px; color: #222; }
  .header { display: flex; justify-content: space-between; border-bottom: 3px solid #2563eb; padding-bottom: 16px; }
  .brand { font-size: 24px; font-weight: bold; color: #2563eb; }
  .invoice-number { text-align: right; }
  .invoice-number-value { font-size: 18px; font-weight: bold; }
  .section { margin-top: 24px; }
  .section h3 { margin-bottom: 8px; border-bottom: 1px solid #ddd; padding-bottom: 4px; }
  .row { display: flex; justify-content: space-between; padding: 4px 0; }
  .label { color: #666; }
  .total { margin-top: 24px; padding: 12px; background: #eff6ff; font-size: 20px; font-weight: bold; display: flex; justify-content: space-between; }
  .status { text-transform: uppercase; letter-spacing: 1px; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
  <div class="header">
    <div class="brand">Gymdesk</div>
    <div class="invoice-number">
      <div class="label">Invoice</div>
      <div class="invoice-number-value">{{.InvoiceNumber}}</div>
      <div>{{.PaymentDate}}</div>
    </div>
  </div>

  <div class="section">
    <h3>Member</h3>
    <div class="row"><span class="label">Name</span><span>{{.MemberName}}</span></div>
    <div class="row"><span class="label">Member Code</span><span>{{.MemberCode}}</span></div>
    <div class="row"><span class="label">Phone</span><span>{{.Phone}}</span></div>
  </div>

  {{if .HasMembership}}
  <div class="section">
    <h3>Membership Period</h3>
    <div class="row"><span class="label">Package</span><span>{{.PackageName}}</span></div>
    <div class="row"><span class="label">Start</span><span>{{.StartDate}}</span></div>
    <div class="row"><span class="label">End</span><span>{{.EndDate}}</span></div>
  </div>
  {{end}}

  <div class="section">
    <h3>Payment</h3>
    <div class="row"><span class="label">Method</span><span>{{.Method}}</span></div>
    <div class="row"><span class="label">Status</span><span class="status">{{.Status}}</span></div>
    {{if .Notes}}<div class="row"><span class="label">Notes</span><span>{{.Notes}}</span></div>{{end}}
  </div>

  <div class="total"><span>Total</span><span>{{.Amount}}</span></div>

  <script>window.onload = function() { window.print(); };</script>
</body>
</html>
`
