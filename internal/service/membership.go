package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ardikasatria/gymdesk/internal/domain"
)

// PaymentRecorder is the slice of the payment service the membership
// ledger needs for the dependent payment step.
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Payment, error)
}

// MembershipService is the ledger deciding whether a member currently
// holds billing-entitled access and creating new membership periods.
type MembershipService struct {
	membershipRepo domain.MembershipRepository
	packageRepo    domain.PackageRepository
	memberRepo     domain.MemberRepository
	payments       PaymentRecorder
	now            func() time.Time
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	membershipRepo domain.MembershipRepository,
	packageRepo domain.PackageRepository,
	memberRepo domain.MemberRepository,
	payments PaymentRecorder,
) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		packageRepo:    packageRepo,
		memberRepo:     memberRepo,
		payments:       payments,
		now:            time.Now,
	}
}

// MembershipResult is the composite outcome of membership creation.
// Membership creation and payment recording are two writes with
// asymmetric durability: the membership stands even when the payment
// step fails, and the failure surfaces as PaymentWarning instead of a
// rollback.
type MembershipResult struct {
	Membership     *domain.Membership `json:"membership"`
	Payment        *domain.Payment    `json:"payment,omitempty"`
	PaymentWarning string             `json:"payment_warning,omitempty"`
}

// HasActiveMembership reports whether the member holds a membership
// with status active and an end date at or after asOf. Read-only.
func (s *MembershipService) HasActiveMembership(ctx context.Context, memberID string, asOf time.Time) (bool, error) {
	_, err := s.membershipRepo.GetActiveByMemberID(ctx, memberID, asOf.Format(domain.DateLayout))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateMembership opens a new membership period for the member:
//
//  1. rejects overlapping active memberships (ErrActiveMembershipExists)
//  2. snapshots the package price and computes the entitlement window
//  3. persists the membership
//  4. records the payment as a dependent best-effort step
//
// A payment failure after step 3 does not roll the membership back; the
// result carries the warning for the caller to surface.
func (s *MembershipService) CreateMembership(ctx context.Context, memberID, packageID, notes string) (*MembershipResult, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("member %s: %w", memberID, err)
	}

	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", packageID, err)
	}
	if !pkg.IsActive {
		// A stale UI selection may still reference a retired package.
		return nil, fmt.Errorf("package %s is inactive: %w", packageID, domain.ErrNotFound)
	}

	active, err := s.HasActiveMembership(ctx, memberID, s.now())
	if err != nil {
		return nil, err
	}
	if active {
		return nil, domain.ErrActiveMembershipExists
	}

	// Same local-day basis as the overlap check above and the check-in
	// tracker, so the last entitled day lines up at the gym door.
	startDate, endDate := domain.MembershipPeriod(s.now(), pkg.DurationDays)
	membership := &domain.Membership{
		MemberID:  memberID,
		PackageID: packageID,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    domain.MembershipStatusActive,
		PricePaid: pkg.Price,
		Notes:     notes,
	}

	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, err
	}

	result := &MembershipResult{Membership: membership}

	payment, err := s.payments.RecordPayment(ctx, RecordPaymentInput{
		MemberID:      memberID,
		MembershipID:  membership.ID,
		Amount:        pkg.Price,
		PaymentMethod: domain.PaymentMethodCash,
		Notes:         fmt.Sprintf("Membership payment %s", pkg.PackageName),
	})
	if err != nil {
		// Membership already persisted; keep it and surface the gap.
		log.Printf("[Membership] Payment recording failed for membership %s: %v", membership.ID, err)
		result.PaymentWarning = "membership created, but payment recording failed"
		return result, nil
	}

	result.Payment = payment
	return result, nil
}

// GetMembership fetches one membership by id.
func (s *MembershipService) GetMembership(ctx context.Context, id string) (*domain.Membership, error) {
	return s.membershipRepo.GetByID(ctx, id)
}

// ActiveMembership returns the member's current membership or
// ErrNotFound.
func (s *MembershipService) ActiveMembership(ctx context.Context, memberID string) (*domain.Membership, error) {
	return s.membershipRepo.GetActiveByMemberID(ctx, memberID, s.now().Format(domain.DateLayout))
}

// ListMemberMemberships returns all membership periods of a member,
// newest first.
func (s *MembershipService) ListMemberMemberships(ctx context.Context, memberID string) ([]*domain.Membership, error) {
	return s.membershipRepo.GetByMemberID(ctx, memberID)
}

// CancelMembership marks a membership cancelled. Terminal; the member
// can buy a new period immediately afterwards.
func (s *MembershipService) CancelMembership(ctx context.Context, id string) error {
	membership, err := s.membershipRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if membership.Status != domain.MembershipStatusActive {
		return fmt.Errorf("membership %s is %s: %w", id, membership.Status, domain.ErrConflict)
	}
	return s.membershipRepo.UpdateStatus(ctx, id, domain.MembershipStatusCancelled)
}
