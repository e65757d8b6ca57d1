package domain

import (
	"context"
	"time"
)

// Membership status constants
const (
	MembershipStatusActive    = "active"
	MembershipStatusExpired   = "expired"
	MembershipStatusCancelled = "cancelled"
)

// Membership is one time-bounded entitlement period for a member,
// derived from a package. PricePaid snapshots the package price at
// creation time and may diverge from the package's current price.
type Membership struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	MemberID  string    `bson:"member_id" json:"member_id"`
	PackageID string    `bson:"package_id" json:"package_id"`
	StartDate string    `bson:"start_date" json:"start_date"` // YYYY-MM-DD
	EndDate   string    `bson:"end_date" json:"end_date"`     // YYYY-MM-DD
	Status    string    `bson:"status" json:"status"`
	PricePaid int64     `bson:"price_paid" json:"price_paid"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// DateLayout is the calendar-day format used for start/end dates and
// check-in days throughout the store.
const DateLayout = "2006-01-02"

// MembershipPeriod computes the entitlement window for a package bought
// on start. The end date is start plus the package duration.
func MembershipPeriod(start time.Time, durationDays int) (startDate, endDate string) {
	startDate = start.Format(DateLayout)
	endDate = start.AddDate(0, 0, durationDays).Format(DateLayout)
	return
}

// IsCurrent reports whether the membership entitles access on the given
// day: status must be active and the end date must not have passed.
func (m *Membership) IsCurrent(asOf time.Time) bool {
	return m.Status == MembershipStatusActive && m.EndDate >= asOf.Format(DateLayout)
}

// MembershipRepository defines operations for managing memberships
type MembershipRepository interface {
	Create(ctx context.Context, membership *Membership) error
	GetByID(ctx context.Context, id string) (*Membership, error)
	GetByMemberID(ctx context.Context, memberID string) ([]*Membership, error)
	// GetActiveByMemberID returns the membership with status=active and
	// end_date >= asOf, or ErrNotFound.
	GetActiveByMemberID(ctx context.Context, memberID string, asOf string) (*Membership, error)
	// CountActiveByPackageID counts non-terminal memberships referencing
	// a package; used to block package deletion.
	CountActiveByPackageID(ctx context.Context, packageID string) (int64, error)
	GetExpiringBetween(ctx context.Context, from, to string) ([]*Membership, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	DeleteByMemberID(ctx context.Context, memberID string) error
}
