package domain

import (
	"context"
	"time"
)

// CheckIn is one gym-visit record for a member on one calendar day.
// The store holds a unique index on (member_id, check_in_date): a
// member gets at most one row per day no matter how many terminals
// race on the insert.
type CheckIn struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	MemberID     string     `bson:"member_id" json:"member_id"`
	CheckInDate  string     `bson:"check_in_date" json:"check_in_date"` // YYYY-MM-DD, local day
	CheckInTime  time.Time  `bson:"check_in_time" json:"check_in_time"`
	CheckOutTime *time.Time `bson:"check_out_time,omitempty" json:"check_out_time,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
}

// IsCheckedOut reports whether the session has ended.
func (c *CheckIn) IsCheckedOut() bool {
	return c.CheckOutTime != nil
}

// Duration returns the session length. For an open check-in the result
// is the duration so far against now and final is false; callers must
// label such values "still active" and never present them as final.
func (c *CheckIn) Duration(now time.Time) (d time.Duration, final bool) {
	if c.CheckOutTime != nil {
		return c.CheckOutTime.Sub(c.CheckInTime), true
	}
	return now.Sub(c.CheckInTime), false
}

// CheckInRepository defines operations for managing check-ins
type CheckInRepository interface {
	// Create inserts the row; a same-day duplicate for the member fails
	// with ErrAlreadyCheckedInToday (store-level unique index).
	Create(ctx context.Context, checkIn *CheckIn) error
	GetByID(ctx context.Context, id string) (*CheckIn, error)
	GetByMemberAndDate(ctx context.Context, memberID, date string) (*CheckIn, error)
	GetByDate(ctx context.Context, date string) ([]*CheckIn, error)
	GetByDateRange(ctx context.Context, from, to string, memberID string) ([]*CheckIn, error)
	SetCheckOutTime(ctx context.Context, id string, t time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteByMemberID(ctx context.Context, memberID string) error
}
