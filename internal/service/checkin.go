package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardikasatria/gymdesk/internal/domain"
)

// MembershipChecker is the slice of the membership ledger the tracker
// needs for its precondition.
type MembershipChecker interface {
	HasActiveMembership(ctx context.Context, memberID string, asOf time.Time) (bool, error)
}

// CheckInService tracks gym visits. Per member and calendar day the
// state machine is NONE -> CHECKED_IN -> CHECKED_OUT with no way back;
// a new day resets to NONE. The store's unique index is what actually
// serializes concurrent check-ins.
type CheckInService struct {
	checkInRepo domain.CheckInRepository
	memberships MembershipChecker
	now         func() time.Time
}

// NewCheckInService creates a new CheckInService
func NewCheckInService(checkInRepo domain.CheckInRepository, memberships MembershipChecker) *CheckInService {
	return &CheckInService{
		checkInRepo: checkInRepo,
		memberships: memberships,
		now:         time.Now,
	}
}

// CheckIn records the member's arrival for today. The UI checks the
// membership before calling, but two terminals can race, so the
// precondition is re-validated here and the day uniqueness is left to
// the store. A same-day row blocks re-entry even when already checked
// out.
func (s *CheckInService) CheckIn(ctx context.Context, memberID string) (*domain.CheckIn, error) {
	if memberID == "" {
		return nil, fmt.Errorf("member_id is required: %w", domain.ErrValidation)
	}

	now := s.now()
	active, err := s.memberships.HasActiveMembership(ctx, memberID, now)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, domain.ErrNoActiveMembership
	}

	checkIn := &domain.CheckIn{
		MemberID:    memberID,
		CheckInDate: now.Format(domain.DateLayout),
		CheckInTime: now.UTC(),
	}
	if err := s.checkInRepo.Create(ctx, checkIn); err != nil {
		return nil, err
	}
	return checkIn, nil
}

// CheckOut closes an open session. Repeated checkout is rejected with
// ErrAlreadyCheckedOut rather than silently succeeding, so a stale
// terminal cannot move the recorded departure time.
func (s *CheckInService) CheckOut(ctx context.Context, checkInID string) (*domain.CheckIn, error) {
	checkIn, err := s.checkInRepo.GetByID(ctx, checkInID)
	if err != nil {
		return nil, err
	}
	if checkIn.IsCheckedOut() {
		return nil, domain.ErrAlreadyCheckedOut
	}

	out := s.now().UTC()
	if err := s.checkInRepo.SetCheckOutTime(ctx, checkInID, out); err != nil {
		return nil, err
	}
	checkIn.CheckOutTime = &out
	return checkIn, nil
}

// GetCheckIn fetches one record by id.
func (s *CheckInService) GetCheckIn(ctx context.Context, id string) (*domain.CheckIn, error) {
	return s.checkInRepo.GetByID(ctx, id)
}

// DeleteCheckIn removes a record unconditionally (staff correction).
// No invariant is re-checked: after the deletion the member may check
// in again the same day.
func (s *CheckInService) DeleteCheckIn(ctx context.Context, checkInID string) error {
	return s.checkInRepo.Delete(ctx, checkInID)
}

// TodayCheckIns lists today's visits, newest first.
func (s *CheckInService) TodayCheckIns(ctx context.Context) ([]*domain.CheckIn, error) {
	return s.checkInRepo.GetByDate(ctx, s.now().Format(domain.DateLayout))
}

// History lists visits inside a date range, optionally for one member.
func (s *CheckInService) History(ctx context.Context, from, to, memberID string) ([]*domain.CheckIn, error) {
	if err := validateDateWindow(from, to); err != nil {
		return nil, err
	}
	return s.checkInRepo.GetByDateRange(ctx, from, to, memberID)
}

// MemberCheckInToday returns today's record for a member, or
// ErrNotFound.
func (s *CheckInService) MemberCheckInToday(ctx context.Context, memberID string) (*domain.CheckIn, error) {
	checkIn, err := s.checkInRepo.GetByMemberAndDate(ctx, memberID, s.now().Format(domain.DateLayout))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return checkIn, nil
}
