package domain

import "errors"

// Error taxonomy. Services wrap one of these base sentinels around every
// failure they return so callers can classify with errors.Is; the fiber
// error handler maps them onto HTTP statuses.
var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("conflict with existing state")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrValidation         = errors.New("validation failed")
	ErrTransient          = errors.New("transient backend failure")
	ErrForbidden          = errors.New("access forbidden: you don't own this resource")
)

// Specific invariant violations. Each wraps its base sentinel, so
// errors.Is(err, ErrConflict) and errors.Is(err, ErrAlreadyCheckedInToday)
// both hold for a duplicate same-day check-in.
var (
	ErrActiveMembershipExists = wrapSentinel(ErrConflict, "member already has an active membership")
	ErrAlreadyCheckedInToday  = wrapSentinel(ErrConflict, "member already checked in today")
	ErrAlreadyCheckedOut      = wrapSentinel(ErrConflict, "check-in is already checked out")
	ErrPackageReferenced      = wrapSentinel(ErrConflict, "package is referenced by an active membership")
	ErrInvoiceNumberTaken     = wrapSentinel(ErrConflict, "invoice number already exists")
	ErrNoActiveMembership     = wrapSentinel(ErrPreconditionFailed, "member has no active membership")
)

type sentinelError struct {
	base error
	msg  string
}

func (e *sentinelError) Error() string { return e.msg }
func (e *sentinelError) Unwrap() error { return e.base }

func wrapSentinel(base error, msg string) error {
	return &sentinelError{base: base, msg: msg}
}
