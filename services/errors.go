package services

import "errors"

// Sentinel errors for the timesheet and leave subsystem. Callers match with
// errors.Is; the HTTP layer maps them to response statuses.
var (
	ErrInvalidHours = errors.New("hours must be greater than 0 and at most 24")

	// Entry mutation gate: the entry's week (old or new) is approved.
	ErrWeekApproved = errors.New("approved timesheets cannot be edited")

	// Week state machine conflicts.
	ErrAlreadyApproved = errors.New("approved timesheets cannot be resubmitted")
	ErrNotSubmitted    = errors.New("timesheet must be submitted before approval")
	ErrNotApproved     = errors.New("timesheet is not approved")

	ErrNotFound = errors.New("not found")
	ErrNotOwner = errors.New("entry belongs to another user")

	// Authorization gate failures.
	ErrNotLineManager      = errors.New("only the line manager can approve this")
	ErrLeaveNotLineManager = errors.New("only the line manager can approve this leave")
)

// IsStateConflict reports whether the error is a week state machine
// violation, as opposed to bad input or a missing row.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrWeekApproved) ||
		errors.Is(err, ErrAlreadyApproved) ||
		errors.Is(err, ErrNotSubmitted) ||
		errors.Is(err, ErrNotApproved)
}

// IsForbidden reports whether the error is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotLineManager) ||
		errors.Is(err, ErrLeaveNotLineManager) ||
		errors.Is(err, ErrNotOwner)
}
