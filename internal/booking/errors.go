// Package booking hosts the admission workflow and the booking
// lifecycle state machine.  It owns the decision of whether a request
// can be admitted without double-booking a table and which status
// transitions are legal afterwards.
package booking

import "errors"

// Sentinel errors returned by the service.  Handlers translate these
// into transport responses; nothing in this package is ever swallowed.
var (
	// ErrValidation marks caller-fixable input problems such as a
	// non-positive party size or an inverted time window.  Retrying
	// without changing the request cannot help.
	ErrValidation = errors.New("validation error")

	// ErrLockContention means the admission lease could not be taken
	// within the retry budget.  Transient; the client should retry the
	// whole request after a delay.
	ErrLockContention = errors.New("could not acquire booking lock")

	// ErrNoAvailability means no suitable table is free for the
	// requested window.  Terminal for this request.
	ErrNoAvailability = errors.New("no table available")

	// ErrAlreadyCancelled is returned when cancelling a booking that
	// is already CANCELLED.  The second cancel is rejected, not
	// silently accepted.
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrInvalidTransition covers every other illegal status move,
	// e.g. confirming a CANCELLED or already-CONFIRMED booking.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound is returned when the referenced booking does not
	// exist.
	ErrNotFound = errors.New("booking not found")
)
