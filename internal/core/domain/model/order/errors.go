package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is the parent kind of every transition refused because of
	// the order's current status.
	ErrInvalidState = errors.New("order is not in a valid state for this transition")

	// ErrInvalidEdge is returned when the target is not a successor of the current status.
	ErrInvalidEdge = fmt.Errorf("%w: edge is not part of the lifecycle", ErrInvalidState)

	// ErrAlreadyTerminal is returned for delivered orders and for cancelled orders
	// that are not eligible for rescheduling.
	ErrAlreadyTerminal = fmt.Errorf("%w: order is already terminal", ErrInvalidState)

	// ErrDriverRequired is returned when a status needing a driver is reached without one.
	ErrDriverRequired = fmt.Errorf("%w: driver is required", ErrInvalidState)

	// ErrMissingReason is returned for a cancellation without a reason.
	ErrMissingReason = errors.New("cancellation requires a reason")
)

// TransitionError describes a refused transition.
type TransitionError struct {
	From Status
	To   Status
	Kind error
}

func newTransitionError(from, to Status, kind error) *TransitionError {
	return &TransitionError{From: from, To: to, Kind: kind}
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s: %v", e.From, e.To, e.Kind)
}

func (e *TransitionError) Unwrap() error {
	return e.Kind
}
