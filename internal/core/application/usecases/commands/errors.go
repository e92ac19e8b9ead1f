package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
)

var (
	// ErrSlotConflict means the chosen slot stopped being free before the assignment
	// committed. Nothing was changed; the caller should query free slots again.
	ErrSlotConflict = errors.New("slot no longer available")

	// ErrTransitionRequiresProtocol is returned for statuses that only the assignment
	// or the pickup confirmation may record.
	ErrTransitionRequiresProtocol = errors.New("status can only be reached through its protocol")

	// ErrForbidden is returned when the acting principal may not perform the operation.
	ErrForbidden = errors.New("actor is not allowed to perform this operation")
)

func isConcurrentWrite(err error) bool {
	return errors.Is(err, errs.ErrVersionIsInvalid)
}
