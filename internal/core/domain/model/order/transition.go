package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Transition is a request to move an order to Target.
type Transition struct {
	Target Status
	Actor  kernel.Actor

	// Reason is mandatory for Cancelled and becomes the log description.
	Reason string
	// NoDriverAvailability marks a cancellation that allows a later reschedule.
	NoDriverAvailability bool

	// DriverID and Slot are mandatory for DriverAssigned. The booking starts at Slot.Start.
	DriverID *kernel.UUID
	Slot     kernel.Interval

	// PickupAt optionally moves the pickup time on Rescheduled.
	PickupAt time.Time

	// Description overrides the default log description of non-cancel transitions.
	Description string
}

// ApplyTransition validates t against the order's current status and, on success,
// mutates the order and returns the status log entry to append.
//
// latest is the most recent log entry of the order (nil for an order without
// history). Its status is authoritative and overwrites the cached status before
// any check runs, so a stale cache written by a concurrent writer cannot let an
// illegal edge through. On error nothing but that cached status changes.
//
// Checks run in this order:
//   - terminal orders are refused with ErrAlreadyTerminal
//   - edges outside the lifecycle graph are refused with ErrInvalidEdge
//   - a cancellation without reason is refused with ErrMissingReason
//   - DriverAssigned without a driver and slot is refused with ErrDriverRequired
func (o *Order) ApplyTransition(latest *StatusLogEntry, t Transition, now time.Time) (*StatusLogEntry, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := t.Target.Validate(); err != nil {
		return nil, err
	}
	if err := t.Actor.Validate(); err != nil {
		return nil, err
	}

	current := o.status
	sequence := int64(1)
	if latest != nil {
		if err := latest.Validate(); err != nil {
			return nil, err
		}
		current = latest.Status()
		sequence = latest.Sequence() + 1
	}
	o.status = current

	if current == Delivered || (current == Cancelled && !(t.Target == Rescheduled && o.cancelledForNoDriver)) {
		return nil, newTransitionError(current, t.Target, ErrAlreadyTerminal)
	}
	if !current.CanTransitionTo(t.Target) {
		return nil, newTransitionError(current, t.Target, ErrInvalidEdge)
	}

	description := t.Description
	if description == "" {
		description = defaultDescription(t.Target)
	}

	switch t.Target {
	case Cancelled:
		reason := normalizeReason(t.Reason)
		if reason == "" {
			return nil, newTransitionError(current, t.Target, ErrMissingReason)
		}
		description = reason
	case DriverAssigned:
		if t.DriverID == nil || t.DriverID.Validate() != nil || t.Slot.Validate() != nil {
			return nil, newTransitionError(current, t.Target, ErrDriverRequired)
		}
	default:
		if t.Target.RequiresDriver() && o.driverID == nil {
			return nil, newTransitionError(current, t.Target, ErrDriverRequired)
		}
	}

	entry, err := NewStatusLogEntry(kernel.NewUUID(), o.id, sequence, t.Target, description, t.Actor, now)
	if err != nil {
		return nil, err
	}

	switch t.Target {
	case Cancelled:
		o.driverID = nil
		o.cancelReason = description
		o.cancelledForNoDriver = t.NoDriverAvailability
	case DriverAssigned:
		driverID := *t.DriverID
		o.driverID = &driverID
		o.pickupAt = t.Slot.Start()
	case Rescheduled:
		o.driverID = nil
		if !t.PickupAt.IsZero() {
			o.pickupAt = t.PickupAt.UTC()
		}
	case Placed:
		o.cancelReason = ""
		o.cancelledForNoDriver = false
	}
	o.status = t.Target

	return entry, nil
}

func defaultDescription(s Status) string {
	switch s {
	case Placed:
		return "order placed"
	case DriverAssigned:
		return "driver assigned"
	case TruckLeftWarehouse:
		return "truck left the warehouse"
	case ArrivedAtPickup:
		return "driver arrived at pickup"
	case ItemsBeingDelivered:
		return "pickup confirmed, items are being delivered"
	case Delivered:
		return "order delivered"
	case Rescheduled:
		return "order rescheduled"
	default:
		return s.String()
	}
}
