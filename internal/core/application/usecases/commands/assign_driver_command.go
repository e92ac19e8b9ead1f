package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand books a driver for an order in a slot the dispatcher picked
// from the driver's free slots.
//
// Example:
//
//	cmd, err := NewAssignDriverCommand(dispatcher, trackingID, driverID, slot)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrSlotConflict) {
//	    // slot no longer available, query free slots again
//	}
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	trackingID kernel.TrackingID
	driverID   kernel.UUID
	slot       kernel.Interval

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(
	actor kernel.Actor,
	trackingID kernel.TrackingID,
	driverID kernel.UUID,
	slot kernel.Interval,
) (AssignDriverCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		trackingID.Validate(),
		driverID.Validate(),
		slot.Validate(),
	); err != nil {
		return AssignDriverCommand{}, err
	}

	return AssignDriverCommand{
		actor:      actor,
		trackingID: trackingID,
		driverID:   driverID,
		slot:       slot,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AssignDriverCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}

func (c AssignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c AssignDriverCommand) Slot() kernel.Interval {
	return c.slot
}
