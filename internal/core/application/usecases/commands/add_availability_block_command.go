package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAddAvailabilityBlockCommandIsNotConstructed = errors.New(
	"AddAvailabilityBlockCommand must be created via NewAddAvailabilityBlockCommand constructor",
)

// AddAvailabilityBlockCommand declares a window during which a driver can be booked.
type AddAvailabilityBlockCommand struct { //nolint:recvcheck //using for validation
	actor    kernel.Actor
	driverID kernel.UUID
	interval kernel.Interval
	label    string

	guard guard.ConstructorGuard
}

func NewAddAvailabilityBlockCommand(
	actor kernel.Actor,
	driverID kernel.UUID,
	interval kernel.Interval,
	label string,
) (AddAvailabilityBlockCommand, error) {
	if err := errors.Join(actor.Validate(), driverID.Validate(), interval.Validate()); err != nil {
		return AddAvailabilityBlockCommand{}, err
	}

	return AddAvailabilityBlockCommand{
		actor:    actor,
		driverID: driverID,
		interval: interval,
		label:    label,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AddAvailabilityBlockCommand) Validate() error {
	return c.guard.Validate(ErrAddAvailabilityBlockCommandIsNotConstructed)
}

func (c AddAvailabilityBlockCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AddAvailabilityBlockCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c AddAvailabilityBlockCommand) Interval() kernel.Interval {
	return c.interval
}

func (c AddAvailabilityBlockCommand) Label() string {
	return c.label
}
