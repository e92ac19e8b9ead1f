package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrDeleteAvailabilityBlockCommandIsNotConstructed = errors.New(
	"DeleteAvailabilityBlockCommand must be created via NewDeleteAvailabilityBlockCommand constructor",
)

// DeleteAvailabilityBlockCommand withdraws a block. Assignments already made into
// the block stay in place.
type DeleteAvailabilityBlockCommand struct { //nolint:recvcheck //using for validation
	actor    kernel.Actor
	driverID kernel.UUID
	blockID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteAvailabilityBlockCommand(
	actor kernel.Actor,
	driverID kernel.UUID,
	blockID kernel.UUID,
) (DeleteAvailabilityBlockCommand, error) {
	if err := errors.Join(actor.Validate(), driverID.Validate(), blockID.Validate()); err != nil {
		return DeleteAvailabilityBlockCommand{}, err
	}

	return DeleteAvailabilityBlockCommand{
		actor:    actor,
		driverID: driverID,
		blockID:  blockID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteAvailabilityBlockCommand) Validate() error {
	return c.guard.Validate(ErrDeleteAvailabilityBlockCommandIsNotConstructed)
}

func (c DeleteAvailabilityBlockCommand) Actor() kernel.Actor {
	return c.actor
}

func (c DeleteAvailabilityBlockCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c DeleteAvailabilityBlockCommand) BlockID() kernel.UUID {
	return c.blockID
}
