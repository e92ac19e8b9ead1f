package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"
)

// AddAvailabilityBlockCommandHandler stores availability blocks. Blocks of the same
// driver may overlap; the free-slot computation keeps them apart.
type AddAvailabilityBlockCommandHandler struct {
	uowFactory AvailabilityUoWFactory
}

func NewAddAvailabilityBlockCommandHandler(uowFactory AvailabilityUoWFactory) AddAvailabilityBlockCommandHandler {
	return AddAvailabilityBlockCommandHandler{uowFactory: uowFactory}
}

func (h AddAvailabilityBlockCommandHandler) Handle(
	ctx context.Context,
	cmd AddAvailabilityBlockCommand,
) (*availability.Block, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := authorizeSchedule(cmd.Actor(), cmd.DriverID()); err != nil {
		return nil, err
	}

	block, err := availability.NewBlock(kernel.NewUUID(), cmd.DriverID(), cmd.Interval(), cmd.Label())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.AvailabilityRepository().Add(ctx, block); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return block, nil
}
