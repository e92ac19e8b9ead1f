package commands

import (
	"context"

	"fulfillment/internal/pkg/errs"
)

type DeleteAvailabilityBlockCommandHandler struct {
	uowFactory AvailabilityUoWFactory
}

func NewDeleteAvailabilityBlockCommandHandler(uowFactory AvailabilityUoWFactory) DeleteAvailabilityBlockCommandHandler {
	return DeleteAvailabilityBlockCommandHandler{uowFactory: uowFactory}
}

// Handle deletes the block. A block of another driver is reported as not found.
func (h DeleteAvailabilityBlockCommandHandler) Handle(ctx context.Context, cmd DeleteAvailabilityBlockCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := authorizeSchedule(cmd.Actor(), cmd.DriverID()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.AvailabilityRepository()

	block, err := repo.Get(ctx, cmd.BlockID())
	if err != nil {
		return err
	}
	if !block.BelongsTo(cmd.DriverID()) {
		return errs.NewObjectNotFoundError("availability block", cmd.BlockID().String())
	}

	if err = repo.Delete(ctx, block.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
