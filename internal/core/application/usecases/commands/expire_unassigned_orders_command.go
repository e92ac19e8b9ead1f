package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrExpireUnassignedOrdersCommandIsNotConstructed = errors.New(
	"ExpireUnassignedOrdersCommand must be created via NewExpireUnassignedOrdersCommand constructor",
)

// ExpireUnassignedOrdersCommand cancels orders that are still waiting for a driver
// although their pickup time passed before cutoff.
type ExpireUnassignedOrdersCommand struct {
	cutoff    time.Time
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireUnassignedOrdersCommand(cutoff time.Time, batchSize int) (ExpireUnassignedOrdersCommand, error) {
	if cutoff.IsZero() {
		return ExpireUnassignedOrdersCommand{}, errs.NewValueIsRequiredError("cutoff")
	}
	if batchSize <= 0 {
		return ExpireUnassignedOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"batch size",
			fmt.Errorf("%d is not greater than 0", batchSize),
		)
	}

	return ExpireUnassignedOrdersCommand{
		cutoff:    cutoff,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireUnassignedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrExpireUnassignedOrdersCommandIsNotConstructed)
}

func (c ExpireUnassignedOrdersCommand) Cutoff() time.Time {
	return c.cutoff
}

func (c ExpireUnassignedOrdersCommand) BatchSize() int {
	return c.batchSize
}
