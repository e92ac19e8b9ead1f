package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand records an explicit operator status change such as
// truck_left_warehouse, delivered, cancelled or rescheduled.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	actor                kernel.Actor
	trackingID           kernel.TrackingID
	target               order.Status
	reason               string
	noDriverAvailability bool
	pickupAt             time.Time

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand builds the command. reason is required by the order
// for cancellations; pickupAt optionally moves the pickup of a rescheduled order.
func NewTransitionOrderCommand(
	actor kernel.Actor,
	trackingID kernel.TrackingID,
	target order.Status,
	reason string,
	noDriverAvailability bool,
	pickupAt time.Time,
) (TransitionOrderCommand, error) {
	if err := errors.Join(actor.Validate(), trackingID.Validate(), target.Validate()); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		actor:                actor,
		trackingID:           trackingID,
		target:               target,
		reason:               reason,
		noDriverAvailability: noDriverAvailability,
		pickupAt:             pickupAt,
		guard:                guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c TransitionOrderCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}

func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

func (c TransitionOrderCommand) Reason() string {
	return c.reason
}

func (c TransitionOrderCommand) NoDriverAvailability() bool {
	return c.noDriverAvailability
}

func (c TransitionOrderCommand) PickupAt() time.Time {
	return c.pickupAt
}
