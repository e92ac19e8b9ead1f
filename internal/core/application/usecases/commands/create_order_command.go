package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to place a new delivery order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(actor, clientID, pickupAt, 90*time.Minute)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s placed and awaiting a driver", o.TrackingID())
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor             kernel.Actor
	clientID          kernel.UUID
	pickupAt          time.Time
	estimatedDuration time.Duration

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order data. The estimated duration must lie
// within order.MinEstimatedDuration and order.MaxEstimatedDuration.
func NewCreateOrderCommand(
	actor kernel.Actor,
	clientID kernel.UUID,
	pickupAt time.Time,
	estimatedDuration time.Duration,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setClientID(clientID),
		cmd.setPickupAt(pickupAt),
		cmd.setEstimatedDuration(estimatedDuration),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateOrderCommand) ClientID() kernel.UUID {
	return c.clientID
}

func (c CreateOrderCommand) PickupAt() time.Time {
	return c.pickupAt
}

func (c CreateOrderCommand) EstimatedDuration() time.Duration {
	return c.estimatedDuration
}

func (c *CreateOrderCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	c.clientID = clientID
	return nil
}

func (c *CreateOrderCommand) setPickupAt(pickupAt time.Time) error {
	if pickupAt.IsZero() {
		return errs.NewValueIsRequiredError("pickup time")
	}
	c.pickupAt = pickupAt
	return nil
}

func (c *CreateOrderCommand) setEstimatedDuration(d time.Duration) error {
	if d < order.MinEstimatedDuration || d > order.MaxEstimatedDuration {
		return errs.NewValueIsOutOfRangeError("estimated duration", d, order.MinEstimatedDuration, order.MaxEstimatedDuration)
	}
	c.estimatedDuration = d
	return nil
}
