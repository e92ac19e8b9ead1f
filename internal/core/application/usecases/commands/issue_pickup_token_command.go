package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrIssuePickupTokenCommandIsNotConstructed = errors.New(
	"IssuePickupTokenCommand must be created via NewIssuePickupTokenCommand constructor",
)

// IssuePickupTokenCommand asks for the payload the client shows to the driver.
type IssuePickupTokenCommand struct {
	actor      kernel.Actor
	trackingID kernel.TrackingID

	guard guard.ConstructorGuard
}

func NewIssuePickupTokenCommand(actor kernel.Actor, trackingID kernel.TrackingID) (IssuePickupTokenCommand, error) {
	if err := errors.Join(actor.Validate(), trackingID.Validate()); err != nil {
		return IssuePickupTokenCommand{}, err
	}

	return IssuePickupTokenCommand{
		actor:      actor,
		trackingID: trackingID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c IssuePickupTokenCommand) Validate() error {
	return c.guard.Validate(ErrIssuePickupTokenCommandIsNotConstructed)
}

func (c IssuePickupTokenCommand) Actor() kernel.Actor {
	return c.actor
}

func (c IssuePickupTokenCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}
