package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmPickupCommandIsNotConstructed = errors.New(
	"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
)

// ConfirmPickupCommand carries a scanned pickup payload and the driver who scanned it.
// The payload is untrusted: anything, including an empty string, is accepted here
// and judged by the handler.
type ConfirmPickupCommand struct {
	actor            kernel.Actor
	scanningDriverID kernel.UUID
	payload          string

	guard guard.ConstructorGuard
}

func NewConfirmPickupCommand(actor kernel.Actor, scanningDriverID kernel.UUID, payload string) (ConfirmPickupCommand, error) {
	if err := errors.Join(actor.Validate(), scanningDriverID.Validate()); err != nil {
		return ConfirmPickupCommand{}, err
	}

	return ConfirmPickupCommand{
		actor:            actor,
		scanningDriverID: scanningDriverID,
		payload:          strings.TrimSpace(payload),
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}

func (c ConfirmPickupCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ConfirmPickupCommand) ScanningDriverID() kernel.UUID {
	return c.scanningDriverID
}

func (c ConfirmPickupCommand) Payload() string {
	return c.payload
}
