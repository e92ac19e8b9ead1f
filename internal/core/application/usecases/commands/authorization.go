package commands

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

func forbidden(actor kernel.Actor, action string) error {
	return fmt.Errorf("%w: %s may not %s", ErrForbidden, actor.Role(), action)
}

// authorizeTransition enforces who may record an explicit status change.
// Dispatchers may record any of them, the assigned driver its own progress,
// and the system may cancel.
func authorizeTransition(actor kernel.Actor, o *order.Order, target order.Status) error {
	switch {
	case actor.Is(kernel.RoleDispatcher):
		return nil
	case actor.Is(kernel.RoleDriver) && o.IsAssignedTo(actor.ID()) &&
		(target == order.TruckLeftWarehouse || target == order.ArrivedAtPickup):
		return nil
	case actor.Is(kernel.RoleSystem) && target == order.Cancelled:
		return nil
	default:
		return forbidden(actor, "move an order to "+target.String())
	}
}

func authorizeSchedule(actor kernel.Actor, driverID kernel.UUID) error {
	if actor.Is(kernel.RoleDispatcher) || actor.IsDriver(driverID) {
		return nil
	}
	return forbidden(actor, "manage the availability of driver "+driverID.String())
}

func authorizeClientOf(actor kernel.Actor, clientID kernel.UUID, action string) error {
	if actor.Is(kernel.RoleDispatcher) || (actor.Is(kernel.RoleClient) && actor.ID().IsEqual(clientID)) {
		return nil
	}
	return forbidden(actor, action)
}
