package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// recordTransition applies t on top of the order's latest log entry and persists
// both the order and the new entry. It must run inside a transaction.
//
// A concurrent writer surfaces as errs.VersionIsInvalidError, either from the
// order compare-and-swap or from the (order, sequence) uniqueness of the log.
func recordTransition(
	ctx context.Context,
	orders ports.OrderRepository,
	statusLog ports.StatusLogRepository,
	o *order.Order,
	t order.Transition,
	now time.Time,
) (*order.StatusLogEntry, error) {
	latest, err := statusLog.Latest(ctx, o.ID())
	if err != nil {
		return nil, err
	}

	entry, err := o.ApplyTransition(latest, t, now)
	if err != nil {
		return nil, err
	}

	return entry, persistTransition(ctx, orders, statusLog, o, entry)
}

func persistTransition(
	ctx context.Context,
	orders ports.OrderRepository,
	statusLog ports.StatusLogRepository,
	o *order.Order,
	entry *order.StatusLogEntry,
) error {
	if err := orders.Update(ctx, o); err != nil {
		return err
	}
	return statusLog.Append(ctx, entry)
}

func notificationFor(o *order.Order, entry *order.StatusLogEntry) ports.StatusNotification {
	return ports.StatusNotification{
		TrackingID:  o.TrackingID().String(),
		ClientID:    o.ClientID().String(),
		Status:      entry.Status().String(),
		Description: entry.Description(),
		OccurredAt:  entry.OccurredAt(),
	}
}
