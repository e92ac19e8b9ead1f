package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// StatusLogRepository stores the append-only status history of orders.
type StatusLogRepository interface {
	// Append stores entry. Another entry with the same order and sequence yields
	// errs.VersionIsInvalidError: a concurrent writer got there first.
	Append(ctx context.Context, entry *order.StatusLogEntry) error

	// Latest returns the entry with the highest sequence for orderID, or
	// errs.ObjectNotFoundError for an order without history.
	Latest(ctx context.Context, orderID kernel.UUID) (*order.StatusLogEntry, error)

	// FindLatestWithStatus returns the most recent entry of orderID with status,
	// or errs.ObjectNotFoundError.
	FindLatestWithStatus(ctx context.Context, orderID kernel.UUID, status order.Status) (*order.StatusLogEntry, error)

	// ListByOrder returns the full history of orderID ordered by sequence.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.StatusLogEntry, error)
}
