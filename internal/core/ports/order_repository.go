// Package ports defines the contracts between the fulfillment core and its
// infrastructure: storage, the pickup token codec, the nonce registry and the
// client notification transport.
package ports

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// ErrTrackingIDTaken is returned by OrderRepository.Add when the tracking id is
// already used by another order.
var ErrTrackingIDTaken = errors.New("tracking id is already taken")

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. A duplicate tracking id yields ErrTrackingIDTaken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update performs a compare-and-swap on the order version and bumps it on
	// success. A concurrent change yields errs.VersionIsInvalidError.
	Update(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	GetByTrackingID(ctx context.Context, trackingID kernel.TrackingID) (*order.Order, error)

	// ListBookedForDriver returns the orders holding a booking of driverID that
	// overlaps window. This is the committed side of a driver's schedule.
	//
	// Example:
	//   orders, err := repo.ListBookedForDriver(ctx, driverID, day)
	//   if err != nil {
	//       return fmt.Errorf("failed to read bookings: %w", err)
	//   }
	//   busy := services.NewBookingResolver().Resolve(orders, nil)
	ListBookedForDriver(ctx context.Context, driverID kernel.UUID, window kernel.Interval) ([]*order.Order, error)

	// ListPlacedBefore returns up to limit orders still waiting for a driver whose
	// pickup time is before cutoff, oldest first.
	ListPlacedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)
}
