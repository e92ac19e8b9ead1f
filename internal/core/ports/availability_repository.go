package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"
)

// AvailabilityRepository persists the availability blocks drivers declare.
type AvailabilityRepository interface {
	Add(ctx context.Context, block *availability.Block) error

	Get(ctx context.Context, id kernel.UUID) (*availability.Block, error)

	// Delete removes the block. Orders already assigned into it are untouched.
	Delete(ctx context.Context, id kernel.UUID) error

	// ListByDriver returns the blocks of driverID overlapping window, ordered by start.
	ListByDriver(ctx context.Context, driverID kernel.UUID, window kernel.Interval) ([]*availability.Block, error)
}

// DriverScheduleRepository guards a driver's schedule against concurrent
// assignments with a per-driver version.
type DriverScheduleRepository interface {
	// Lock returns the current schedule version of driverID, creating it if needed.
	// Read it before reading bookings.
	Lock(ctx context.Context, driverID kernel.UUID) (int64, error)

	// Bump advances the version if it still equals expected, otherwise it returns
	// errs.VersionIsInvalidError.
	Bump(ctx context.Context, driverID kernel.UUID, expected int64) error
}
