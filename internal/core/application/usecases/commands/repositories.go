// Package commands contains business operations that modify system state.
// All commands follow a consistent pattern: validation, authorization,
// transaction management and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	StatusLogRepoFactory interface {
		StatusLogRepository() ports.StatusLogRepository
	}

	AvailabilityRepoFactory interface {
		AvailabilityRepository() ports.AvailabilityRepository
	}

	DriverScheduleRepoFactory interface {
		DriverScheduleRepository() ports.DriverScheduleRepository
	}

	// OrderUoW manages transactions that move an order through its lifecycle.
	// The order row and its status log always change together.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		StatusLogRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// AvailabilityUoW manages transactions over a driver's availability blocks.
	AvailabilityUoW interface {
		TxManager
		AvailabilityRepoFactory
	}

	AvailabilityUoWFactory interface {
		Create() AvailabilityUoW
	}

	// AssignmentUoW spans everything a driver assignment reads and writes.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   version, err := uow.DriverScheduleRepository().Lock(ctx, driverID)
	//   blocks, err := uow.AvailabilityRepository().ListByDriver(ctx, driverID, day)
	//   // ... verify the slot, apply the transition
	//   err = uow.DriverScheduleRepository().Bump(ctx, driverID, version)
	//
	//   err = uow.Commit(ctx)
	AssignmentUoW interface {
		TxManager
		OrderRepoFactory
		StatusLogRepoFactory
		AvailabilityRepoFactory
		DriverScheduleRepoFactory
	}

	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}
)
