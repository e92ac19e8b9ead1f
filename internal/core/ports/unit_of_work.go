package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories returned before Begin, or after Commit/Rollback, run outside any
// transaction, which is what read-only queries use.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	StatusLogRepository() StatusLogRepository
	AvailabilityRepository() AvailabilityRepository
	DriverScheduleRepository() DriverScheduleRepository
}
