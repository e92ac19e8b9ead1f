package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickup"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByTrackingID(ctx context.Context, trackingID kernel.TrackingID) (*order.Order, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListBookedForDriver(
	ctx context.Context,
	driverID kernel.UUID,
	window kernel.Interval,
) ([]*order.Order, error) {
	args := m.Called(ctx, driverID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListPlacedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockStatusLogRepository struct{ mock.Mock }

func (m *MockStatusLogRepository) Append(ctx context.Context, entry *order.StatusLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStatusLogRepository) Latest(ctx context.Context, orderID kernel.UUID) (*order.StatusLogEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.StatusLogEntry), args.Error(1)
}

func (m *MockStatusLogRepository) FindLatestWithStatus(
	ctx context.Context,
	orderID kernel.UUID,
	status order.Status,
) (*order.StatusLogEntry, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.StatusLogEntry), args.Error(1)
}

func (m *MockStatusLogRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.StatusLogEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.StatusLogEntry), args.Error(1)
}

type MockAvailabilityRepository struct{ mock.Mock }

func (m *MockAvailabilityRepository) Add(ctx context.Context, block *availability.Block) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) Get(ctx context.Context, id kernel.UUID) (*availability.Block, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availability.Block), args.Error(1)
}

func (m *MockAvailabilityRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) ListByDriver(
	ctx context.Context,
	driverID kernel.UUID,
	window kernel.Interval,
) ([]*availability.Block, error) {
	args := m.Called(ctx, driverID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*availability.Block), args.Error(1)
}

type MockDriverScheduleRepository struct{ mock.Mock }

func (m *MockDriverScheduleRepository) Lock(ctx context.Context, driverID kernel.UUID) (int64, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDriverScheduleRepository) Bump(ctx context.Context, driverID kernel.UUID, expected int64) error {
	args := m.Called(ctx, driverID, expected)
	return args.Error(0)
}

// MockUoW satisfies every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) StatusLogRepository() ports.StatusLogRepository {
	args := m.Called()
	return args.Get(0).(ports.StatusLogRepository)
}

func (m *MockUoW) AvailabilityRepository() ports.AvailabilityRepository {
	args := m.Called()
	return args.Get(0).(ports.AvailabilityRepository)
}

func (m *MockUoW) DriverScheduleRepository() ports.DriverScheduleRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverScheduleRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockAvailabilityUoWFactory struct{ mock.Mock }

func (m *MockAvailabilityUoWFactory) Create() commands.AvailabilityUoW {
	args := m.Called()
	return args.Get(0).(commands.AvailabilityUoW)
}

type MockAssignmentUoWFactory struct{ mock.Mock }

func (m *MockAssignmentUoWFactory) Create() commands.AssignmentUoW {
	args := m.Called()
	return args.Get(0).(commands.AssignmentUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.StatusNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockCodec struct{ mock.Mock }

func (m *MockCodec) Encode(token pickup.Token) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockCodec) Decode(payload string, now time.Time) (pickup.Token, error) {
	args := m.Called(payload, now)
	return args.Get(0).(pickup.Token), args.Error(1)
}

type MockNonceRegistry struct{ mock.Mock }

func (m *MockNonceRegistry) Register(ctx context.Context, nonce string, orderID kernel.UUID, ttl time.Duration) error {
	args := m.Called(ctx, nonce, orderID, ttl)
	return args.Error(0)
}

func (m *MockNonceRegistry) Resolve(ctx context.Context, nonce string) (kernel.UUID, error) {
	args := m.Called(ctx, nonce)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) ObserveTransition(status string) {
	m.Called(status)
}

func (m *MockMetrics) IncSlotConflict() {
	m.Called()
}

func (m *MockMetrics) IncPickupRejection(reason string) {
	m.Called(reason)
}

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func actor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	return actorWithID(t, kernel.NewUUID(), role)
}

func actorWithID(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func interval(t *testing.T, from, to time.Time) kernel.Interval {
	t.Helper()
	i, err := kernel.NewInterval(from, to)
	require.NoError(t, err)
	return i
}

// restoreOrder builds an order as it would be loaded from storage.
func restoreOrder(t *testing.T, status order.Status, driverID *kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Snapshot{
		ID:                kernel.NewUUID(),
		TrackingID:        kernel.NewTrackingID(),
		ClientID:          kernel.NewUUID(),
		DriverID:          driverID,
		PickupAt:          at(10, 0),
		EstimatedDuration: time.Hour,
		Status:            status,
		Version:           3,
	})
	require.NoError(t, err)
	return o
}

func logEntry(t *testing.T, o *order.Order, sequence int64, status order.Status) *order.StatusLogEntry {
	t.Helper()
	e, err := order.NewStatusLogEntry(kernel.NewUUID(), o.ID(), sequence, status, status.String(), kernel.SystemActor(), day)
	require.NoError(t, err)
	return e
}
