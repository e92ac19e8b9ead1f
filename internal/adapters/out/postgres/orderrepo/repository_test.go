package orderrepo_test

import (
	"fmt"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", kernel.NewUUID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&orderrepo.OrderDTO{}))
	return db
}

func newRepository(t *testing.T) (*orderrepo.GormOrderRepository, *gorm.DB) {
	t.Helper()
	db := setupOrdersTestDB(t)
	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything).Return()
	return orderrepo.NewGormOrderRepository(db, tracker), db
}

func newOrder(t *testing.T, pickupAt time.Time, d time.Duration) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewTrackingID(), kernel.NewUUID(), pickupAt, d)
	require.NoError(t, err)
	return o
}

func restoreOrder(t *testing.T, status order.Status, driverID *kernel.UUID, pickupAt time.Time, d time.Duration) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Snapshot{
		ID:                kernel.NewUUID(),
		TrackingID:        kernel.NewTrackingID(),
		ClientID:          kernel.NewUUID(),
		DriverID:          driverID,
		PickupAt:          pickupAt,
		EstimatedDuration: d,
		Status:            status,
		Version:           1,
	})
	require.NoError(t, err)
	return o
}

func window(t *testing.T, from, to time.Time) kernel.Interval {
	t.Helper()
	i, err := kernel.NewInterval(from, to)
	require.NoError(t, err)
	return i
}

func TestGormOrderRepository_AddAndGet(t *testing.T) {
	ctx := t.Context()
	repo, _ := newRepository(t)
	o := newOrder(t, at(10, 0), 90*time.Minute)

	require.NoError(t, repo.Add(ctx, o))

	byID, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	byTracking, err := repo.GetByTrackingID(ctx, o.TrackingID())
	require.NoError(t, err)

	for _, got := range []*order.Order{byID, byTracking} {
		assert.True(t, o.IsEqual(got))
		assert.Equal(t, o.TrackingID(), got.TrackingID())
		assert.Equal(t, o.ClientID(), got.ClientID())
		assert.True(t, o.PickupAt().Equal(got.PickupAt()))
		assert.Equal(t, 90*time.Minute, got.EstimatedDuration())
		assert.Equal(t, order.Placed, got.Status())
		assert.Nil(t, got.Driver())
		assert.Equal(t, int64(1), got.Version())
	}
}

func TestGormOrderRepository_AddDuplicateTrackingID(t *testing.T) {
	ctx := t.Context()
	repo, _ := newRepository(t)

	first := newOrder(t, at(10, 0), time.Hour)
	require.NoError(t, repo.Add(ctx, first))

	clash, err := order.NewOrder(kernel.NewUUID(), first.TrackingID(), kernel.NewUUID(), at(11, 0), time.Hour)
	require.NoError(t, err)

	err = repo.Add(ctx, clash)
	require.ErrorIs(t, err, ports.ErrTrackingIDTaken)
}

func TestGormOrderRepository_GetMissing(t *testing.T) {
	ctx := t.Context()
	repo, _ := newRepository(t)

	_, err := repo.Get(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	_, err = repo.GetByTrackingID(ctx, kernel.NewTrackingID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGormOrderRepository_UpdateComparesVersion(t *testing.T) {
	ctx := t.Context()
	repo, _ := newRepository(t)
	o := newOrder(t, at(10, 0), time.Hour)
	require.NoError(t, repo.Add(ctx, o))

	first, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)

	driverID := kernel.NewUUID()
	_, err = first.ApplyTransition(nil, order.Transition{
		Target:   order.DriverAssigned,
		Actor:    kernel.SystemActor(),
		DriverID: &driverID,
		Slot:     window(t, at(11, 0), at(12, 0)),
	}, day)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, int64(2), first.Version())

	_, err = second.ApplyTransition(nil, order.Transition{
		Target: order.Cancelled,
		Actor:  kernel.SystemActor(),
		Reason: "duplicate",
	}, day)
	require.NoError(t, err)

	err = repo.Update(ctx, second)
	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	assert.Equal(t, int64(1), second.Version())

	stored, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.DriverAssigned, stored.Status())
	assert.True(t, stored.IsAssignedTo(driverID))
	assert.True(t, at(11, 0).Equal(stored.PickupAt()))
	assert.Equal(t, int64(2), stored.Version())
}

func TestGormOrderRepository_UpdateClearsDriver(t *testing.T) {
	ctx := t.Context()
	repo, _ := newRepository(t)

	driverID := kernel.NewUUID()
	o := restoreOrder(t, order.DriverAssigned, &driverID, at(10, 0), time.Hour)
	require.NoError(t, repo.Add(ctx, o))

	_, err := o.ApplyTransition(nil, order.Transition{
		Target:               order.Cancelled,
		Actor:                kernel.SystemActor(),
		Reason:               "no driver availability",
		NoDriverAvailability: true,
	}, day)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, o))

	stored, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Nil(t, stored.Driver())
	assert.Equal(t, "no driver availability", stored.CancelReason())
	assert.True(t, stored.CanBeRescheduled())
}

func TestGormOrderRepository_UpdateMissing(t *testing.T) {
	repo, _ := newRepository(t)

	err := repo.Update(t.Context(), newOrder(t, at(10, 0), time.Hour))

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGormOrderRepository_ListBookedForDriver(t *testing.T) {
	ctx := t.Context()
	repo, _ := newRepository(t)

	driverID := kernel.NewUUID()
	otherDriver := kernel.NewUUID()

	morning := restoreOrder(t, order.DriverAssigned, &driverID, at(10, 0), time.Hour)
	afternoon := restoreOrder(t, order.ArrivedAtPickup, &driverID, at(14, 0), 2*time.Hour)
	delivered := restoreOrder(t, order.Delivered, &driverID, at(8, 0), time.Hour)
	lateNight := restoreOrder(t, order.TruckLeftWarehouse, &driverID, at(23, 30), time.Hour)
	nextDay := restoreOrder(t, order.DriverAssigned, &driverID, at(24+9, 0), time.Hour)
	foreign := restoreOrder(t, order.DriverAssigned, &otherDriver, at(12, 0), time.Hour)
	unassigned := newOrder(t, at(12, 0), time.Hour)

	for _, o := range []*order.Order{afternoon, nextDay, morning, delivered, lateNight, foreign, unassigned} {
		require.NoError(t, repo.Add(ctx, o))
	}

	booked, err := repo.ListBookedForDriver(ctx, driverID, window(t, day, day.Add(24*time.Hour)))
	require.NoError(t, err)

	require.Len(t, booked, 3)
	assert.True(t, morning.IsEqual(booked[0]))
	assert.True(t, afternoon.IsEqual(booked[1]))
	assert.True(t, lateNight.IsEqual(booked[2]))
}

func TestGormOrderRepository_ListBookedForDriver_BookingSpillingIntoWindow(t *testing.T) {
	ctx := t.Context()
	repo, _ := newRepository(t)

	driverID := kernel.NewUUID()
	overnight := restoreOrder(t, order.DriverAssigned, &driverID, at(-1, 0), 2*time.Hour)
	require.NoError(t, repo.Add(ctx, overnight))

	booked, err := repo.ListBookedForDriver(ctx, driverID, window(t, day, day.Add(24*time.Hour)))
	require.NoError(t, err)
	require.Len(t, booked, 1)

	busy, ok := booked[0].BusyInterval()
	require.True(t, ok)
	assert.True(t, at(1, 0).Equal(busy.End()))
}

func TestGormOrderRepository_ListPlacedBefore(t *testing.T) {
	ctx := t.Context()
	repo, _ := newRepository(t)

	driverID := kernel.NewUUID()
	oldest := newOrder(t, at(6, 0), time.Hour)
	old := newOrder(t, at(8, 0), time.Hour)
	older := newOrder(t, at(7, 0), time.Hour)
	future := newOrder(t, at(13, 0), time.Hour)
	assigned := restoreOrder(t, order.DriverAssigned, &driverID, at(6, 0), time.Hour)

	for _, o := range []*order.Order{old, future, oldest, assigned, older} {
		require.NoError(t, repo.Add(ctx, o))
	}

	placed, err := repo.ListPlacedBefore(ctx, at(12, 0), 2)
	require.NoError(t, err)

	require.Len(t, placed, 2)
	assert.True(t, oldest.IsEqual(placed[0]))
	assert.True(t, older.IsEqual(placed[1]))

	_, err = repo.ListPlacedBefore(ctx, at(12, 0), 0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGormOrderRepository_TracksWrittenAggregates(t *testing.T) {
	ctx := t.Context()
	db := setupOrdersTestDB(t)
	tracker := new(MockAggregateTracker)
	repo := orderrepo.NewGormOrderRepository(db, tracker)

	o := newOrder(t, at(10, 0), time.Hour)
	tracker.On("TrackAggregate", o.ID(), o).Return().Once()

	require.NoError(t, repo.Add(ctx, o))

	tracker.AssertExpectations(t)
}
