package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, duration time.Duration) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewTrackingID(), kernel.NewUUID(), at(9, 0), duration)
	require.NoError(t, err)
	return o
}

func TestSlotAllocator_Allocate(t *testing.T) {
	driverID := kernel.NewUUID()
	allocator := services.NewSlotAllocator()
	blocks := []*availability.Block{block(t, driverID, at(9, 0), at(17, 0))}
	busy := []kernel.Interval{interval(t, at(10, 0), at(11, 0))}

	t.Run("should book estimated duration from slot start", func(t *testing.T) {
		o := newOrder(t, 45*time.Minute)

		booking, err := allocator.Allocate(o, interval(t, at(11, 0), at(12, 0)), blocks, busy)

		require.NoError(t, err)
		assert.True(t, booking.IsEqual(interval(t, at(11, 0), at(11, 45))))
	})

	t.Run("should reject slot crossing a booking", func(t *testing.T) {
		o := newOrder(t, time.Hour)

		_, err := allocator.Allocate(o, interval(t, at(9, 30), at(10, 30)), blocks, busy)

		require.ErrorIs(t, err, services.ErrSlotUnavailable)
	})

	t.Run("should reject slot shorter than estimated duration", func(t *testing.T) {
		o := newOrder(t, 2*time.Hour)

		_, err := allocator.Allocate(o, interval(t, at(12, 0), at(13, 0)), blocks, busy)

		require.ErrorIs(t, err, services.ErrSlotUnavailable)
	})

	t.Run("should reject slot outside availability", func(t *testing.T) {
		o := newOrder(t, time.Hour)

		_, err := allocator.Allocate(o, interval(t, at(16, 30), at(17, 30)), blocks, busy)

		require.ErrorIs(t, err, services.ErrSlotUnavailable)
	})

	t.Run("should reject when driver has no blocks", func(t *testing.T) {
		o := newOrder(t, time.Hour)

		_, err := allocator.Allocate(o, interval(t, at(12, 0), at(13, 0)), nil, nil)

		require.ErrorIs(t, err, services.ErrSlotUnavailable)
	})

	t.Run("should reject unconstructed order", func(t *testing.T) {
		_, err := allocator.Allocate(&order.Order{}, interval(t, at(12, 0), at(13, 0)), blocks, busy)

		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})
}
