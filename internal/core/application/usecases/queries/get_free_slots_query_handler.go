package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/jinzhu/now"
)

type (
	AvailabilityReader interface {
		ListByDriver(ctx context.Context, driverID kernel.UUID, window kernel.Interval) ([]*availability.Block, error)
	}

	BookingReader interface {
		ListBookedForDriver(ctx context.Context, driverID kernel.UUID, window kernel.Interval) ([]*order.Order, error)
	}
)

// GetFreeSlotsQueryHandler computes free slots from declared availability and
// committed bookings. It reads outside of any transaction; the result is advisory
// and re-checked when a driver is assigned.
type GetFreeSlotsQueryHandler struct {
	availability AvailabilityReader
	bookings     BookingReader
	resolver     services.BookingResolver
	computer     services.FreeSlotComputer
}

func NewGetFreeSlotsQueryHandler(availability AvailabilityReader, bookings BookingReader) GetFreeSlotsQueryHandler {
	return GetFreeSlotsQueryHandler{
		availability: availability,
		bookings:     bookings,
		resolver:     services.NewBookingResolver(),
		computer:     services.NewFreeSlotComputer(),
	}
}

// Handle clips the driver's blocks to the requested day, removes the bookings
// overlapping it and drops what is shorter than the minimum duration.
func (h GetFreeSlotsQueryHandler) Handle(ctx context.Context, query GetFreeSlotsQuery) (*GetFreeSlotsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	day, err := dayWindow(query.Day())
	if err != nil {
		return nil, err
	}

	blocks, err := h.availability.ListByDriver(ctx, query.DriverID(), day)
	if err != nil {
		return nil, err
	}

	windows := make([]kernel.Interval, 0, len(blocks))
	for _, b := range blocks {
		if b.Validate() != nil {
			continue
		}
		if clipped, ok := b.Interval().Clip(day); ok {
			windows = append(windows, clipped)
		}
	}

	booked, err := h.bookings.ListBookedForDriver(ctx, query.DriverID(), day)
	if err != nil {
		return nil, err
	}

	intervals := h.computer.ComputeIntervals(windows, h.resolver.Resolve(booked, nil), query.MinDuration())

	slots := make([]FreeSlot, 0, len(intervals))
	for _, slot := range intervals {
		slots = append(slots, FreeSlot{
			Start: slot.Start().In(query.Location()),
			End:   slot.End().In(query.Location()),
		})
	}

	return &GetFreeSlotsQueryResponse{
		DriverID: query.DriverID(),
		Day:      day,
		Slots:    slots,
	}, nil
}

// dayWindow spans local midnight to the next local midnight, which is 23 or 25
// hours long on daylight saving changes.
func dayWindow(day time.Time) (kernel.Interval, error) {
	start := now.With(day).BeginningOfDay()
	end := now.With(start).EndOfDay().Add(time.Nanosecond)
	return kernel.NewInterval(start, end)
}
