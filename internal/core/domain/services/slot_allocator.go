package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// ErrSlotUnavailable is returned when the chosen slot no longer fits into any free
// slot of the driver, or is too short for the order.
var ErrSlotUnavailable = errors.New("slot is not available")

// SlotAllocator decides whether an order can be booked into a chosen slot of a
// driver's schedule.
//
// Business rules:
//   - The slot lasts at least the order's estimated duration
//   - The slot lies entirely inside one free slot computed from the driver's
//     blocks and current bookings
//   - The order then occupies [slot.Start, slot.Start+estimated duration)
//   - The order itself must not be part of busy, otherwise a re-assignment would
//     conflict with its own booking
//
// The allocator does not assign anything; the caller applies the DriverAssigned
// transition once Allocate succeeded and persists both in one transaction.
type SlotAllocator struct {
	computer FreeSlotComputer
}

func NewSlotAllocator() SlotAllocator {
	return SlotAllocator{computer: NewFreeSlotComputer()}
}

// Allocate returns the interval the order will occupy on the driver's schedule.
func (a SlotAllocator) Allocate(
	o *order.Order,
	slot kernel.Interval,
	blocks []*availability.Block,
	busy []kernel.Interval,
) (kernel.Interval, error) {
	if err := o.Validate(); err != nil {
		return kernel.Interval{}, err
	}
	if err := slot.Validate(); err != nil {
		return kernel.Interval{}, err
	}

	if slot.Duration() < o.EstimatedDuration() {
		return kernel.Interval{}, fmt.Errorf("%w: %s is shorter than %s", ErrSlotUnavailable, slot, o.EstimatedDuration())
	}

	booking, err := kernel.NewIntervalFromDuration(slot.Start(), o.EstimatedDuration())
	if err != nil {
		return kernel.Interval{}, err
	}

	for _, free := range a.computer.Compute(blocks, busy, o.EstimatedDuration()) {
		if free.Contains(slot) {
			return booking, nil
		}
	}

	return kernel.Interval{}, fmt.Errorf("%w: %s", ErrSlotUnavailable, slot)
}
