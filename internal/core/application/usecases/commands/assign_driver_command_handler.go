package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/jinzhu/now"
)

// AssignDriverCommandHandler commits driver assignments without double-booking.
//
// The driver's schedule version is read before anything else and bumped with a
// compare-and-swap right before commit. Two dispatchers racing for the same
// driver therefore both read bookings, but only the first to bump commits; the
// other gets ErrSlotConflict and nothing it did is kept.
type AssignDriverCommandHandler struct {
	uowFactory AssignmentUoWFactory
	resolver   services.BookingResolver
	allocator  services.SlotAllocator
	metrics    Metrics
}

func NewAssignDriverCommandHandler(uowFactory AssignmentUoWFactory, metrics Metrics) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		resolver:   services.NewBookingResolver(),
		allocator:  services.NewSlotAllocator(),
		metrics:    metricsOrNoop(metrics),
	}
}

// Handle re-reads the driver's availability and bookings, verifies the slot still
// fits and records driver_assigned. Only dispatchers may assign.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if !cmd.Actor().Is(kernel.RoleDispatcher) {
		return nil, forbidden(cmd.Actor(), "assign drivers")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	schedules := uow.DriverScheduleRepository()
	orders := uow.OrderRepository()
	statusLog := uow.StatusLogRepository()

	version, err := schedules.Lock(ctx, cmd.DriverID())
	if err != nil {
		return nil, err
	}

	o, err := orders.GetByTrackingID(ctx, cmd.TrackingID())
	if err != nil {
		return nil, err
	}

	latest, err := statusLog.Latest(ctx, o.ID())
	if err != nil {
		return nil, err
	}

	window, err := scheduleWindow(cmd.Slot())
	if err != nil {
		return nil, err
	}

	blocks, err := uow.AvailabilityRepository().ListByDriver(ctx, cmd.DriverID(), window)
	if err != nil {
		return nil, err
	}

	booked, err := orders.ListBookedForDriver(ctx, cmd.DriverID(), window)
	if err != nil {
		return nil, err
	}

	orderID := o.ID()
	busy := h.resolver.Resolve(booked, &orderID)

	if _, err = h.allocator.Allocate(o, cmd.Slot(), blocks, busy); err != nil {
		if errors.Is(err, services.ErrSlotUnavailable) {
			return nil, h.conflict(err)
		}
		return nil, err
	}

	driverID := cmd.DriverID()
	entry, err := o.ApplyTransition(latest, order.Transition{
		Target:   order.DriverAssigned,
		Actor:    cmd.Actor(),
		DriverID: &driverID,
		Slot:     cmd.Slot(),
	}, time.Now())
	if err != nil {
		return nil, err
	}

	if err = schedules.Bump(ctx, cmd.DriverID(), version); err != nil {
		return nil, h.conflictOr(err)
	}

	if err = persistTransition(ctx, orders, statusLog, o, entry); err != nil {
		return nil, h.conflictOr(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.ObserveTransition(order.DriverAssigned.String())
	return o, nil
}

func (h AssignDriverCommandHandler) conflict(cause error) error {
	h.metrics.IncSlotConflict()
	return fmt.Errorf("%w: %v", ErrSlotConflict, cause)
}

func (h AssignDriverCommandHandler) conflictOr(err error) error {
	if isConcurrentWrite(err) {
		return h.conflict(err)
	}
	return err
}

// scheduleWindow spans the UTC calendar days the slot touches.
func scheduleWindow(slot kernel.Interval) (kernel.Interval, error) {
	return kernel.NewInterval(
		now.With(slot.Start()).BeginningOfDay(),
		now.With(slot.End()).EndOfDay(),
	)
}
