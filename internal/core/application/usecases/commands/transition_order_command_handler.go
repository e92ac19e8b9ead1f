package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/logger"
)

// TransitionOrderCommandHandler applies explicit status changes and notifies the
// client after delivered, cancelled and rescheduled.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	metrics    Metrics
	log        *logger.Logger
}

func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	metrics Metrics,
	log *logger.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		metrics:    metricsOrNoop(metrics),
		log:        log,
	}
}

// Handle records the transition. driver_assigned and items_being_delivered are
// refused with ErrTransitionRequiresProtocol. A concurrent writer on the same
// order makes exactly one of the two calls fail with errs.VersionIsInvalidError.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.StatusLogEntry, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if cmd.Target() == order.DriverAssigned || cmd.Target() == order.ItemsBeingDelivered {
		return nil, fmt.Errorf("%w: %s", ErrTransitionRequiresProtocol, cmd.Target())
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()

	o, err := orders.GetByTrackingID(ctx, cmd.TrackingID())
	if err != nil {
		return nil, err
	}

	if err = authorizeTransition(cmd.Actor(), o, cmd.Target()); err != nil {
		return nil, err
	}

	entry, err := recordTransition(ctx, orders, uow.StatusLogRepository(), o, order.Transition{
		Target:               cmd.Target(),
		Actor:                cmd.Actor(),
		Reason:               cmd.Reason(),
		NoDriverAvailability: cmd.NoDriverAvailability(),
		PickupAt:             cmd.PickupAt(),
	}, time.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.ObserveTransition(entry.Status().String())
	notifyClient(ctx, h.notifier, h.log, o, entry)

	return entry, nil
}

// notifyClient hands terminal transitions to the notifier. Failures are logged
// and never reach the caller: the transition is already committed.
func notifyClient(
	ctx context.Context,
	notifier ports.Notifier,
	log *logger.Logger,
	o *order.Order,
	entry *order.StatusLogEntry,
) {
	if notifier == nil || !entry.Status().NotifiesClient() {
		return
	}
	if err := notifier.Notify(ctx, notificationFor(o, entry)); err != nil && log != nil {
		log.Error(log.WithField(ctx, "tracking_id", o.TrackingID().String()), "client notification failed", err)
	}
}
