package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/logger"

	"go.uber.org/multierr"
)

// NoDriverAvailabilityReason is recorded on orders cancelled by expiry.
const NoDriverAvailabilityReason = "no driver availability"

// ExpireUnassignedOrdersCommandHandler cancels stale unassigned orders as the
// system actor. The cancellation is flagged so that the order may be rescheduled.
type ExpireUnassignedOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	metrics    Metrics
	log        *logger.Logger
}

func NewExpireUnassignedOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	metrics Metrics,
	log *logger.Logger,
) ExpireUnassignedOrdersCommandHandler {
	return ExpireUnassignedOrdersCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		metrics:    metricsOrNoop(metrics),
		log:        log,
	}
}

// Handle expires one batch and returns how many orders were cancelled. Each order
// is cancelled in its own transaction; orders that moved on concurrently are
// skipped and the remaining failures are combined into the returned error.
func (h ExpireUnassignedOrdersCommandHandler) Handle(ctx context.Context, cmd ExpireUnassignedOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	candidates, err := h.uowFactory.Create().OrderRepository().ListPlacedBefore(ctx, cmd.Cutoff(), cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	var (
		expired int
		result  error
	)
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return expired, multierr.Append(result, ctx.Err())
		}

		err = h.expire(ctx, candidate.ID())
		switch {
		case err == nil:
			expired++
		case errors.Is(err, order.ErrInvalidState) || isConcurrentWrite(err):
			// assigned or cancelled in the meantime
		default:
			result = multierr.Append(result, fmt.Errorf("expire order %s: %w", candidate.TrackingID(), err))
		}
	}

	return expired, result
}

func (h ExpireUnassignedOrdersCommandHandler) expire(ctx context.Context, orderID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()

	o, err := orders.Get(ctx, orderID)
	if err != nil {
		return err
	}

	statusLog := uow.StatusLogRepository()

	latest, err := statusLog.Latest(ctx, o.ID())
	if err != nil {
		return err
	}
	if latest.Status() != order.Placed {
		return fmt.Errorf("%w: order is %s", order.ErrInvalidState, latest.Status())
	}

	entry, err := o.ApplyTransition(latest, order.Transition{
		Target:               order.Cancelled,
		Actor:                kernel.SystemActor(),
		Reason:               NoDriverAvailabilityReason,
		NoDriverAvailability: true,
	}, time.Now())
	if err != nil {
		return err
	}

	if err = persistTransition(ctx, orders, statusLog, o, entry); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.metrics.ObserveTransition(order.Cancelled.String())
	notifyClient(ctx, h.notifier, h.log, o, entry)

	return nil
}
