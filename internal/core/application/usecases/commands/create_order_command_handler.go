package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// maxTrackingIDAttempts bounds how often a colliding tracking id is regenerated.
const maxTrackingIDAttempts = 3

// CreateOrderCommandHandler places orders and writes their first status log entry.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	metrics    Metrics
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, metrics Metrics) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		metrics:    metricsOrNoop(metrics),
	}
}

// Handle creates the order in order_placed. Clients may only place orders for
// themselves; dispatchers for anyone. A tracking id collision is retried with a
// fresh id in a new transaction.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := authorizeClientOf(cmd.Actor(), cmd.ClientID(), "place orders for another client"); err != nil {
		return nil, err
	}

	var err error
	for range maxTrackingIDAttempts {
		var o *order.Order
		o, err = h.create(ctx, cmd, kernel.NewTrackingID())
		if errors.Is(err, ports.ErrTrackingIDTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		h.metrics.ObserveTransition(order.Placed.String())
		return o, nil
	}

	return nil, err
}

func (h CreateOrderCommandHandler) create(
	ctx context.Context,
	cmd CreateOrderCommand,
	trackingID kernel.TrackingID,
) (*order.Order, error) {
	o, err := order.NewOrder(kernel.NewUUID(), trackingID, cmd.ClientID(), cmd.PickupAt(), cmd.EstimatedDuration())
	if err != nil {
		return nil, err
	}

	entry, err := order.NewStatusLogEntry(kernel.NewUUID(), o.ID(), 1, order.Placed, "order placed", cmd.Actor(), time.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.StatusLogRepository().Append(ctx, entry); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
