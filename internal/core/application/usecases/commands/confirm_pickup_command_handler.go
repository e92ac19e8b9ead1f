package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickup"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/logger"
)

// maxPayloadLength caps what a scan may hand in before decoding is attempted.
const maxPayloadLength = 4096

// ConfirmPickupCommandHandler consumes scanned pickup payloads and records
// items_being_delivered exactly once per order.
//
// Rejections are returned as one of pickup.ErrMalformed, pickup.ErrWrongDriver
// or pickup.ErrInvalidState without further detail; the detail goes to the log.
type ConfirmPickupCommandHandler struct {
	uowFactory OrderUoWFactory
	codec      ports.PickupTokenCodec
	nonces     ports.NonceRegistry
	metrics    Metrics
	log        *logger.Logger
}

// NewConfirmPickupCommandHandler creates the handler. nonces may be nil.
func NewConfirmPickupCommandHandler(
	uowFactory OrderUoWFactory,
	codec ports.PickupTokenCodec,
	nonces ports.NonceRegistry,
	metrics Metrics,
	log *logger.Logger,
) ConfirmPickupCommandHandler {
	if log == nil {
		log = logger.Nop()
	}
	return ConfirmPickupCommandHandler{
		uowFactory: uowFactory,
		codec:      codec,
		nonces:     nonces,
		metrics:    metricsOrNoop(metrics),
		log:        log,
	}
}

// Handle verifies the payload and consumes it. Scanning a payload that was
// already consumed returns the existing items_being_delivered entry.
func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, cmd ConfirmPickupCommand) (*order.StatusLogEntry, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if !cmd.Actor().IsDriver(cmd.ScanningDriverID()) {
		return nil, forbidden(cmd.Actor(), "confirm pickups for another driver")
	}

	logCtx := h.log.WithField(ctx, "driver_id", cmd.ScanningDriverID().String())

	token, err := h.verify(ctx, logCtx, cmd.Payload())
	if err != nil {
		return nil, err
	}

	logCtx = h.log.WithField(logCtx, "order_id", token.OrderID().String())

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	statusLog := uow.StatusLogRepository()

	o, err := orders.Get(ctx, token.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, h.reject(logCtx, pickup.ErrMalformed, "malformed", err)
	}
	if err != nil {
		return nil, err
	}

	if !o.IsAssignedTo(cmd.ScanningDriverID()) {
		return nil, h.reject(logCtx, pickup.ErrWrongDriver, "wrong_driver", errors.New("scanning driver is not assigned"))
	}

	existing, err := statusLog.FindLatestWithStatus(ctx, o.ID(), order.ItemsBeingDelivered)
	if err == nil {
		h.log.Info(logCtx, "pickup already confirmed, returning existing entry")
		return existing, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	latest, err := statusLog.Latest(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	if latest.Status() != order.ArrivedAtPickup {
		return nil, h.reject(logCtx, pickup.ErrInvalidState, "invalid_state", errors.New("order is "+latest.Status().String()))
	}

	entry, err := o.ApplyTransition(latest, order.Transition{
		Target: order.ItemsBeingDelivered,
		Actor:  cmd.Actor(),
	}, time.Now())
	if err != nil {
		return nil, h.reject(logCtx, pickup.ErrInvalidState, "invalid_state", err)
	}

	if err = persistTransition(ctx, orders, statusLog, o, entry); err != nil {
		if isConcurrentWrite(err) {
			return h.afterConcurrentWrite(ctx, logCtx, uow, o.ID(), err)
		}
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.ObserveTransition(order.ItemsBeingDelivered.String())
	h.log.Info(logCtx, "pickup confirmed")

	return entry, nil
}

// verify decodes the payload and checks its nonce. Every failure is Malformed.
func (h ConfirmPickupCommandHandler) verify(ctx, logCtx context.Context, payload string) (pickup.Token, error) {
	if payload == "" || len(payload) > maxPayloadLength {
		return pickup.Token{}, h.reject(logCtx, pickup.ErrMalformed, "malformed", errors.New("payload is empty or oversized"))
	}

	token, err := h.codec.Decode(payload, time.Now())
	if err != nil {
		return pickup.Token{}, h.reject(logCtx, pickup.ErrMalformed, "malformed", err)
	}

	if h.nonces == nil {
		return token, nil
	}

	orderID, err := h.nonces.Resolve(ctx, token.Nonce())
	if errors.Is(err, ports.ErrNonceUnknown) {
		return pickup.Token{}, h.reject(logCtx, pickup.ErrMalformed, "malformed", err)
	}
	if err != nil {
		return pickup.Token{}, err
	}
	if !orderID.IsEqual(token.OrderID()) {
		return pickup.Token{}, h.reject(logCtx, pickup.ErrMalformed, "malformed", errors.New("nonce was issued for another order"))
	}

	return token, nil
}

// afterConcurrentWrite runs when another writer changed the order first. If that
// writer consumed the pickup, its entry is the answer to this scan as well.
func (h ConfirmPickupCommandHandler) afterConcurrentWrite(
	ctx context.Context,
	logCtx context.Context,
	uow OrderUoW,
	orderID kernel.UUID,
	cause error,
) (*order.StatusLogEntry, error) {
	_ = uow.Rollback(ctx)

	existing, err := uow.StatusLogRepository().FindLatestWithStatus(ctx, orderID, order.ItemsBeingDelivered)
	if err == nil {
		return existing, nil
	}
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, h.reject(logCtx, pickup.ErrInvalidState, "invalid_state", cause)
	}
	return nil, err
}

func (h ConfirmPickupCommandHandler) reject(ctx context.Context, kind error, reason string, detail error) error {
	h.metrics.IncPickupRejection(reason)
	h.log.Warn(h.log.WithFields(ctx, map[string]any{"reason": reason, "detail": detail.Error()}), "pickup rejected")
	return kind
}
