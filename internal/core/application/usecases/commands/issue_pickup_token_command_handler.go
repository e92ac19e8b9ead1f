package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/pickup"
	"fulfillment/internal/core/ports"
)

// IssuedPickupToken is the encoded payload and, when the token expires, its expiry.
type IssuedPickupToken struct {
	Payload   string
	ExpiresAt time.Time
}

// IssuePickupTokenCommandHandler signs pickup payloads for orders that have a
// driver on the way. Each call mints a fresh nonce.
type IssuePickupTokenCommandHandler struct {
	uowFactory OrderUoWFactory
	codec      ports.PickupTokenCodec
	nonces     ports.NonceRegistry
	ttl        time.Duration
}

// NewIssuePickupTokenCommandHandler creates the handler. nonces may be nil, in
// which case tokens are only checked by signature. A zero ttl issues tokens that
// never expire; the registry still applies its own bound to their nonces.
func NewIssuePickupTokenCommandHandler(
	uowFactory OrderUoWFactory,
	codec ports.PickupTokenCodec,
	nonces ports.NonceRegistry,
	ttl time.Duration,
) IssuePickupTokenCommandHandler {
	return IssuePickupTokenCommandHandler{
		uowFactory: uowFactory,
		codec:      codec,
		nonces:     nonces,
		ttl:        ttl,
	}
}

// Handle issues a token for an order in driver_assigned, truck_left_warehouse or
// arrived_at_pickup. Only the order's client or a dispatcher may ask.
func (h IssuePickupTokenCommandHandler) Handle(ctx context.Context, cmd IssuePickupTokenCommand) (IssuedPickupToken, error) {
	if err := cmd.Validate(); err != nil {
		return IssuedPickupToken{}, err
	}

	o, latest, err := h.load(ctx, cmd.TrackingID())
	if err != nil {
		return IssuedPickupToken{}, err
	}

	if err = authorizeClientOf(cmd.Actor(), o.ClientID(), "issue pickup codes for this order"); err != nil {
		return IssuedPickupToken{}, err
	}

	switch latest.Status() {
	case order.DriverAssigned, order.TruckLeftWarehouse, order.ArrivedAtPickup:
	default:
		return IssuedPickupToken{}, pickup.ErrInvalidState
	}

	token, err := pickup.NewToken(o.ID(), kernel.NewUUID().String(), time.Now(), h.ttl)
	if err != nil {
		return IssuedPickupToken{}, err
	}

	if h.nonces != nil {
		if err = h.nonces.Register(ctx, token.Nonce(), o.ID(), h.ttl); err != nil {
			return IssuedPickupToken{}, err
		}
	}

	payload, err := h.codec.Encode(token)
	if err != nil {
		return IssuedPickupToken{}, err
	}

	return IssuedPickupToken{Payload: payload, ExpiresAt: token.ExpiresAt()}, nil
}

func (h IssuePickupTokenCommandHandler) load(
	ctx context.Context,
	trackingID kernel.TrackingID,
) (*order.Order, *order.StatusLogEntry, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, nil, err
	}

	latest, err := uow.StatusLogRepository().Latest(ctx, o.ID())
	if err != nil {
		return nil, nil, err
	}

	return o, latest, nil
}
