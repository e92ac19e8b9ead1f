package ports

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/pickup"
)

// ErrNonceUnknown is returned by NonceRegistry.Resolve for nonces it never saw or
// that already expired.
var ErrNonceUnknown = errors.New("pickup nonce is unknown")

// PickupTokenCodec turns a pickup token into the string shown as a scannable code
// and back. Decode must fail for anything it did not produce itself.
type PickupTokenCodec interface {
	Encode(token pickup.Token) (string, error)
	Decode(payload string, now time.Time) (pickup.Token, error)
}

// NonceRegistry remembers which order a pickup nonce was issued for.
type NonceRegistry interface {
	Register(ctx context.Context, nonce string, orderID kernel.UUID, ttl time.Duration) error
	Resolve(ctx context.Context, nonce string) (kernel.UUID, error)
}
