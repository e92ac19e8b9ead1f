package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const noncePrefix = "pickup:nonce"

// DefaultNonceTTL bounds nonces of tokens issued without an expiry.
const DefaultNonceTTL = 7 * 24 * time.Hour

// ErrNonceTaken is returned when a nonce is registered twice.
var ErrNonceTaken = errors.New("pickup nonce is already registered")

// NonceRegistry implements ports.NonceRegistry. Each nonce maps to the order it
// was issued for and disappears with the token's TTL.
type NonceRegistry struct {
	client *Client
}

func NewNonceRegistry(client *Client) (*NonceRegistry, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &NonceRegistry{client: client}, nil
}

// NonceKey returns fulfillment:pickup:nonce:<nonce>.
func (r *NonceRegistry) NonceKey(nonce string) string {
	return r.client.buildKey(noncePrefix, nonce)
}

// Register stores the nonce. A non-positive ttl falls back to DefaultNonceTTL.
func (r *NonceRegistry) Register(ctx context.Context, nonce string, orderID kernel.UUID, ttl time.Duration) error {
	nonce = strings.TrimSpace(nonce)
	if nonce == "" {
		return errors.New("nonce is required")
	}
	if err := orderID.Validate(); err != nil {
		return err
	}
	if r.client.store == nil {
		return errors.New("redis client not initialized")
	}
	if ttl <= 0 {
		ttl = DefaultNonceTTL
	}

	created, err := r.client.store.SetNX(ctx, r.NonceKey(nonce), orderID.String(), ttl).Result()
	if err != nil {
		return fmt.Errorf("register pickup nonce: %w", err)
	}
	if !created {
		return ErrNonceTaken
	}
	return nil
}

// Resolve returns the order the nonce was issued for, or ports.ErrNonceUnknown.
func (r *NonceRegistry) Resolve(ctx context.Context, nonce string) (kernel.UUID, error) {
	nonce = strings.TrimSpace(nonce)
	if nonce == "" {
		return kernel.UUID{}, ports.ErrNonceUnknown
	}
	if r.client.store == nil {
		return kernel.UUID{}, errors.New("redis client not initialized")
	}

	value, err := r.client.store.Get(ctx, r.NonceKey(nonce)).Result()
	if errors.Is(err, redis.Nil) {
		return kernel.UUID{}, ports.ErrNonceUnknown
	}
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("resolve pickup nonce: %w", err)
	}

	orderID, err := kernel.UUIDFromString(value)
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("%w: stored value %q is not an order id", ports.ErrNonceUnknown, value)
	}
	return orderID, nil
}
