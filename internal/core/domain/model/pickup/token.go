// Package pickup models the single-use payload a client shows to the driver at
// pickup, and the ways confirming it can fail.
package pickup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// CurrentVersion is the only payload schema version accepted on scan.
const CurrentVersion = 1

var (
	// ErrMalformed covers payloads that are unsigned, tampered, expired, of a foreign
	// schema, or that name an order the engine does not know.
	ErrMalformed = errors.New("pickup payload is malformed")

	// ErrWrongDriver is returned when the scanning driver is not assigned to the order.
	ErrWrongDriver = errors.New("pickup scanned by a driver not assigned to the order")

	// ErrInvalidState is returned when the order is not waiting at pickup.
	ErrInvalidState = fmt.Errorf("pickup: %w", order.ErrInvalidState)

	ErrTokenIsNotConstructed = errors.New("Token must be created via NewToken constructor")
)

// Token is the decoded pickup payload. It carries no secret; its signature only
// proves that the engine issued it, and its nonce ties it to one issuance.
type Token struct { //nolint:recvcheck //using for validation
	version   int
	orderID   kernel.UUID
	nonce     string
	issuedAt  time.Time
	expiresAt time.Time

	isConstructed bool
}

// NewToken creates a token for orderID. A zero ttl means the token never expires.
func NewToken(orderID kernel.UUID, nonce string, issuedAt time.Time, ttl time.Duration) (Token, error) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = issuedAt.Add(ttl)
	}
	return RestoreToken(CurrentVersion, orderID, nonce, issuedAt, expiresAt)
}

// RestoreToken rebuilds a token from a decoded payload and rejects anything that
// does not match the current schema.
func RestoreToken(version int, orderID kernel.UUID, nonce string, issuedAt, expiresAt time.Time) (Token, error) {
	if version != CurrentVersion {
		return Token{}, errs.NewValueIsInvalidErrorWithCause("token version", fmt.Errorf("%d is not supported", version))
	}
	if err := orderID.Validate(); err != nil {
		return Token{}, err
	}
	nonce = strings.TrimSpace(nonce)
	if nonce == "" {
		return Token{}, errs.NewValueIsRequiredError("token nonce")
	}
	if issuedAt.IsZero() {
		return Token{}, errs.NewValueIsRequiredError("token issued at")
	}
	if !expiresAt.IsZero() && !expiresAt.After(issuedAt) {
		return Token{}, errs.NewValueIsInvalidErrorWithCause("token expiry", errors.New("expiry is not after issuance"))
	}

	return Token{
		version:       version,
		orderID:       orderID,
		nonce:         nonce,
		issuedAt:      issuedAt.UTC(),
		expiresAt:     expiresAt.UTC(),
		isConstructed: true,
	}, nil
}

func (t Token) Validate() error {
	if !t.isConstructed {
		return ErrTokenIsNotConstructed
	}
	return nil
}

func (t Token) Version() int {
	return t.version
}

func (t Token) OrderID() kernel.UUID {
	return t.orderID
}

func (t Token) Nonce() string {
	return t.nonce
}

func (t Token) IssuedAt() time.Time {
	return t.issuedAt
}

// ExpiresAt is zero for tokens without expiry.
func (t Token) ExpiresAt() time.Time {
	return t.expiresAt
}

func (t Token) IsExpired(now time.Time) bool {
	return !t.expiresAt.IsZero() && !now.Before(t.expiresAt)
}
