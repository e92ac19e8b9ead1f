// Package pickuptoken encodes pickup tokens as HS256-signed JWTs.
package pickuptoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/pickup"

	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS256

// claims is the versioned payload schema. Unknown members are ignored, missing
// ones fail the decode.
type claims struct {
	Version int    `json:"v"`
	OrderID string `json:"oid"`
	Nonce   string `json:"nonce"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret string
	Issuer string
}

// JWTCodec implements ports.PickupTokenCodec.
type JWTCodec struct {
	secret []byte
	issuer string
}

func NewJWTCodec(cfg Config) (*JWTCodec, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("pickup token secret is required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.New("pickup token issuer is required")
	}
	return &JWTCodec{secret: []byte(cfg.Secret), issuer: cfg.Issuer}, nil
}

func (c *JWTCodec) Encode(token pickup.Token) (string, error) {
	if err := token.Validate(); err != nil {
		return "", err
	}

	payload := claims{
		Version: token.Version(),
		OrderID: token.OrderID().String(),
		Nonce:   token.Nonce(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   c.issuer,
			IssuedAt: jwt.NewNumericDate(token.IssuedAt()),
		},
	}
	if !token.ExpiresAt().IsZero() {
		payload.ExpiresAt = jwt.NewNumericDate(token.ExpiresAt())
	}

	signed, err := jwt.NewWithClaims(signingMethod, payload).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing pickup token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature, issuer and expiry at now. Every failure wraps
// pickup.ErrMalformed.
func (c *JWTCodec) Decode(payload string, now time.Time) (pickup.Token, error) {
	parsed := &claims{}
	_, err := jwt.ParseWithClaims(
		payload,
		parsed,
		func(token *jwt.Token) (any, error) {
			if token.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return pickup.Token{}, malformed(err)
	}

	orderID, err := kernel.UUIDFromString(parsed.OrderID)
	if err != nil {
		return pickup.Token{}, malformed(err)
	}

	if parsed.IssuedAt == nil {
		return pickup.Token{}, malformed(errors.New("iat claim is missing"))
	}
	var expiresAt time.Time
	if parsed.ExpiresAt != nil {
		expiresAt = parsed.ExpiresAt.Time
	}

	token, err := pickup.RestoreToken(parsed.Version, orderID, parsed.Nonce, parsed.IssuedAt.Time, expiresAt)
	if err != nil {
		return pickup.Token{}, malformed(err)
	}
	return token, nil
}

func malformed(cause error) error {
	return fmt.Errorf("%w: %v", pickup.ErrMalformed, cause)
}
