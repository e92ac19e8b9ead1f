package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	trackingIDPrefix   = "TRK-"
	trackingIDBodySize = 10
	crockfordAlphabet  = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
)

// ErrTrackingIDIsNotConstructed is returned when a zero-value TrackingID is used.
var ErrTrackingIDIsNotConstructed = errs.NewValueIsRequiredError(
	"tracking id must be created via NewTrackingID or TrackingIDFromString")

// TrackingID is the only identifier of an order shown outside the service.
// It has the form TRK-XXXXXXXXXX where X is a Crockford base32 symbol.
type TrackingID struct {
	value string
}

// NewTrackingID draws 50 random bits from a version 4 UUID and encodes them.
func NewTrackingID() TrackingID {
	raw := uuid.New()

	// bytes 9..15 carry no version or variant bits
	var bits uint64
	for _, b := range raw[9:16] {
		bits = bits<<8 | uint64(b)
	}

	body := make([]byte, trackingIDBodySize)
	for i := trackingIDBodySize - 1; i >= 0; i-- {
		body[i] = crockfordAlphabet[bits&0x1f]
		bits >>= 5
	}

	return TrackingID{value: trackingIDPrefix + string(body)}
}

// TrackingIDFromString parses a client supplied tracking id. Lowercase input is accepted.
func TrackingIDFromString(s string) (TrackingID, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	if normalized == "" {
		return TrackingID{}, errs.NewValueIsRequiredError("tracking id")
	}

	body, ok := strings.CutPrefix(normalized, trackingIDPrefix)
	if !ok || len(body) != trackingIDBodySize {
		return TrackingID{}, errs.NewValueIsInvalidErrorWithCause(
			"tracking id",
			fmt.Errorf("%q does not match %sXXXXXXXXXX", s, trackingIDPrefix),
		)
	}

	for _, r := range body {
		if !strings.ContainsRune(crockfordAlphabet, r) {
			return TrackingID{}, errs.NewValueIsInvalidErrorWithCause(
				"tracking id",
				fmt.Errorf("%q contains invalid symbol %q", s, r),
			)
		}
	}

	return TrackingID{value: normalized}, nil
}

func (t TrackingID) String() string {
	return t.value
}

func (t TrackingID) IsEqual(other TrackingID) bool {
	return t.value == other.value
}

func (t TrackingID) Validate() error {
	if t.value == "" {
		return ErrTrackingIDIsNotConstructed
	}
	return nil
}
