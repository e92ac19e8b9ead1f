package queries

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxAvailabilityRange = 31 * 24 * time.Hour

var ErrGetDriverAvailabilityQueryIsNotConstructed = errors.New(
	"GetDriverAvailabilityQuery must be created via NewGetDriverAvailabilityQuery constructor",
)

// GetDriverAvailabilityQuery lists the blocks a driver declared inside a range of
// at most 31 days.
type GetDriverAvailabilityQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	window   kernel.Interval

	guard guard.ConstructorGuard
}

func NewGetDriverAvailabilityQuery(driverID kernel.UUID, from, to time.Time) (GetDriverAvailabilityQuery, error) {
	window, err := kernel.NewInterval(from, to)
	if err == nil && window.Duration() > maxAvailabilityRange {
		err = errs.NewValueIsOutOfRangeErrorWithCause(
			"availability range",
			window.Duration(),
			time.Nanosecond,
			maxAvailabilityRange,
			fmt.Errorf("%s is too long", window),
		)
	}

	if err = errors.Join(driverID.Validate(), err); err != nil {
		return GetDriverAvailabilityQuery{}, err
	}

	return GetDriverAvailabilityQuery{
		driverID: driverID,
		window:   window,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetDriverAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverAvailabilityQueryIsNotConstructed)
}

func (q GetDriverAvailabilityQuery) DriverID() kernel.UUID {
	return q.driverID
}

func (q GetDriverAvailabilityQuery) Window() kernel.Interval {
	return q.window
}

type AvailabilityBlockView struct {
	ID    kernel.UUID
	Start time.Time
	End   time.Time
	Label string
}

type GetDriverAvailabilityQueryResponse struct {
	DriverID kernel.UUID
	Blocks   []AvailabilityBlockView
}
