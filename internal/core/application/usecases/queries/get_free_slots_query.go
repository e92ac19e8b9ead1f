package queries

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	dateLayout = "2006-01-02"

	maxSlotDuration = 24 * time.Hour
)

var ErrGetFreeSlotsQueryIsNotConstructed = errors.New(
	"GetFreeSlotsQuery must be created via NewGetFreeSlotsQuery constructor",
)

// GetFreeSlotsQuery asks for the bookable slots of one driver on one calendar day.
// The day is resolved in the given IANA timezone; an empty timezone means UTC.
//
// Example:
//
//	query, err := NewGetFreeSlotsQuery(driverID, "2025-03-10", "Europe/Berlin", 30*time.Minute)
//	if err != nil {
//	    return err
//	}
//	resp, err := handler.Handle(ctx, query)
type GetFreeSlotsQuery struct { //nolint:recvcheck //using for validation
	driverID    kernel.UUID
	day         time.Time
	location    *time.Location
	minDuration time.Duration

	guard guard.ConstructorGuard
}

func NewGetFreeSlotsQuery(
	driverID kernel.UUID,
	date string,
	timezone string,
	minDuration time.Duration,
) (GetFreeSlotsQuery, error) {
	location, locErr := parseLocation(timezone)

	var day time.Time
	var dateErr error
	if locErr == nil {
		day, dateErr = parseDate(date, location)
	}

	var durationErr error
	if minDuration <= 0 || minDuration > maxSlotDuration {
		durationErr = errs.NewValueIsOutOfRangeError("min duration", minDuration, time.Nanosecond, maxSlotDuration)
	}

	if err := errors.Join(driverID.Validate(), locErr, dateErr, durationErr); err != nil {
		return GetFreeSlotsQuery{}, err
	}

	return GetFreeSlotsQuery{
		driverID:    driverID,
		day:         day,
		location:    location,
		minDuration: minDuration,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q GetFreeSlotsQuery) Validate() error {
	return q.guard.Validate(ErrGetFreeSlotsQueryIsNotConstructed)
}

func (q GetFreeSlotsQuery) DriverID() kernel.UUID {
	return q.driverID
}

// Day returns local midnight of the requested date.
func (q GetFreeSlotsQuery) Day() time.Time {
	return q.day
}

func (q GetFreeSlotsQuery) Location() *time.Location {
	return q.location
}

func (q GetFreeSlotsQuery) MinDuration() time.Duration {
	return q.minDuration
}

// FreeSlot is a bookable interval expressed in the query's timezone.
type FreeSlot struct {
	Start time.Time
	End   time.Time
}

type GetFreeSlotsQueryResponse struct {
	DriverID kernel.UUID
	// Day is the requested calendar day as an absolute interval.
	Day   kernel.Interval
	Slots []FreeSlot
}

func parseLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.UTC, nil
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("timezone is invalid", err)
	}
	return location, nil
}

func parseDate(date string, location *time.Location) (time.Time, error) {
	if date == "" {
		return time.Time{}, errs.NewValueIsRequiredError("date")
	}
	day, err := time.ParseInLocation(dateLayout, date, location)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause(
			"date is invalid",
			fmt.Errorf("%q does not match %s: %w", date, dateLayout, err),
		)
	}
	return day, nil
}
