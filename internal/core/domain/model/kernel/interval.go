package kernel

import (
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrIntervalIsNotConstructed is returned when a zero-value Interval is used.
var ErrIntervalIsNotConstructed = errs.NewValueIsRequiredError("interval must be created via NewInterval")

// Interval is a half-open time range [start, end) on absolute instants.
//
// Both bounds are normalized to UTC on construction, so comparisons never depend on
// the wall clock or timezone of the caller. Two intervals that merely touch
// (one ends exactly where the other starts) do not overlap.
//
// Example:
//
//	slot, err := kernel.NewInterval(
//	    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
//	    time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC),
//	)
//	if err != nil {
//	    // end is not after start
//	}
//	fmt.Println(slot.Duration()) // 8h0m0s
type Interval struct { //nolint:recvcheck //using for validation
	start time.Time
	end   time.Time
	guard guard.ConstructorGuard
}

// NewInterval creates an interval. end must be strictly after start.
func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() {
		return Interval{}, errs.NewValueIsRequiredError("interval start")
	}
	if end.IsZero() {
		return Interval{}, errs.NewValueIsRequiredError("interval end")
	}
	if !end.After(start) {
		return Interval{}, errs.NewValueIsInvalidErrorWithCause(
			"interval",
			fmt.Errorf("end %s is not after start %s", end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339)),
		)
	}

	return Interval{
		start: start.UTC(),
		end:   end.UTC(),
		guard: guard.NewConstructorGuard(),
	}, nil
}

// NewIntervalFromDuration creates [start, start+d).
func NewIntervalFromDuration(start time.Time, d time.Duration) (Interval, error) {
	return NewInterval(start, start.Add(d))
}

func (i Interval) Start() time.Time {
	return i.start
}

func (i Interval) End() time.Time {
	return i.end
}

func (i Interval) Duration() time.Duration {
	return i.end.Sub(i.start)
}

// Validate reports whether the interval was built by a constructor.
func (i Interval) Validate() error {
	return i.guard.Validate(ErrIntervalIsNotConstructed)
}

func (i Interval) IsEqual(other Interval) bool {
	return i.start.Equal(other.start) && i.end.Equal(other.end)
}

// Overlaps reports whether the two intervals share at least one instant.
func (i Interval) Overlaps(other Interval) bool {
	return i.start.Before(other.end) && other.start.Before(i.end)
}

// Contains reports whether other lies entirely inside i.
func (i Interval) Contains(other Interval) bool {
	return !other.start.Before(i.start) && !other.end.After(i.end)
}

// Subtract removes busy from i and returns what is left, in ascending order.
//
//	no overlap            -> [i]
//	busy covers i         -> []
//	busy over left edge   -> [busy.end, i.end)
//	busy over right edge  -> [i.start, busy.start)
//	busy strictly inside  -> [i.start, busy.start), [busy.end, i.end)
func (i Interval) Subtract(busy Interval) []Interval {
	if !i.Overlaps(busy) {
		return []Interval{i}
	}

	rest := make([]Interval, 0, 2)
	if busy.start.After(i.start) {
		rest = append(rest, Interval{start: i.start, end: busy.start, guard: guard.NewConstructorGuard()})
	}
	if busy.end.Before(i.end) {
		rest = append(rest, Interval{start: busy.end, end: i.end, guard: guard.NewConstructorGuard()})
	}

	return rest
}

// Clip returns the part of i inside window. ok is false when nothing is left.
func (i Interval) Clip(window Interval) (Interval, bool) {
	if !i.Overlaps(window) {
		return Interval{}, false
	}

	start := i.start
	if window.start.After(start) {
		start = window.start
	}
	end := i.end
	if window.end.Before(end) {
		end = window.end
	}

	return Interval{start: start, end: end, guard: guard.NewConstructorGuard()}, true
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.start.Format(time.RFC3339), i.end.Format(time.RFC3339))
}
