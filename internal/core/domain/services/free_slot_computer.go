package services

import (
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"
)

// FreeSlotComputer turns declared availability minus committed bookings into the
// slots a dispatcher may choose from.
//
// Each block is processed on its own: blocks that overlap or duplicate each other
// are never merged, so the same instant can appear in slots from two blocks.
// All arithmetic happens on absolute instants.
//
// Example:
//
//	computer := services.NewFreeSlotComputer()
//	slots := computer.Compute(blocks, busy, 30*time.Minute)
//	// 09:00-17:00 minus 10:00-11:00 -> [09:00-10:00, 11:00-17:00]
type FreeSlotComputer struct{}

func NewFreeSlotComputer() FreeSlotComputer {
	return FreeSlotComputer{}
}

// Compute returns the free slots of blocks not covered by busy and lasting at least
// minDuration, sorted by start time. No blocks yield an empty, non-nil slice.
// Invalid blocks and intervals are skipped.
func (c FreeSlotComputer) Compute(
	blocks []*availability.Block,
	busy []kernel.Interval,
	minDuration time.Duration,
) []kernel.Interval {
	windows := make([]kernel.Interval, 0, len(blocks))
	for _, b := range blocks {
		if b.Validate() != nil {
			continue
		}
		windows = append(windows, b.Interval())
	}

	return c.ComputeIntervals(windows, busy, minDuration)
}

// ComputeIntervals is Compute over raw availability windows.
func (c FreeSlotComputer) ComputeIntervals(
	windows []kernel.Interval,
	busy []kernel.Interval,
	minDuration time.Duration,
) []kernel.Interval {
	slots := make([]kernel.Interval, 0, len(windows))

	for _, window := range windows {
		if window.Validate() != nil {
			continue
		}

		candidates := []kernel.Interval{window}
		for _, b := range busy {
			if b.Validate() != nil {
				continue
			}
			next := make([]kernel.Interval, 0, len(candidates)+1)
			for _, candidate := range candidates {
				next = append(next, candidate.Subtract(b)...)
			}
			candidates = next
			if len(candidates) == 0 {
				break
			}
		}

		for _, candidate := range candidates {
			if candidate.Duration() >= minDuration {
				slots = append(slots, candidate)
			}
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Start().Equal(slots[j].Start()) {
			return slots[i].End().Before(slots[j].End())
		}
		return slots[i].Start().Before(slots[j].Start())
	})

	return slots
}
