package services

import (
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// BookingResolver converts a driver's committed orders into busy intervals of
// pickup time plus estimated duration.
type BookingResolver struct{}

func NewBookingResolver() BookingResolver {
	return BookingResolver{}
}

// Resolve returns the busy intervals of orders that still hold a booking, sorted by
// start. The order identified by exclude is left out so it can be re-planned
// without colliding with itself.
func (BookingResolver) Resolve(orders []*order.Order, exclude *kernel.UUID) []kernel.Interval {
	busy := make([]kernel.Interval, 0, len(orders))
	for _, o := range orders {
		if o.Validate() != nil {
			continue
		}
		if exclude != nil && o.ID().IsEqual(*exclude) {
			continue
		}
		if interval, ok := o.BusyInterval(); ok {
			busy = append(busy, interval)
		}
	}

	sort.Slice(busy, func(i, j int) bool {
		return busy[i].Start().Before(busy[j].Start())
	})

	return busy
}
