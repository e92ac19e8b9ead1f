package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Placed ──> DriverAssigned ──> TruckLeftWarehouse ──> ArrivedAtPickup ──> ItemsBeingDelivered ──> Delivered
//	  │              │
//	  └─> Cancelled <┘
//	          │ (no driver availability only)
//	          v
//	      Rescheduled ──> Placed
//
// Delivered is terminal. Cancelled is terminal unless the cancellation was caused by
// missing driver availability, in which case the order may be rescheduled and
// re-enter Placed.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Placed is the initial status of an order waiting for a driver.
	Placed

	// DriverAssigned means a driver and a slot were committed for the order.
	DriverAssigned

	TruckLeftWarehouse

	ArrivedAtPickup

	// ItemsBeingDelivered is reached only through the pickup confirmation protocol.
	ItemsBeingDelivered

	// Delivered is a final state with no further transitions allowed.
	Delivered

	Cancelled

	// Rescheduled is the re-entry point for orders cancelled for lack of drivers.
	Rescheduled
)

var statusNames = map[Status]string{
	Unknown:             "unknown",
	Placed:              "order_placed",
	DriverAssigned:      "driver_assigned",
	TruckLeftWarehouse:  "truck_left_warehouse",
	ArrivedAtPickup:     "arrived_at_pickup",
	ItemsBeingDelivered: "items_being_delivered",
	Delivered:           "delivered",
	Cancelled:           "cancelled",
	Rescheduled:         "rescheduled",
}

// allowedTransitions is the adjacency list of the lifecycle graph.
var allowedTransitions = map[Status][]Status{
	Placed:              {DriverAssigned, Cancelled},
	DriverAssigned:      {TruckLeftWarehouse, Cancelled},
	TruckLeftWarehouse:  {ArrivedAtPickup},
	ArrivedAtPickup:     {ItemsBeingDelivered},
	ItemsBeingDelivered: {Delivered},
	Cancelled:           {Rescheduled},
	Rescheduled:         {Placed},
}

// StatusFromString parses the wire name of a status, e.g. "arrived_at_pickup".
func StatusFromString(s string) (Status, error) {
	for status, name := range statusNames {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Rescheduled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status. It is safe to call on invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// CanTransitionTo reports whether target is a direct successor of s in the lifecycle graph.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no edge leaves s without extra eligibility.
// Cancelled counts as terminal; rescheduling it is decided by the order.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// HoldsBooking reports whether an order in this status occupies its driver's time.
func (s Status) HoldsBooking() bool {
	switch s {
	case DriverAssigned, TruckLeftWarehouse, ArrivedAtPickup, ItemsBeingDelivered:
		return true
	default:
		return false
	}
}

// RequiresDriver reports whether an order in this status must have a driver.
func (s Status) RequiresDriver() bool {
	return s.HoldsBooking() || s == Delivered
}

// NotifiesClient reports whether reaching s triggers a client-facing notification.
func (s Status) NotifiesClient() bool {
	return s == Delivered || s == Cancelled || s == Rescheduled
}

// BookingStatuses lists the statuses in which an order blocks its driver's schedule.
func BookingStatuses() []Status {
	return []Status{DriverAssigned, TruckLeftWarehouse, ArrivedAtPickup, ItemsBeingDelivered}
}
