// Package order provides the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root holding identity, client, pickup time, estimated
//     duration, the assigned driver and a cached status
//   - Status: the lifecycle states and the adjacency list of legal edges
//   - StatusLogEntry: one append-only row of an order's status history
//   - Transition / ApplyTransition: the single entry point for status changes
//
// Key business rules:
//   - The latest status log entry is the source of truth for the current status
//   - Orders follow Placed -> DriverAssigned -> TruckLeftWarehouse -> ArrivedAtPickup
//     -> ItemsBeingDelivered -> Delivered, with Cancelled reachable from Placed and
//     DriverAssigned only
//   - A cancellation requires a reason and releases the driver's booking
//   - Only orders cancelled for lack of driver availability may be Rescheduled,
//     after which they re-enter Placed
//   - Every accepted transition yields exactly one new log entry
package order
