// Package services provides domain services that work across aggregates of the
// fulfillment engine.
//
// The package includes:
//   - FreeSlotComputer: derives bookable slots from availability blocks and busy intervals
//   - BookingResolver: turns a driver's committed orders into busy intervals
//   - SlotAllocator: checks that a chosen slot can host an order on a driver's schedule
//
// Both services are pure: they never read storage, so the application layer decides
// which snapshot of blocks and bookings they see.
package services
