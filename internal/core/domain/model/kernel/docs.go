// Package kernel provides the value objects shared by every aggregate of the
// fulfillment engine.
//
// The package includes:
//   - UUID: internal identifier of aggregates, never shown to clients
//   - TrackingID: the client-facing order identifier (TRK-XXXXXXXXXX)
//   - Interval: a half-open range of absolute instants with overlap, containment
//     and subtraction rules used by slot computation
//   - Actor: the verified principal (driver, dispatcher, client or system) behind a call
//
// All values are immutable. Zero values are invalid and fail Validate, so they
// must be built through their constructors.
package kernel
