package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const (
	// MinEstimatedDuration and MaxEstimatedDuration bound how long a booking may last.
	MinEstimatedDuration = 5 * time.Minute
	MaxEstimatedDuration = 24 * time.Hour

	maxCancelReasonLength = 500
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of a delivery order moving through the fulfillment lifecycle.
//
// Order follows these invariants:
//   - Must have a valid internal identifier and a client-facing tracking id
//   - The estimated duration lies within [MinEstimatedDuration, MaxEstimatedDuration]
//   - A driver is present exactly when the status requires one
//   - Status changes only through ApplyTransition, which also emits the log entry
//   - Can only be created through NewOrder or RestoreOrder
//
// The status held here is a cache of the order's latest status log entry.
// ApplyTransition resynchronizes it from the log before validating any edge.
type Order struct {
	id         kernel.UUID
	trackingID kernel.TrackingID
	clientID   kernel.UUID

	// driverID is the assigned driver (nil while unassigned)
	driverID *kernel.UUID

	pickupAt          time.Time
	estimatedDuration time.Duration

	status Status

	cancelReason string
	// cancelledForNoDriver marks a cancellation that makes the order eligible for rescheduling
	cancelledForNoDriver bool

	// version backs the compare-and-swap performed by the repository on update
	version int64

	isConstructed bool
}

// Snapshot carries the persisted state of an order for RestoreOrder.
type Snapshot struct {
	ID                   kernel.UUID
	TrackingID           kernel.TrackingID
	ClientID             kernel.UUID
	DriverID             *kernel.UUID
	PickupAt             time.Time
	EstimatedDuration    time.Duration
	Status               Status
	CancelReason         string
	CancelledForNoDriver bool
	Version              int64
}

// NewOrder creates an order in Placed status with no driver.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewTrackingID(), clientID, pickupAt, 90*time.Minute)
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	trackingID kernel.TrackingID,
	clientID kernel.UUID,
	pickupAt time.Time,
	estimatedDuration time.Duration,
) (*Order, error) {
	order := &Order{
		status:        Placed,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setTrackingID(trackingID),
		order.setClientID(clientID),
		order.setPickupAt(pickupAt),
		order.setEstimatedDuration(estimatedDuration),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder rebuilds an order from storage and checks that the stored status
// and driver assignment agree.
func RestoreOrder(s Snapshot) (*Order, error) {
	order, err := NewOrder(s.ID, s.TrackingID, s.ClientID, s.PickupAt, s.EstimatedDuration)
	if err != nil {
		return nil, err
	}

	if err = s.Status.Validate(); err != nil {
		return nil, err
	}
	if s.Status.RequiresDriver() && s.DriverID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no driver", s.Status),
		)
	}
	if s.DriverID != nil {
		if err = s.DriverID.Validate(); err != nil {
			return nil, err
		}
		driverID := *s.DriverID
		order.driverID = &driverID
	}
	if s.Version < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("version is invalid", fmt.Errorf("%d is not greater than 0", s.Version))
	}

	order.status = s.Status
	order.cancelReason = s.CancelReason
	order.cancelledForNoDriver = s.CancelledForNoDriver
	order.version = s.Version

	return order, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) TrackingID() kernel.TrackingID {
	return o.trackingID
}

func (o *Order) ClientID() kernel.UUID {
	return o.clientID
}

// Driver returns the assigned driver's ID, or nil.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

func (o *Order) PickupAt() time.Time {
	return o.pickupAt
}

func (o *Order) EstimatedDuration() time.Duration {
	return o.estimatedDuration
}

// Status returns the cached status. Use the status log for the authoritative value.
func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CancelReason() string {
	return o.cancelReason
}

func (o *Order) CancelledForNoDriver() bool {
	return o.cancelledForNoDriver
}

func (o *Order) Version() int64 {
	return o.version
}

// BumpVersion is called by the repository once a compare-and-swap update succeeded.
func (o *Order) BumpVersion() {
	o.version++
}

// IsAssignedTo reports whether driverID is the order's current driver.
func (o *Order) IsAssignedTo(driverID kernel.UUID) bool {
	return o.driverID != nil && o.driverID.IsEqual(driverID)
}

// BusyInterval returns the time the order blocks on its driver's schedule.
// ok is false when the order holds no booking.
func (o *Order) BusyInterval() (kernel.Interval, bool) {
	if o.driverID == nil || !o.status.HoldsBooking() {
		return kernel.Interval{}, false
	}

	busy, err := kernel.NewIntervalFromDuration(o.pickupAt, o.estimatedDuration)
	if err != nil {
		return kernel.Interval{}, false
	}

	return busy, true
}

// CanBeRescheduled reports whether a cancelled order may move to Rescheduled.
func (o *Order) CanBeRescheduled() bool {
	return o.status == Cancelled && o.cancelledForNoDriver
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTrackingID(trackingID kernel.TrackingID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}
	o.trackingID = trackingID
	return nil
}

func (o *Order) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	o.clientID = clientID
	return nil
}

func (o *Order) setPickupAt(pickupAt time.Time) error {
	if pickupAt.IsZero() {
		return errs.NewValueIsRequiredError("pickup time")
	}
	o.pickupAt = pickupAt.UTC()
	return nil
}

func (o *Order) setEstimatedDuration(d time.Duration) error {
	if d < MinEstimatedDuration || d > MaxEstimatedDuration {
		return errs.NewValueIsOutOfRangeError("estimated duration", d, MinEstimatedDuration, MaxEstimatedDuration)
	}
	o.estimatedDuration = d
	return nil
}

func normalizeReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if runes := []rune(reason); len(runes) > maxCancelReasonLength {
		reason = string(runes[:maxCancelReasonLength])
	}
	return reason
}
