package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderTrackingQueryIsNotConstructed = errors.New(
	"GetOrderTrackingQuery must be created via NewGetOrderTrackingQuery constructor",
)

// GetOrderTrackingQuery looks an order up by its public tracking id. The response
// never carries internal identifiers.
type GetOrderTrackingQuery struct { //nolint:recvcheck //using for validation
	trackingID kernel.TrackingID

	guard guard.ConstructorGuard
}

func NewGetOrderTrackingQuery(trackingID kernel.TrackingID) (GetOrderTrackingQuery, error) {
	if err := trackingID.Validate(); err != nil {
		return GetOrderTrackingQuery{}, err
	}

	return GetOrderTrackingQuery{
		trackingID: trackingID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackingQueryIsNotConstructed)
}

func (q GetOrderTrackingQuery) TrackingID() kernel.TrackingID {
	return q.trackingID
}

// TrackingEvent is one status log entry as shown to clients.
type TrackingEvent struct {
	Sequence    int64
	Status      order.Status
	Description string
	ActorRole   kernel.Role
	OccurredAt  time.Time
}

type GetOrderTrackingQueryResponse struct {
	TrackingID        kernel.TrackingID
	Status            order.Status
	PickupAt          time.Time
	EstimatedDuration time.Duration
	DriverAssigned    bool
	CancelReason      string
	// History is ordered by sequence, oldest first.
	History []TrackingEvent
}
