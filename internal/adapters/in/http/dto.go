package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/order"
)

type NewOrder struct {
	ClientID                 string    `json:"client_id" validate:"omitempty,uuid"`
	PickupAt                 time.Time `json:"pickup_at" validate:"required"`
	EstimatedDurationMinutes int       `json:"estimated_duration_minutes" validate:"required,min=5,max=1440"`
}

type Order struct {
	TrackingID               string    `json:"tracking_id"`
	Status                   string    `json:"status"`
	PickupAt                 time.Time `json:"pickup_at"`
	EstimatedDurationMinutes int       `json:"estimated_duration_minutes"`
	DriverID                 *string   `json:"driver_id,omitempty"`
}

type Assignment struct {
	DriverID  string    `json:"driver_id" validate:"required,uuid"`
	SlotStart time.Time `json:"slot_start" validate:"required"`
	SlotEnd   time.Time `json:"slot_end" validate:"required,gtfield=SlotStart"`
}

type TransitionRequest struct {
	Status               string    `json:"status" validate:"required"`
	Reason               string    `json:"reason" validate:"max=500"`
	NoDriverAvailability bool      `json:"no_driver_availability"`
	PickupAt             time.Time `json:"pickup_at"`
}

type StatusEvent struct {
	Sequence    int64     `json:"sequence"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	ActorRole   string    `json:"actor_role"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Tracking struct {
	TrackingID               string        `json:"tracking_id"`
	Status                   string        `json:"status"`
	PickupAt                 time.Time     `json:"pickup_at"`
	EstimatedDurationMinutes int           `json:"estimated_duration_minutes"`
	DriverAssigned           bool          `json:"driver_assigned"`
	CancelReason             string        `json:"cancel_reason,omitempty"`
	History                  []StatusEvent `json:"history"`
}

type PickupToken struct {
	Payload   string     `json:"payload"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type PickupScan struct {
	Payload string `json:"payload" validate:"required"`
}

type NewAvailabilityBlock struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
	Label string    `json:"label" validate:"max=100"`
}

type AvailabilityBlock struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label,omitempty"`
}

type Availability struct {
	DriverID string              `json:"driver_id"`
	Blocks   []AvailabilityBlock `json:"blocks"`
}

type FreeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type FreeSlots struct {
	DriverID string     `json:"driver_id"`
	Date     string     `json:"date"`
	Slots    []FreeSlot `json:"slots"`
}

func orderFromDomain(o *order.Order) Order {
	resp := Order{
		TrackingID:               o.TrackingID().String(),
		Status:                   o.Status().String(),
		PickupAt:                 o.PickupAt(),
		EstimatedDurationMinutes: int(o.EstimatedDuration() / time.Minute),
	}
	if driver := o.Driver(); driver != nil {
		id := driver.String()
		resp.DriverID = &id
	}
	return resp
}

func statusEventFromDomain(e *order.StatusLogEntry) StatusEvent {
	return StatusEvent{
		Sequence:    e.Sequence(),
		Status:      e.Status().String(),
		Description: e.Description(),
		ActorRole:   e.Actor().Role().String(),
		OccurredAt:  e.OccurredAt(),
	}
}

func trackingFromQuery(r *queries.GetOrderTrackingQueryResponse) Tracking {
	history := make([]StatusEvent, len(r.History))
	for i, event := range r.History {
		history[i] = StatusEvent{
			Sequence:    event.Sequence,
			Status:      event.Status.String(),
			Description: event.Description,
			ActorRole:   event.ActorRole.String(),
			OccurredAt:  event.OccurredAt,
		}
	}

	return Tracking{
		TrackingID:               r.TrackingID.String(),
		Status:                   r.Status.String(),
		PickupAt:                 r.PickupAt,
		EstimatedDurationMinutes: int(r.EstimatedDuration / time.Minute),
		DriverAssigned:           r.DriverAssigned,
		CancelReason:             r.CancelReason,
		History:                  history,
	}
}

func blockFromDomain(b *availability.Block) AvailabilityBlock {
	return AvailabilityBlock{
		ID:    b.ID().String(),
		Start: b.Interval().Start(),
		End:   b.Interval().End(),
		Label: b.Label(),
	}
}

func availabilityFromQuery(r *queries.GetDriverAvailabilityQueryResponse) Availability {
	blocks := make([]AvailabilityBlock, len(r.Blocks))
	for i, b := range r.Blocks {
		blocks[i] = AvailabilityBlock{ID: b.ID.String(), Start: b.Start, End: b.End, Label: b.Label}
	}
	return Availability{DriverID: r.DriverID.String(), Blocks: blocks}
}

func freeSlotsFromQuery(r *queries.GetFreeSlotsQueryResponse, date string) FreeSlots {
	slots := make([]FreeSlot, len(r.Slots))
	for i, s := range r.Slots {
		slots[i] = FreeSlot{Start: s.Start, End: s.End}
	}
	return FreeSlots{
		DriverID: r.DriverID.String(),
		Date:     date,
		Slots:    slots,
	}
}
