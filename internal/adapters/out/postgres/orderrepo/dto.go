// Package orderrepo maps order aggregates to the orders table.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row of the orders table.
//
// busy_until is derived from pickup_at and the estimated duration so that
// booking lookups can be answered with a plain range predicate.
type OrderDTO struct {
	ID                       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingID               string     `gorm:"size:14;not null;uniqueIndex:idx_orders_tracking_id"`
	ClientID                 uuid.UUID  `gorm:"type:uuid;not null;index"`
	DriverID                 *uuid.UUID `gorm:"type:uuid;index:idx_orders_driver_pickup,priority:1"`
	PickupAt                 time.Time  `gorm:"not null;index:idx_orders_driver_pickup,priority:2"`
	BusyUntil                time.Time  `gorm:"not null"`
	EstimatedDurationSeconds int64      `gorm:"not null"`
	Status                   string     `gorm:"size:32;not null;index"`
	CancelReason             string     `gorm:"size:500;not null;default:''"`
	CancelledForNoDriver     bool       `gorm:"not null;default:false"`
	Version                  int64      `gorm:"not null"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	pickupAt := aggregate.PickupAt().UTC()

	return OrderDTO{
		ID:                       aggregate.ID().Bytes(),
		TrackingID:               aggregate.TrackingID().String(),
		ClientID:                 aggregate.ClientID().Bytes(),
		DriverID:                 driverID,
		PickupAt:                 pickupAt,
		BusyUntil:                pickupAt.Add(aggregate.EstimatedDuration()),
		EstimatedDurationSeconds: int64(aggregate.EstimatedDuration() / time.Second),
		Status:                   aggregate.Status().String(),
		CancelReason:             aggregate.CancelReason(),
		CancelledForNoDriver:     aggregate.CancelledForNoDriver(),
		Version:                  aggregate.Version(),
	}
}

// updates lists every mutable column, zero values included.
func (dto OrderDTO) updates() map[string]any {
	return map[string]any{
		"driver_id":               dto.DriverID,
		"pickup_at":               dto.PickupAt,
		"busy_until":              dto.BusyUntil,
		"status":                  dto.Status,
		"cancel_reason":           dto.CancelReason,
		"cancelled_for_no_driver": dto.CancelledForNoDriver,
		"version":                 dto.Version + 1,
		"updated_at":              time.Now().UTC(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}

	trackingID, err := kernel.TrackingIDFromString(dto.TrackingID)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                   id,
		TrackingID:           trackingID,
		ClientID:             clientID,
		DriverID:             driverID,
		PickupAt:             dto.PickupAt,
		EstimatedDuration:    time.Duration(dto.EstimatedDurationSeconds) * time.Second,
		Status:               status,
		CancelReason:         dto.CancelReason,
		CancelledForNoDriver: dto.CancelledForNoDriver,
		Version:              dto.Version,
	})
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
