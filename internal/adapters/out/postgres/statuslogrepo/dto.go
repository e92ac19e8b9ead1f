// Package statuslogrepo stores the append-only order status history.
package statuslogrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// StatusLogEntryDTO is one row of order_status_log. (order_id, sequence) is unique.
type StatusLogEntryDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_status_log_sequence,priority:1"`
	Sequence    int64     `gorm:"not null;uniqueIndex:idx_order_status_log_sequence,priority:2"`
	Status      string    `gorm:"size:32;not null"`
	Description string    `gorm:"size:500;not null"`
	ActorID     uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole   string    `gorm:"size:16;not null"`
	OccurredAt  time.Time `gorm:"not null"`
}

func (StatusLogEntryDTO) TableName() string {
	return "order_status_log"
}

func fromDomain(entry *order.StatusLogEntry) StatusLogEntryDTO {
	return StatusLogEntryDTO{
		ID:          entry.ID().Bytes(),
		OrderID:     entry.OrderID().Bytes(),
		Sequence:    entry.Sequence(),
		Status:      entry.Status().String(),
		Description: entry.Description(),
		ActorID:     entry.Actor().ID().Bytes(),
		ActorRole:   entry.Actor().Role().String(),
		OccurredAt:  entry.OccurredAt().UTC(),
	}
}

func toDomain(dto StatusLogEntryDTO) (*order.StatusLogEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return nil, err
	}

	actor, err := kernel.NewActor(actorID, kernel.Role(dto.ActorRole))
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreStatusLogEntry(id, orderID, dto.Sequence, status, dto.Description, actor, dto.OccurredAt)
}
