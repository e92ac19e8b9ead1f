// Package availabilityrepo stores the availability blocks drivers declare.
package availabilityrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type AvailabilityBlockDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID  uuid.UUID `gorm:"type:uuid;not null;index:idx_availability_blocks_driver_start,priority:1"`
	StartsAt  time.Time `gorm:"not null;index:idx_availability_blocks_driver_start,priority:2"`
	EndsAt    time.Time `gorm:"not null"`
	Label     string    `gorm:"size:100;not null;default:''"`
	CreatedAt time.Time
}

func (AvailabilityBlockDTO) TableName() string {
	return "availability_blocks"
}

func fromDomain(block *availability.Block) AvailabilityBlockDTO {
	return AvailabilityBlockDTO{
		ID:       block.ID().Bytes(),
		DriverID: block.DriverID().Bytes(),
		StartsAt: block.Interval().Start().UTC(),
		EndsAt:   block.Interval().End().UTC(),
		Label:    block.Label(),
	}
}

func toDomain(dto AvailabilityBlockDTO) (*availability.Block, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	interval, err := kernel.NewInterval(dto.StartsAt, dto.EndsAt)
	if err != nil {
		return nil, err
	}

	return availability.NewBlock(id, driverID, interval, dto.Label)
}
