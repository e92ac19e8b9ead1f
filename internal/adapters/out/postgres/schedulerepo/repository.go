// Package schedulerepo keeps the per-driver schedule version that serializes
// driver assignments.
package schedulerepo

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DriverScheduleDTO struct {
	DriverID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Version   int64     `gorm:"not null"`
	UpdatedAt time.Time
}

func (DriverScheduleDTO) TableName() string {
	return "driver_schedules"
}

// GormDriverScheduleRepository implements ports.DriverScheduleRepository using GORM.
type GormDriverScheduleRepository struct {
	db *gorm.DB
}

func NewGormDriverScheduleRepository(db *gorm.DB) *GormDriverScheduleRepository {
	return &GormDriverScheduleRepository{db: db}
}

// Lock creates the schedule row of driverID on first use and returns its version.
func (r *GormDriverScheduleRepository) Lock(ctx context.Context, driverID kernel.UUID) (int64, error) {
	if err := driverID.Validate(); err != nil {
		return 0, err
	}

	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&DriverScheduleDTO{DriverID: driverID.Bytes(), Version: 1, UpdatedAt: time.Now().UTC()}).Error
	if err != nil {
		return 0, err
	}

	var dto DriverScheduleDTO
	if err = db.Take(&dto, "driver_id = ?", driverID.Bytes()).Error; err != nil {
		return 0, err
	}

	return dto.Version, nil
}

// Bump advances the version of driverID if it still equals expected.
func (r *GormDriverScheduleRepository) Bump(ctx context.Context, driverID kernel.UUID, expected int64) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&DriverScheduleDTO{}).
		Where("driver_id = ? AND version = ?", driverID.Bytes(), expected).
		Updates(map[string]any{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause(
			"driver schedule",
			fmt.Errorf("schedule of driver %s changed after version %d was read", driverID, expected),
		)
	}

	return nil
}
