package availabilityrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAvailabilityRepository implements ports.AvailabilityRepository using GORM.
type GormAvailabilityRepository struct {
	db *gorm.DB
}

func NewGormAvailabilityRepository(db *gorm.DB) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{db: db}
}

func (r *GormAvailabilityRepository) Add(ctx context.Context, block *availability.Block) error {
	if err := block.Validate(); err != nil {
		return err
	}

	dto := fromDomain(block)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormAvailabilityRepository) Get(ctx context.Context, id kernel.UUID) (*availability.Block, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AvailabilityBlockDTO
	if err := r.db.WithContext(ctx).Take(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("availability block", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormAvailabilityRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).Delete(&AvailabilityBlockDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("availability block", id.String())
	}

	return nil
}

// ListByDriver returns the blocks of driverID overlapping window, ordered by start.
func (r *GormAvailabilityRepository) ListByDriver(
	ctx context.Context,
	driverID kernel.UUID,
	window kernel.Interval,
) ([]*availability.Block, error) {
	if err := errors.Join(driverID.Validate(), window.Validate()); err != nil {
		return nil, err
	}

	var dtos []AvailabilityBlockDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND starts_at < ? AND ends_at > ?", driverID.Bytes(), window.End().UTC(), window.Start().UTC()).
		Order("starts_at").
		Order("ends_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	blocks := make([]*availability.Block, 0, len(dtos))
	for _, dto := range dtos {
		block, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}
