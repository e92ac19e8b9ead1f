package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new order. A duplicate tracking id yields ports.ErrTrackingIDTaken.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ports.ErrTrackingIDTaken, dto.TrackingID)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order if its stored version still equals aggregate.Version()
// and bumps the version on both sides.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(dto.updates())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidErrorWithCause(
			"order",
			fmt.Errorf("order %s changed after version %d was read", aggregate.TrackingID(), dto.Version),
		)
	}

	aggregate.BumpVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByTrackingID(ctx context.Context, trackingID kernel.TrackingID) (*order.Order, error) {
	if err := trackingID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "tracking_id = ?", trackingID.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", trackingID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListBookedForDriver returns the orders of driverID in a booking status whose
// busy interval overlaps window.
func (r *GormOrderRepository) ListBookedForDriver(
	ctx context.Context,
	driverID kernel.UUID,
	window kernel.Interval,
) ([]*order.Order, error) {
	if err := errors.Join(driverID.Validate(), window.Validate()); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID.Bytes()).
		Where("status IN ?", statusNames(order.BookingStatuses())).
		Where("pickup_at < ? AND busy_until > ?", window.End().UTC(), window.Start().UTC()).
		Order("pickup_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderRepository) ListPlacedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("limit", fmt.Errorf("%d is not greater than 0", limit))
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND pickup_at < ?", order.Placed.String(), cutoff.UTC()).
		Order("pickup_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func statusNames(statuses []order.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
