package statuslogrepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStatusLogRepository implements ports.StatusLogRepository using GORM.
// Rows are only ever inserted.
type GormStatusLogRepository struct {
	db *gorm.DB
}

func NewGormStatusLogRepository(db *gorm.DB) *GormStatusLogRepository {
	return &GormStatusLogRepository{db: db}
}

func (r *GormStatusLogRepository) Append(ctx context.Context, entry *order.StatusLogEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewVersionIsInvalidErrorWithCause(
				"status log sequence",
				fmt.Errorf("order %s already has an entry %d: %w", entry.OrderID(), entry.Sequence(), err),
			)
		}
		return err
	}

	return nil
}

func (r *GormStatusLogRepository) Latest(ctx context.Context, orderID kernel.UUID) (*order.StatusLogEntry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	return r.latest(r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()), orderID)
}

func (r *GormStatusLogRepository) FindLatestWithStatus(
	ctx context.Context,
	orderID kernel.UUID,
	status order.Status,
) (*order.StatusLogEntry, error) {
	if err := errors.Join(orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("order_id = ? AND status = ?", orderID.Bytes(), status.String())
	return r.latest(query, orderID)
}

func (r *GormStatusLogRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.StatusLogEntry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StatusLogEntryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("sequence").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*order.StatusLogEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r *GormStatusLogRepository) latest(query *gorm.DB, orderID kernel.UUID) (*order.StatusLogEntry, error) {
	var dto StatusLogEntryDTO
	if err := query.Order("sequence DESC").Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("status log entry", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
