package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDriverAvailabilityQueryHandler struct {
	db *gorm.DB
}

func NewGetDriverAvailabilityQueryHandler(db *gorm.DB) GetDriverAvailabilityQueryHandler {
	return GetDriverAvailabilityQueryHandler{db: db}
}

// Handle returns the driver's blocks overlapping the query window, ordered by start.
// Blocks are returned whole, not clipped to the window.
func (h GetDriverAvailabilityQueryHandler) Handle(
	ctx context.Context,
	query GetDriverAvailabilityQuery,
) (*GetDriverAvailabilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			starts_at,
			ends_at,
			label
		FROM availability_blocks
		WHERE driver_id = ? AND starts_at < ? AND ends_at > ?
		ORDER BY starts_at, ends_at
	`, query.DriverID().Bytes(), query.Window().End(), query.Window().Start()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blocks := make([]AvailabilityBlockView, 0)
	for rows.Next() {
		var (
			id       uuid.UUID
			startsAt time.Time
			endsAt   time.Time
			label    string
		)

		if err = rows.Scan(&id, &startsAt, &endsAt, &label); err != nil {
			return nil, err
		}

		blockID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		blocks = append(blocks, AvailabilityBlockView{
			ID:    blockID,
			Start: startsAt.UTC(),
			End:   endsAt.UTC(),
			Label: label,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &GetDriverAvailabilityQueryResponse{
		DriverID: query.DriverID(),
		Blocks:   blocks,
	}, nil
}
