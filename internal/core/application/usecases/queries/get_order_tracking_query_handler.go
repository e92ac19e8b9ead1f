package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderTrackingQueryHandler reads the tracking view straight from the orders
// and order_status_log tables.
type GetOrderTrackingQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderTrackingQueryHandler(db *gorm.DB) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db}
}

// Handle returns the order and its full status history. The current status is
// taken from the latest log entry; the cached column is only a fallback for
// orders without history.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (*GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		id              uuid.UUID
		cachedStatus    string
		pickupAt        time.Time
		durationSeconds int64
		hasDriver       bool
		cancelReason    string
	)

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			pickup_at,
			estimated_duration_seconds,
			driver_id IS NOT NULL,
			cancel_reason
		FROM orders
		WHERE tracking_id = ?
	`, query.TrackingID().String()).Row().Scan(
		&id,
		&cachedStatus,
		&pickupAt,
		&durationSeconds,
		&hasDriver,
		&cancelReason,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("order", query.TrackingID())
	}
	if err != nil {
		return nil, err
	}

	history, err := h.history(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(cachedStatus)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		status = history[len(history)-1].Status
	}

	return &GetOrderTrackingQueryResponse{
		TrackingID:        query.TrackingID(),
		Status:            status,
		PickupAt:          pickupAt.UTC(),
		EstimatedDuration: time.Duration(durationSeconds) * time.Second,
		DriverAssigned:    hasDriver,
		CancelReason:      cancelReason,
		History:           history,
	}, nil
}

func (h GetOrderTrackingQueryHandler) history(ctx context.Context, orderID uuid.UUID) ([]TrackingEvent, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			sequence,
			status,
			description,
			actor_role,
			occurred_at
		FROM order_status_log
		WHERE order_id = ?
		ORDER BY sequence
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]TrackingEvent, 0)
	for rows.Next() {
		var (
			event      TrackingEvent
			status     string
			actorRole  string
			occurredAt time.Time
		)

		if err = rows.Scan(&event.Sequence, &status, &event.Description, &actorRole, &occurredAt); err != nil {
			return nil, err
		}

		if event.Status, err = order.StatusFromString(status); err != nil {
			return nil, err
		}
		event.ActorRole = kernel.Role(actorRole)
		event.OccurredAt = occurredAt.UTC()

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
