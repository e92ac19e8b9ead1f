package ports

import (
	"context"
	"time"
)

// StatusNotification is the client-facing message sent after an order reached a
// status clients are told about.
type StatusNotification struct {
	TrackingID  string    `json:"tracking_id"`
	ClientID    string    `json:"client_id"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Notifier delivers status notifications. Callers never roll back a transition
// because Notify failed.
type Notifier interface {
	Notify(ctx context.Context, n StatusNotification) error
}
