package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fulfillment/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "fulfillment.notifications"

type publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte, headers amqp.Table) error
}

// Notifier implements ports.Notifier. Messages are routed by status so bound
// queues may filter on it.
type Notifier struct {
	publisher publisher
	exchange  string
}

func NewNotifier(p publisher, exchange string) (*Notifier, error) {
	if p == nil {
		return nil, errors.New("rabbitmq publisher is required")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Notifier{publisher: p, exchange: exchange}, nil
}

func (n *Notifier) Notify(ctx context.Context, notification ports.StatusNotification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	headers := amqp.Table{"tracking_id": notification.TrackingID}
	if err = n.publisher.Publish(ctx, n.exchange, notification.Status, body, headers); err != nil {
		return fmt.Errorf("publish %s notification for %s: %w", notification.Status, notification.TrackingID, err)
	}
	return nil
}
