// Package notify decouples status transitions from the notification transport.
package notify

import (
	"context"
	"sync"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/logger"
)

const DefaultTimeout = 5 * time.Second

// AsyncNotifier implements ports.Notifier by delivering every notification on
// its own goroutine. Notify never blocks and never fails; delivery errors are
// logged.
type AsyncNotifier struct {
	next    ports.Notifier
	log     *logger.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

func NewAsyncNotifier(next ports.Notifier, log *logger.Logger, timeout time.Duration) *AsyncNotifier {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AsyncNotifier{next: next, log: log, timeout: timeout}
}

// Notify detaches from the caller's cancellation but keeps its logging fields.
func (n *AsyncNotifier) Notify(ctx context.Context, notification ports.StatusNotification) error {
	if n.next == nil {
		return nil
	}

	detached := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		sendCtx, cancel := context.WithTimeout(detached, n.timeout)
		defer cancel()

		if err := n.next.Notify(sendCtx, notification); err != nil {
			logCtx := n.log.WithFields(detached, map[string]any{
				"tracking_id": notification.TrackingID,
				"status":      notification.Status,
			})
			n.log.Error(logCtx, "client notification failed", err)
		}
	}()

	return nil
}

// Wait blocks until in-flight notifications finished or ctx is done.
func (n *AsyncNotifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
