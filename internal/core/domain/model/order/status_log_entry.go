package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrStatusLogEntryIsNotConstructed is returned when a StatusLogEntry was not created
// through NewStatusLogEntry or RestoreStatusLogEntry.
var ErrStatusLogEntryIsNotConstructed = errors.New("StatusLogEntry must be created via NewStatusLogEntry constructor")

// StatusLogEntry is one row of an order's append-only status history.
//
// The entry with the highest sequence is the authoritative current status of
// the order; Order.Status is only a cache of it. Sequences start at 1 and grow by
// one per transition, so two writers racing on the same order collide on
// (order_id, sequence) in storage.
type StatusLogEntry struct {
	id          kernel.UUID
	orderID     kernel.UUID
	sequence    int64
	status      Status
	description string
	actor       kernel.Actor
	occurredAt  time.Time

	isConstructed bool
}

// NewStatusLogEntry creates a log entry. Entries are never mutated after creation.
func NewStatusLogEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	sequence int64,
	status Status,
	description string,
	actor kernel.Actor,
	occurredAt time.Time,
) (*StatusLogEntry, error) {
	entry := &StatusLogEntry{
		description:   description,
		occurredAt:    occurredAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		entry.setID(id),
		entry.setOrderID(orderID),
		entry.setSequence(sequence),
		entry.setStatus(status),
		entry.setActor(actor),
		entry.setOccurredAt(occurredAt),
	); err != nil {
		return nil, err
	}

	return entry, nil
}

// RestoreStatusLogEntry rebuilds an entry loaded from storage.
func RestoreStatusLogEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	sequence int64,
	status Status,
	description string,
	actor kernel.Actor,
	occurredAt time.Time,
) (*StatusLogEntry, error) {
	return NewStatusLogEntry(id, orderID, sequence, status, description, actor, occurredAt)
}

func (e *StatusLogEntry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrStatusLogEntryIsNotConstructed
	}
	return nil
}

func (e *StatusLogEntry) ID() kernel.UUID {
	return e.id
}

func (e *StatusLogEntry) OrderID() kernel.UUID {
	return e.orderID
}

func (e *StatusLogEntry) Sequence() int64 {
	return e.sequence
}

func (e *StatusLogEntry) Status() Status {
	return e.status
}

func (e *StatusLogEntry) Description() string {
	return e.description
}

func (e *StatusLogEntry) Actor() kernel.Actor {
	return e.actor
}

func (e *StatusLogEntry) OccurredAt() time.Time {
	return e.occurredAt
}

func (e *StatusLogEntry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *StatusLogEntry) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	e.orderID = orderID
	return nil
}

func (e *StatusLogEntry) setSequence(sequence int64) error {
	if sequence < 1 {
		return errs.NewValueIsInvalidErrorWithCause("sequence is invalid", fmt.Errorf("%d is not greater than 0", sequence))
	}
	e.sequence = sequence
	return nil
}

func (e *StatusLogEntry) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	e.status = status
	return nil
}

func (e *StatusLogEntry) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	e.actor = actor
	return nil
}

func (e *StatusLogEntry) setOccurredAt(occurredAt time.Time) error {
	if occurredAt.IsZero() {
		return errs.NewValueIsRequiredError("occurred at")
	}
	return nil
}
