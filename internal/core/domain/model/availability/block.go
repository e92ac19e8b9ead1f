// Package availability holds the time blocks drivers declare as bookable.
package availability

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const MaxLabelLength = 100

var ErrBlockIsNotConstructed = errors.New("Block must be created via NewBlock constructor")

// Block is a contiguous window during which a driver can be booked.
//
// Blocks are immutable: a driver changes availability by deleting a block and
// declaring a new one. Deleting a block does not touch orders already assigned
// into it.
type Block struct {
	id       kernel.UUID
	driverID kernel.UUID
	interval kernel.Interval
	label    string

	isConstructed bool
}

func NewBlock(id, driverID kernel.UUID, interval kernel.Interval, label string) (*Block, error) {
	block := &Block{isConstructed: true}

	if err := errors.Join(
		block.setID(id),
		block.setDriverID(driverID),
		block.setInterval(interval),
		block.setLabel(label),
	); err != nil {
		return nil, err
	}

	return block, nil
}

func (b *Block) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBlockIsNotConstructed
	}
	return nil
}

func (b *Block) ID() kernel.UUID {
	return b.id
}

func (b *Block) DriverID() kernel.UUID {
	return b.driverID
}

func (b *Block) Interval() kernel.Interval {
	return b.interval
}

func (b *Block) Label() string {
	return b.label
}

// BelongsTo reports whether the block was declared by driverID.
func (b *Block) BelongsTo(driverID kernel.UUID) bool {
	return b.driverID.IsEqual(driverID)
}

func (b *Block) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Block) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	b.driverID = driverID
	return nil
}

func (b *Block) setInterval(interval kernel.Interval) error {
	if err := interval.Validate(); err != nil {
		return err
	}
	b.interval = interval
	return nil
}

func (b *Block) setLabel(label string) error {
	label = strings.TrimSpace(label)
	if n := utf8.RuneCountInString(label); n > MaxLabelLength {
		return errs.NewValueIsInvalidErrorWithCause("label", fmt.Errorf("%d characters exceed %d", n, MaxLabelLength))
	}
	b.label = label
	return nil
}
