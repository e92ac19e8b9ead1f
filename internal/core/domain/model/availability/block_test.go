package availability_test

import (
	"strings"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/availability"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlock(t *testing.T) {
	window, err := kernel.NewInterval(
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	driverID := kernel.NewUUID()

	t.Run("should create block", func(t *testing.T) {
		b, err := availability.NewBlock(kernel.NewUUID(), driverID, window, "  morning shift ")

		require.NoError(t, err)
		require.NoError(t, b.Validate())
		assert.True(t, b.BelongsTo(driverID))
		assert.False(t, b.BelongsTo(kernel.NewUUID()))
		assert.True(t, b.Interval().IsEqual(window))
		assert.Equal(t, "morning shift", b.Label())
	})

	t.Run("should allow empty label", func(t *testing.T) {
		b, err := availability.NewBlock(kernel.NewUUID(), driverID, window, "")

		require.NoError(t, err)
		assert.Empty(t, b.Label())
	})

	t.Run("should reject overlong label", func(t *testing.T) {
		_, err := availability.NewBlock(kernel.NewUUID(), driverID, window, strings.Repeat("é", availability.MaxLabelLength+1))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should join validation errors", func(t *testing.T) {
		_, err := availability.NewBlock(kernel.UUID{}, kernel.UUID{}, kernel.Interval{}, "")

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, kernel.ErrIntervalIsNotConstructed)
	})

	t.Run("literal block fails validation", func(t *testing.T) {
		var b *availability.Block
		assert.Equal(t, availability.ErrBlockIsNotConstructed, b.Validate())
	})
}
