package queries_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetFreeSlotsQuery(t *testing.T) {
	driverID := kernel.NewUUID()

	t.Run("defaults to UTC", func(t *testing.T) {
		q, err := queries.NewGetFreeSlotsQuery(driverID, "2025-03-10", "", 30*time.Minute)

		require.NoError(t, err)
		require.NoError(t, q.Validate())
		assert.Equal(t, time.UTC, q.Location())
		assert.Equal(t, monday, q.Day())
		assert.Equal(t, 30*time.Minute, q.MinDuration())
	})

	t.Run("local midnight", func(t *testing.T) {
		q, err := queries.NewGetFreeSlotsQuery(driverID, "2025-03-10", "America/New_York", time.Hour)

		require.NoError(t, err)
		assert.Equal(t, "America/New_York", q.Location().String())
		assert.Equal(t, 0, q.Day().Hour())
		assert.Equal(t, 10, q.Day().Day())
	})

	tests := []struct {
		name        string
		driverID    kernel.UUID
		date        string
		timezone    string
		minDuration time.Duration
		expected    error
	}{
		{"empty driver", kernel.UUID{}, "2025-03-10", "", time.Hour, kernel.ErrUUIDIsNotConstructed},
		{"missing date", driverID, "", "", time.Hour, errs.ErrValueIsRequired},
		{"malformed date", driverID, "10/03/2025", "", time.Hour, errs.ErrValueIsInvalid},
		{"unknown timezone", driverID, "2025-03-10", "Mars/Olympus", time.Hour, errs.ErrValueIsInvalid},
		{"zero duration", driverID, "2025-03-10", "", 0, errs.ErrValueIsOutOfRange},
		{"duration above a day", driverID, "2025-03-10", "", 25 * time.Hour, errs.ErrValueIsOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := queries.NewGetFreeSlotsQuery(tt.driverID, tt.date, tt.timezone, tt.minDuration)

			require.ErrorIs(t, err, tt.expected)
			assert.ErrorIs(t, q.Validate(), queries.ErrGetFreeSlotsQueryIsNotConstructed)
		})
	}
}
