package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.ObserveDuration("expire-orders", 250*time.Millisecond)
	m.IncSuccess("expire-orders")
	m.IncFailure("expire-orders")
	m.IncFailure("")

	assert.InDelta(t, 1, testutil.ToFloat64(m.success.WithLabelValues("expire-orders")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.failure.WithLabelValues("expire-orders")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.failure.WithLabelValues("unknown")), 0)

	count, err := testutil.GatherAndCount(reg, "job_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.ObserveTransition("delivered")
	m.ObserveTransition("delivered")
	m.IncSlotConflict()
	m.IncPickupRejection("wrong_driver")

	assert.InDelta(t, 2, testutil.ToFloat64(m.transitions.WithLabelValues("delivered")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.slotConflicts), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.pickupRejections.WithLabelValues("wrong_driver")), 0)
}

func TestMetricsAreNilSafe(t *testing.T) {
	var engine *EngineMetrics
	var cron *CronJobMetrics

	assert.NotPanics(t, func() {
		engine.ObserveTransition("placed")
		engine.IncSlotConflict()
		engine.IncPickupRejection("malformed")
		cron.IncSuccess("job")
		NewEngineMetrics(nil).IncSlotConflict()
		NewCronJobMetrics(nil).ObserveDuration("job", time.Second)
	})
}
