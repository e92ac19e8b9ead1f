package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics counts the outcomes of scheduling and lifecycle operations.
type EngineMetrics struct {
	transitions      *prometheus.CounterVec
	slotConflicts    prometheus.Counter
	pickupRejections *prometheus.CounterVec
}

// NewEngineMetrics registers the engine counters on reg. A nil reg yields a
// recorder that drops everything.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Order status transitions recorded, by target status.",
	}, []string{"status"})
	slotConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_slot_conflicts_total",
		Help: "Driver assignments refused because the slot was no longer free.",
	})
	pickupRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_rejections_total",
		Help: "Pickup scans refused, by reason.",
	}, []string{"reason"})
	reg.MustRegister(transitions, slotConflicts, pickupRejections)
	return &EngineMetrics{
		transitions:      transitions,
		slotConflicts:    slotConflicts,
		pickupRejections: pickupRejections,
	}
}

func (m *EngineMetrics) ObserveTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

func (m *EngineMetrics) IncSlotConflict() {
	if m == nil || m.slotConflicts == nil {
		return
	}
	m.slotConflicts.Inc()
}

func (m *EngineMetrics) IncPickupRejection(reason string) {
	if m == nil || m.pickupRejections == nil {
		return
	}
	m.pickupRejections.WithLabelValues(normalizeLabel(reason)).Inc()
}
