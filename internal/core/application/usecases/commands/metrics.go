package commands

// Metrics receives the outcomes handlers count. *metrics.EngineMetrics implements it.
type Metrics interface {
	ObserveTransition(status string)
	IncSlotConflict()
	IncPickupRejection(reason string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveTransition(string)  {}
func (noopMetrics) IncSlotConflict()          {}
func (noopMetrics) IncPickupRejection(string) {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
