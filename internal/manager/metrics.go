package manager

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onnxd",
			Subsystem: "manager",
			Name:      "loads_total",
			Help:      "Total model load attempts by result",
		},
		[]string{"result"},
	)

	loadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "onnxd",
			Subsystem: "manager",
			Name:      "load_duration_seconds",
			Help:      "Duration of successful model loads in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	unloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "onnxd",
			Subsystem: "manager",
			Name:      "unloads_total",
			Help:      "Total model unloads",
		},
	)

	modelsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "onnxd",
			Subsystem: "manager",
			Name:      "models",
			Help:      "Models tracked by the manager, by state",
		},
		[]string{"state"},
	)

	executionContexts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "onnxd",
			Subsystem: "manager",
			Name:      "execution_contexts",
			Help:      "Execution contexts currently constructed",
		},
	)
)

func init() {
	prometheus.MustRegister(loadsTotal, loadDuration, unloadsTotal, modelsGauge, executionContexts)
}

// updateModelMetricsLocked recomputes the per-state model gauge and the
// execution context gauge. Caller holds m.mu.
func (m *Manager) updateModelMetricsLocked() {
	counts := map[State]int{StateReady: 0, StateLoading: 0, StateError: 0}
	ctxs := 0
	for _, e := range m.models {
		counts[e.State]++
		if e.Backend != nil {
			ctxs += len(e.Backend.Contexts())
		}
	}
	for st, n := range counts {
		modelsGauge.WithLabelValues(string(st)).Set(float64(n))
	}
	executionContexts.Set(float64(ctxs))
}
