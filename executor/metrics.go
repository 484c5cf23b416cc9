package executor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates pipeline observability counters. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
}

// NewMetrics registers the pipeline collectors on reg. Passing the same
// registerer twice panics (prometheus duplicate registration), so callers
// construct one Metrics per process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dynabaml",
			Name:      "runs_total",
			Help:      "Pipeline runs by provider and outcome.",
		}, []string{"provider", "outcome"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dynabaml",
			Name:      "step_duration_seconds",
			Help:      "Duration of each pipeline step.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step"}),
	}
	if reg != nil {
		reg.MustRegister(m.runs, m.stepDuration)
	}
	return m
}

// RecordRun counts one finished run. outcome is "success" or the error
// wire name.
func (m *Metrics) RecordRun(provider, outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(provider, outcome).Inc()
}

// ObserveStep records one step duration.
func (m *Metrics) ObserveStep(step string, d time.Duration) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}
