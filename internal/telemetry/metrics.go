// Package telemetry exposes the engine's Prometheus collectors. All
// metrics register on the default registry; the HTTP surface serves
// them at /metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts completed full analyses (baseline+stressed).
	AnalysesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xolsim_analyses_total",
		Help: "Completed reinsurance analyses",
	})

	// TrialsTotal counts simulated trials across all scenarios.
	TrialsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xolsim_trials_total",
		Help: "Monte Carlo trials simulated",
	})

	// ScenarioDuration tracks wall time per scenario run.
	ScenarioDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xolsim_scenario_duration_seconds",
		Help:    "Scenario simulation duration",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"scenario"})

	// ErrorsTotal counts failed analyses by error kind.
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xolsim_errors_total",
		Help: "Analysis failures by kind",
	}, []string{"kind"})
)

// ObserveScenario records one scenario run's duration and trial count.
func ObserveScenario(scenario string, trials int, elapsed time.Duration) {
	ScenarioDuration.WithLabelValues(scenario).Observe(elapsed.Seconds())
	TrialsTotal.Add(float64(trials))
}

// RecordError bumps the failure counter for an error kind
// ("config" or "computation").
func RecordError(kind string) {
	ErrorsTotal.WithLabelValues(kind).Inc()
}
