// Package monitoring provides Prometheus metrics for the planning core.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors the planning core reports into. Oracle
// failures never surface to callers, so this is the only place they
// become visible for alerting.
type Metrics struct {
	PlansGenerated     *prometheus.CounterVec
	SwapOutcomes       *prometheus.CounterVec
	OracleFailures     *prometheus.CounterVec
	RateBudgetDenials  prometheus.Counter
	GenerationDuration prometheus.Histogram
}

// NewMetrics creates and registers the planning metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PlansGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snacktrack",
			Subsystem: "planner",
			Name:      "plans_generated_total",
			Help:      "Generated meal plans by horizon",
		}, []string{"horizon"}),

		SwapOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snacktrack",
			Subsystem: "planner",
			Name:      "swaps_total",
			Help:      "Slot swap attempts by outcome",
		}, []string{"outcome"}),

		OracleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snacktrack",
			Subsystem: "recommender",
			Name:      "oracle_failures_total",
			Help:      "Preference oracle failures by operation",
		}, []string{"operation"}),

		RateBudgetDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snacktrack",
			Subsystem: "recommender",
			Name:      "rate_budget_denials_total",
			Help:      "Oracle calls skipped because the rate budget was exhausted",
		}),

		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "snacktrack",
			Subsystem: "planner",
			Name:      "generation_duration_seconds",
			Help:      "Plan generation latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.PlansGenerated,
		m.SwapOutcomes,
		m.OracleFailures,
		m.RateBudgetDenials,
		m.GenerationDuration,
	)

	return m
}

// NewTestMetrics creates metrics on a private registry for tests.
func NewTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
