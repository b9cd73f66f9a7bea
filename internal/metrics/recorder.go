package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"quantBreakoutBot/internal/domain"
)

// Recorder exposes the engine's operational counters via Prometheus.
type Recorder struct {
	cyclesTotal       prometheus.Counter
	candidatesTotal   prometheus.Counter
	ordersTotal       prometheus.Counter
	candidateOutcomes *prometheus.CounterVec
	cycleDuration     prometheus.Histogram
}

// New creates the recorder on the default registry.
func New() *Recorder {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates the recorder on a specific registry.
func NewWith(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		cyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "quantbot_cycles_total",
			Help: "Total number of completed scan cycles",
		}),
		candidatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "quantbot_candidates_screened_total",
			Help: "Total number of breakout candidates produced by screening",
		}),
		ordersTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "quantbot_orders_submitted_total",
			Help: "Total number of bracket orders submitted",
		}),
		candidateOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quantbot_candidate_outcomes_total",
			Help: "Candidate evaluations by outcome",
		}, []string{"outcome"}),
		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "quantbot_cycle_duration_seconds",
			Help:    "Duration of one full scan cycle in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
}

// RecordCycle records a finished cycle and its duration in seconds.
func (r *Recorder) RecordCycle(seconds float64) {
	r.cyclesTotal.Inc()
	r.cycleDuration.Observe(seconds)
}

// RecordCandidates records the number of candidates a screen produced.
func (r *Recorder) RecordCandidates(n int) {
	r.candidatesTotal.Add(float64(n))
}

// RecordOutcome records how one candidate evaluation resolved.
func (r *Recorder) RecordOutcome(outcome domain.Outcome) {
	r.candidateOutcomes.WithLabelValues(string(outcome)).Inc()
	if outcome == domain.OutcomeOrdered {
		r.ordersTotal.Inc()
	}
}
