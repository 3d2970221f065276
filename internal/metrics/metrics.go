// Package metrics holds the Prometheus collectors for engagement actions.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	MetricEngagementActions = "actions_total"
	MetricPartialStates     = "partial_states_total"
	MetricCounterDrift      = "follow_counter_drift_total"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// CounterActions counts engine actions by action and outcome.
var CounterActions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "engagement",
		Name:      MetricEngagementActions,
		Help:      "Engagement actions handled, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// CounterPartialStates counts side-effect steps that failed after the primary write.
var CounterPartialStates = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "engagement",
		Name:      MetricPartialStates,
		Help:      "Side-effect steps that failed after the primary record was written.",
	},
	[]string{"step"},
)

// CounterFollowDrift counts follower counter corrections made by reconciliation.
var CounterFollowDrift = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "engagement",
		Name:      MetricCounterDrift,
		Help:      "Follower counters corrected by reconciliation.",
	},
)

func init() {
	prometheus.MustRegister(CounterActions)
	prometheus.MustRegister(CounterPartialStates)
	prometheus.MustRegister(CounterFollowDrift)
}

// Observe records the outcome of one action. Rejections are the expected
// idempotent refusals (already liked, not following, ...).
func Observe(action string, err error, rejected func(error) bool) {
	outcome := OutcomeOK
	switch {
	case err == nil:
	case rejected != nil && rejected(err):
		outcome = OutcomeRejected
	default:
		outcome = OutcomeError
	}
	CounterActions.WithLabelValues(action, outcome).Inc()
}
