// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_decisions_total",
			Help: "Total number of route guard decisions",
		},
		[]string{"guard", "decision"},
	)

	CheckoutOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_outcomes_total",
			Help: "Total number of checkout attempts by terminal outcome",
		},
		[]string{"outcome"},
	)

	CheckoutDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "checkout_duration_seconds",
			Help: "Duration of checkout attempts in seconds",
		},
		[]string{"outcome"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of backend API requests",
		},
		[]string{"client", "method", "status"},
	)

	SessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_transitions_total",
			Help: "Total number of session state transitions",
		},
		[]string{"state"},
	)
)
