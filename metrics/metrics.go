package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for dispatch and lifecycle operations.
const (
	OutcomeCreated          = "created"
	OutcomeSucceeded        = "succeeded"
	OutcomeValidationFailed = "validation_failed"
	OutcomeNotFound         = "not_found"
	OutcomeStoreFailed      = "store_failed"
)

var (
	// DispatchCount counts create-and-dispatch requests by channel and outcome.
	DispatchCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatch_total",
			Help: "Total number of notification create-and-dispatch requests",
		},
		[]string{"type", "outcome"},
	)

	// PublishFailureCount counts notifications that were stored but couldn't be handed to the broker.
	PublishFailureCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_publish_failures_total",
			Help: "Total number of stored notifications that could not be published",
		},
		[]string{"type"},
	)

	// LifecycleCount counts fetch, mark-read, edit and delete requests.
	LifecycleCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_lifecycle_total",
			Help: "Total number of notification lifecycle requests",
		},
		[]string{"operation", "outcome"},
	)
)

// IncrementDispatch records the outcome of a create-and-dispatch request. The type may be empty if validation failed.
func IncrementDispatch(notificationType, outcome string) {
	DispatchCount.WithLabelValues(notificationType, outcome).Inc()
}

// IncrementPublishFailure records a notification that was stored but not published.
func IncrementPublishFailure(notificationType string) {
	PublishFailureCount.WithLabelValues(notificationType).Inc()
}

// IncrementLifecycle records the outcome of a lifecycle request.
func IncrementLifecycle(operation, outcome string) {
	LifecycleCount.WithLabelValues(operation, outcome).Inc()
}
