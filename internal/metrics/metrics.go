// Package metrics defines the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookRequests counts webhook deliveries by event and outcome.
	// Outcomes: verified, missing_headers, invalid_timestamp,
	// stale_timestamp, invalid_signature, invalid_payload, payload_too_large,
	// handler_failure.
	WebhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghala_webhook_requests_total",
		Help: "Webhook deliveries received, by event and outcome.",
	}, []string{"event", "outcome"})

	// DispatchDuration observes end-to-end dispatch time across all handlers
	// for one event delivery.
	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ghala_dispatch_duration_seconds",
		Help:    "Time spent dispatching one event to all subscribed handlers.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event"})

	// HandlerFailures counts dispatches aborted by a handler error.
	HandlerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghala_handler_failures_total",
		Help: "Dispatches aborted by a failing handler, by event.",
	}, []string{"event"})
)
