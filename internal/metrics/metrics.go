// Package metrics exposes the Prometheus instruments for the intake
// pipeline. Instruments register on the default registry at init; the
// server serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts pipeline outcomes. outcome is "accepted" or
	// "rejected"; kind is the rejection kind (empty for accepted).
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formgate_submissions_total",
			Help: "Form submissions processed, by outcome and rejection kind",
		},
		[]string{"outcome", "kind"},
	)

	// CollaboratorFailures counts errors from external collaborators.
	CollaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formgate_collaborator_failures_total",
			Help: "Collaborator call failures, by collaborator name",
		},
		[]string{"collaborator"},
	)

	// PipelineDuration observes end-to-end pipeline latency in seconds.
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "formgate_pipeline_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)
)
