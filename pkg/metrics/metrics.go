// Package metrics exposes Prometheus collectors for the creation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storycraft"

// Creation outcomes.
const (
	StatusSuccess  = "success"
	StatusInvalid  = "invalid"
	StatusTemplate = "template_error"
	StatusFailed   = "generation_failed"
)

var (
	CreationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "creation",
			Name:      "total",
			Help:      "Total number of creation requests by outcome",
		},
		[]string{"category", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Generation backend call duration in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	PromptTokens = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "prompt_tokens",
			Help:      "Token count of resolved prompts",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 8),
		},
	)

	// One series per artifact: text, document and log.
	PersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "failures_total",
			Help:      "Artifact writes that failed",
		},
		[]string{"artifact"},
	)
)

func RecordCreation(category, status string) {
	CreationsTotal.WithLabelValues(category, status).Inc()
}

func RecordGeneration(provider string, seconds float64) {
	GenerationDuration.WithLabelValues(provider).Observe(seconds)
}

func RecordPromptTokens(n int) {
	PromptTokens.Observe(float64(n))
}

func RecordPersistFailure(artifact string) {
	PersistFailures.WithLabelValues(artifact).Inc()
}
