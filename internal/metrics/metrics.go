package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classification metrics
var (
	// ClassificationsTotal tracks completed classifications by engine and label
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_classifications_total",
			Help: "Total completed sentiment classifications by engine and label",
		},
		[]string{"engine", "label"},
	)

	// ClassificationDuration tracks classification latency in seconds by engine
	ClassificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_classification_duration_seconds",
			Help:    "Sentiment classification duration in seconds by engine",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"engine"},
	)

	// ModelFailuresTotal tracks model engine failures by reason
	ModelFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_model_failures_total",
			Help: "Total model engine failures by reason (transport, status, parse, schema, breaker)",
		},
		[]string{"reason"},
	)

	// FallbacksTotal tracks how often the keyword engine absorbed a model failure
	FallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentiment_fallbacks_total",
			Help: "Total classifications served by the keyword fallback after a model failure",
		},
	)

	// CacheHitsTotal tracks result cache hits and misses
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_cache_requests_total",
			Help: "Result cache lookups by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)
)

// Persistence metrics
var (
	// RecordsSavedTotal tracks persisted sentiment records
	RecordsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentiment_records_saved_total",
			Help: "Total sentiment records written to storage",
		},
	)
)
