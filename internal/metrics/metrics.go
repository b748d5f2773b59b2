// Package metrics holds the prometheus collectors of the generation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationRequests counts pipeline outcomes:
	// ok, degraded, invalid_request, unavailable, empty_generation, canceled.
	GenerationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hireai",
		Subsystem: "generation",
		Name:      "requests_total",
		Help:      "Question generation requests by outcome.",
	}, []string{"outcome"})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hireai",
		Subsystem: "generation",
		Name:      "duration_seconds",
		Help:      "End-to-end duration of question generation.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	})

	LLMAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hireai",
		Subsystem: "llm",
		Name:      "attempts_total",
		Help:      "LLM call attempts by result kind.",
	}, []string{"result"})

	LLMAttemptDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hireai",
		Subsystem: "llm",
		Name:      "attempt_duration_seconds",
		Help:      "Latency of individual LLM call attempts.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9),
	})

	ParseModes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hireai",
		Subsystem: "generation",
		Name:      "parse_mode_total",
		Help:      "How model replies were parsed: strict, lenient or unparseable.",
	}, []string{"mode"})

	DocumentExtractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hireai",
		Subsystem: "document",
		Name:      "extractions_total",
		Help:      "Document extractions by media type and result.",
	}, []string{"media_type", "result"})

	CatalogCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hireai",
		Subsystem: "roleskills",
		Name:      "cache_lookups_total",
		Help:      "Skill catalog cache lookups: hit, miss or error.",
	}, []string{"result"})
)
