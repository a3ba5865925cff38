package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion
var (
	// IndexBuildsTotal counts pipeline builds by status (success, failed).
	IndexBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqa_index_builds_total",
			Help: "Pipeline builds by outcome",
		},
		[]string{"status"},
	)

	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docqa_index_build_duration_seconds",
			Help:    "Time spent loading, chunking, embedding and indexing an upload",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	IndexedChunks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docqa_indexed_chunks",
			Help:    "Chunks per built index",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		},
	)
)

// Querying
var (
	// QueriesTotal counts answered questions by outcome
	// (answered, not_found, generation_failed, embedding_failed).
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqa_queries_total",
			Help: "Questions by outcome",
		},
		[]string{"outcome"},
	)

	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docqa_query_duration_seconds",
			Help:    "End-to-end question latency including generation",
			Buckets: prometheus.DefBuckets,
		},
	)

	ContextChunks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docqa_context_chunks",
			Help:    "Chunks selected as answer context",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 20},
		},
	)

	RetrieverFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docqa_retriever_fallbacks_total",
			Help: "Times the adaptive cut-off was replaced by the fixed top results",
		},
	)
)

// Sessions
var (
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docqa_active_sessions",
			Help: "Sessions with a loaded pipeline",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqa_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "path", "status"},
	)
)
