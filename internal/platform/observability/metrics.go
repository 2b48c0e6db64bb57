package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VideosProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topics_videos_processed_total",
		Help: "The total number of videos run through topic extraction",
	}, []string{"status"})

	ExtractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "topics_extraction_failures_total",
		Help: "Total number of per-video extraction failures (isolated, non-fatal)",
	})

	TopicsPerVideo = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "topics_per_video",
		Help:    "Number of topics emitted per video after all cutoffs",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 10, 15, 20},
	})

	CandidatesPerVideo = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "topics_candidates_per_video",
		Help:    "Number of deduplicated phrase candidates per video before selection",
		Buckets: []float64{0, 5, 10, 20, 50, 100, 200, 500},
	})

	AccountsDerived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topics_accounts_derived_total",
		Help: "Total number of account derivation runs",
	}, []string{"status"})

	DeriveBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "topics_derive_backlog_size",
		Help: "Number of accounts waiting for topic derivation",
	})

	DeriveDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "topics_derive_duration_seconds",
		Help:    "Duration in seconds of a full account derivation run",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300, 600},
	})

	UmbrellaBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topics_umbrella_builds_total",
		Help: "Total number of umbrella build attempts",
	}, []string{"status"})

	UmbrellaClusters = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "topics_umbrella_clusters",
		Help:    "Number of qualifying clusters found per umbrella build (pre-truncation)",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 12, 20},
	})

	ClusteringStrategyUsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topics_clustering_strategy_used_total",
		Help: "Total umbrella builds by clustering strategy",
	}, []string{"strategy"})

	// Embedding metrics
	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topics_embedding_requests_total",
		Help: "Total number of embedding requests",
	}, []string{"provider", "status"})

	EmbeddingTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topics_embedding_tokens_total",
		Help: "Total number of tokens processed for embeddings",
	}, []string{"provider"})

	EmbeddingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "topics_embedding_latency_seconds",
		Help:    "Latency of embedding requests by provider",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"provider"})

	EmbeddingProviderAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "topics_embedding_provider_available",
		Help: "Whether embedding provider is currently available (0=no, 1=yes)",
	}, []string{"provider"})

	EmbeddingFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topics_embedding_fallbacks_total",
		Help: "Total number of embedding fallback events",
	}, []string{"from_provider", "to_provider"})
)
