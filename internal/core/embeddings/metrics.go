package embeddings

import (
	"time"

	"github.com/creatorlens/topic-engine/internal/platform/observability"
)

// Metric status constants.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordEmbeddingRequest records an embedding request metric.
func RecordEmbeddingRequest(provider string, success bool) {
	status := StatusSuccess
	if !success {
		status = StatusError
	}

	observability.EmbeddingRequests.WithLabelValues(provider, status).Inc()
}

// RecordEmbeddingTokens records embedding token usage.
func RecordEmbeddingTokens(provider string, tokens int) {
	if tokens > 0 {
		observability.EmbeddingTokens.WithLabelValues(provider).Add(float64(tokens))
	}
}

// RecordEmbeddingLatency records embedding request latency.
func RecordEmbeddingLatency(provider string, duration time.Duration) {
	observability.EmbeddingLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordEmbeddingFallback records a fallback event.
func RecordEmbeddingFallback(fromProvider, toProvider string) {
	observability.EmbeddingFallbacks.WithLabelValues(fromProvider, toProvider).Inc()
}

// SetEmbeddingProviderAvailable sets the availability status of a provider.
func SetEmbeddingProviderAvailable(provider string, available bool) {
	value := 0.0
	if available {
		value = 1.0
	}

	observability.EmbeddingProviderAvailable.WithLabelValues(provider).Set(value)
}

// estimateBatchTokens estimates token usage for a batch using a rough ~4
// characters per token approximation.
func estimateBatchTokens(texts []string) int {
	const charsPerToken = 4

	total := 0
	for _, text := range texts {
		total += (len(text) + charsPerToken - 1) / charsPerToken
	}

	return total
}
