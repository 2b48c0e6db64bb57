package embeddings

import (
	"context"
	"time"
)

// ProviderName identifies an embedding provider.
type ProviderName string

// Provider name constants.
const (
	ProviderOpenAI ProviderName = "openai"
	ProviderMock   ProviderName = "mock"
)

// Priority constants for provider ordering.
const (
	PriorityPrimary = 100 // Primary provider (OpenAI)
	PriorityMock    = 0   // Mock provider for testing
)

// DefaultDimensions is the default embedding width (matches the DB schema).
const DefaultDimensions = 1536

// Circuit breaker constants.
const defaultCircuitThreshold = 5

// API key constants.
const mockAPIKey = "mock"

// EmbeddingResult contains the embedding vector and metadata.
type EmbeddingResult struct {
	Vector     []float32
	Dimensions int
	Provider   ProviderName
}

// Provider defines the interface for embedding providers. The derivation
// pipeline embeds whole candidate sets at once, so batch support is part of
// the contract rather than an optimization.
type Provider interface {
	// Name returns the provider identifier.
	Name() ProviderName

	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) (EmbeddingResult, error)

	// EmbedBatch generates embeddings for all texts in one request,
	// preserving input order.
	EmbedBatch(ctx context.Context, texts []string) ([]EmbeddingResult, error)

	// IsAvailable returns true if the provider is currently available.
	IsAvailable() bool

	// Priority returns the provider priority (higher = preferred).
	Priority() int

	// Dimensions returns the native output dimensions of this provider.
	Dimensions() int
}

// CircuitBreakerConfig defines circuit breaker settings.
type CircuitBreakerConfig struct {
	Threshold  int           // Number of failures before opening circuit
	ResetAfter time.Duration // Time before attempting recovery
}

// DefaultCircuitBreakerConfig returns sensible defaults for circuit breaker.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Threshold:  defaultCircuitThreshold,
		ResetAfter: time.Minute,
	}
}
