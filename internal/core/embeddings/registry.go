package embeddings

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Registry errors.
var (
	ErrNoProvidersAvailable = errors.New("no embedding providers available")
	ErrAllProvidersFailed   = errors.New("all embedding providers failed")
)

// Log key constants.
const logKeyProvider = "provider"

// Registry manages embedding providers with fallback support. It is
// constructed once at process start and never mutated afterward, so pipeline
// calls for different accounts may share it concurrently.
type Registry struct {
	mu              sync.RWMutex
	providers       map[ProviderName]Provider
	order           []ProviderName // Priority order (highest first)
	circuitBreakers map[ProviderName]*CircuitBreaker
	targetDimension int
	logger          *zerolog.Logger
}

// NewRegistry creates a new provider registry.
func NewRegistry(targetDimension int, logger *zerolog.Logger) *Registry {
	return &Registry{
		providers:       make(map[ProviderName]Provider),
		order:           make([]ProviderName, 0),
		circuitBreakers: make(map[ProviderName]*CircuitBreaker),
		targetDimension: targetDimension,
		logger:          logger,
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider, cfg CircuitBreakerConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	r.providers[name] = p
	r.order = append(r.order, name)
	r.circuitBreakers[name] = NewCircuitBreaker(cfg, r.logger)

	// Sort by priority (descending)
	sort.SliceStable(r.order, func(i, j int) bool {
		return r.providers[r.order[i]].Priority() > r.providers[r.order[j]].Priority()
	})

	SetEmbeddingProviderAvailable(string(name), p.IsAvailable())

	r.logger.Info().
		Str(logKeyProvider, string(name)).
		Int("priority", p.Priority()).
		Int("dimensions", p.Dimensions()).
		Msg("registered embedding provider")
}

// TargetDimension returns the dimension all returned vectors are fitted to.
func (r *Registry) TargetDimension() int {
	return r.targetDimension
}

// Embed returns an embedding for a single text, padded or truncated to the
// target dimension, trying providers in priority order.
func (r *Registry) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := r.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vecs[0], nil
}

// EmbedBatch embeds all texts in one provider call, preserving input order.
// This is the hot path: MMR candidate sets and canonical-topic sets are
// embedded as whole batches rather than one item at a time.
func (r *Registry) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	r.mu.RLock()
	providers := r.activeProviders()

	primary := ""
	if len(r.order) > 0 {
		primary = string(r.order[0])
	}
	r.mu.RUnlock()

	if len(providers) == 0 {
		return nil, ErrNoProvidersAvailable
	}

	var lastErr error

	tokens := estimateBatchTokens(texts)

	for _, p := range providers {
		cb := r.circuitBreaker(p.Name())
		providerName := string(p.Name())

		if !cb.CanAttempt() {
			r.logger.Debug().
				Str(logKeyProvider, providerName).
				Msg("skipping provider - circuit breaker open")
			SetEmbeddingProviderAvailable(providerName, false)

			continue
		}

		start := time.Now()
		results, err := p.EmbedBatch(ctx, texts)
		RecordEmbeddingLatency(providerName, time.Since(start))

		if err != nil {
			cb.RecordFailure(p.Name())
			RecordEmbeddingRequest(providerName, false)

			lastErr = err

			r.logger.Warn().
				Err(err).
				Str(logKeyProvider, providerName).
				Msg("embedding provider failed, trying fallback")

			continue
		}

		cb.RecordSuccess()
		RecordEmbeddingRequest(providerName, true)
		RecordEmbeddingTokens(providerName, tokens)
		SetEmbeddingProviderAvailable(providerName, true)

		if primary != "" && providerName != primary {
			RecordEmbeddingFallback(primary, providerName)
			r.logger.Info().
				Str(logKeyProvider, providerName).
				Str("from_provider", primary).
				Msg("used fallback embedding provider")
		}

		vecs := make([][]float32, len(results))
		for i, result := range results {
			vecs[i] = fitToDimension(result.Vector, r.targetDimension)
		}

		return vecs, nil
	}

	if lastErr != nil {
		return nil, errors.Join(ErrAllProvidersFailed, lastErr)
	}

	return nil, ErrNoProvidersAvailable
}

// ProviderCount returns the number of registered providers.
func (r *Registry) ProviderCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.providers)
}

// ProviderNames returns the names of all registered providers in priority order.
func (r *Registry) ProviderNames() []ProviderName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]ProviderName, len(r.order))
	copy(names, r.order)

	return names
}

// activeProviders returns available providers in priority order. Caller must
// hold at least a read lock.
func (r *Registry) activeProviders() []Provider {
	active := make([]Provider, 0, len(r.providers))

	for _, name := range r.order {
		p := r.providers[name]
		if p.IsAvailable() {
			active = append(active, p)
		}
	}

	return active
}

func (r *Registry) circuitBreaker(name ProviderName) *CircuitBreaker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.circuitBreakers[name]
}

// fitToDimension pads or truncates a vector to the target width. Zero-padding
// is safe for cosine similarity because zero components do not change the
// angle between vectors.
func fitToDimension(vec []float32, target int) []float32 {
	if target <= 0 || len(vec) == target {
		return vec
	}

	if len(vec) > target {
		return vec[:target]
	}

	padded := make([]float32, target)
	copy(padded, vec)

	return padded
}
