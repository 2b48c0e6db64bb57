package derive

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// EmbeddingStore is the persistence surface of the embedding cache.
type EmbeddingStore interface {
	GetTopicEmbeddings(ctx context.Context, phrases []string) (map[string][]float32, error)
	SaveTopicEmbedding(ctx context.Context, phrase string, embedding []float32) error
}

// BatchEmbedder is the upstream the cache falls through to.
type BatchEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CachedEmbedder fronts the provider registry with the topic_embeddings
// table. Canonical topics repeat across accounts and across reruns of the
// same account, so caching them cuts most umbrella-build embedding calls.
// Cache failures degrade to plain registry calls, never to errors.
type CachedEmbedder struct {
	store    EmbeddingStore
	upstream BatchEmbedder
	logger   *zerolog.Logger
}

func NewCachedEmbedder(store EmbeddingStore, upstream BatchEmbedder, logger *zerolog.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		store:    store,
		upstream: upstream,
		logger:   logger,
	}
}

// Embed passes single texts straight through; whole transcripts are unique
// per video and not worth caching.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return c.upstream.Embed(ctx, text) //nolint:wrapcheck
}

// EmbedBatch returns cached vectors where available and embeds only the
// misses, preserving input order.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	cached, err := c.store.GetTopicEmbeddings(ctx, texts)
	if err != nil {
		c.logger.Warn().Err(err).Msg("embedding cache lookup failed, embedding everything")

		cached = map[string][]float32{}
	}

	misses := make([]string, 0, len(texts))

	for _, text := range texts {
		if _, ok := cached[text]; !ok {
			misses = append(misses, text)
		}
	}

	if len(misses) > 0 {
		fresh, err := c.upstream.EmbedBatch(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("embed cache misses: %w", err)
		}

		for i, text := range misses {
			cached[text] = fresh[i]

			if saveErr := c.store.SaveTopicEmbedding(ctx, text, fresh[i]); saveErr != nil {
				c.logger.Warn().Err(saveErr).Str("phrase", text).Msg("failed to cache embedding")
			}
		}
	}

	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = cached[text]
	}

	return vecs, nil
}
