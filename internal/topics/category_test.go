package topics

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorlens/topic-engine/internal/core/domain"
	"github.com/creatorlens/topic-engine/internal/core/embeddings"
	"github.com/creatorlens/topic-engine/internal/core/errors"
)

func testClassifier() *Classifier {
	logger := zerolog.Nop()
	registry := embeddings.NewRegistry(embeddings.DefaultDimensions, &logger)
	registry.Register(embeddings.NewMockProvider(), embeddings.DefaultCircuitBreakerConfig())

	return NewClassifier(registry)
}

func TestClassify(t *testing.T) {
	c := testClassifier()

	account := domain.AccountTopics{
		Account: "creator",
		Tags: []domain.CanonicalGroup{
			{Canonical: "meditation", Frequency: 5},
			{Canonical: "sleep hygiene", Frequency: 3},
		},
	}

	result, err := c.Classify(context.Background(), account)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Category)
	assert.Contains(t, result.AllScores, result.Category)
	assert.Len(t, result.AllScores, len(broadCategories))

	// Confidence is the winning raw cosine, so it stays within [-1,1] and
	// equals the category's own score.
	assert.GreaterOrEqual(t, result.Confidence, -1.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.InDelta(t, result.AllScores[result.Category], result.Confidence, 1e-9)
}

func TestClassifyDeterministic(t *testing.T) {
	c := testClassifier()

	account := domain.AccountTopics{
		Account: "creator",
		Tags:    []domain.CanonicalGroup{{Canonical: "strength training"}, {Canonical: "protein intake"}},
	}

	first, err := c.Classify(context.Background(), account)
	require.NoError(t, err)

	second, err := c.Classify(context.Background(), account)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassifyNoTopics(t *testing.T) {
	c := testClassifier()

	_, err := c.Classify(context.Background(), domain.AccountTopics{Account: "creator"})
	require.ErrorIs(t, err, errors.ErrNoTopics)
}
