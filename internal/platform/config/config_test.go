package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/topics_test")
	t.Setenv("EMBEDDING_API_KEY", "mock")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.AppEnv)
	assert.InDelta(t, 0.7, cfg.MMRLambda, 1e-9)
	assert.InDelta(t, -0.1, cfg.MMRNoiseFloor, 1e-9)
	assert.Equal(t, 10, cfg.MaxTopics)
	assert.Equal(t, 50, cfg.MinTranscriptChars)
	assert.InDelta(t, 0.7, cfg.SimilarityThreshold, 1e-9)
	assert.Equal(t, 2, cfg.MinClusterSize)
	assert.Equal(t, 5, cfg.MaxUmbrellas)
	assert.Equal(t, "auto", cfg.ClusteringStrategy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/topics_test")
	t.Setenv("EMBEDDING_API_KEY", "mock")
	t.Setenv("MMR_LAMBDA", "0.5")
	t.Setenv("SIMILARITY_THRESHOLD", "0.9")
	t.Setenv("MAX_UMBRELLAS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.5, cfg.MMRLambda, 1e-9)
	assert.InDelta(t, 0.9, cfg.SimilarityThreshold, 1e-9)
	assert.Equal(t, 3, cfg.MaxUmbrellas)
}
