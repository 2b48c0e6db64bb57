package umbrella

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorlens/topic-engine/internal/core/domain"
	"github.com/creatorlens/topic-engine/internal/core/embeddings"
)

// fixedProvider returns a preassigned vector per text, so tests control the
// similarity structure exactly.
type fixedProvider struct {
	vectors map[string][]float32
	dims    int
}

func (p *fixedProvider) Name() embeddings.ProviderName { return "fixed" }
func (p *fixedProvider) Priority() int                 { return embeddings.PriorityPrimary }
func (p *fixedProvider) Dimensions() int               { return p.dims }
func (p *fixedProvider) IsAvailable() bool             { return true }

func (p *fixedProvider) Embed(_ context.Context, text string) (embeddings.EmbeddingResult, error) {
	return embeddings.EmbeddingResult{Vector: p.vectors[text], Dimensions: p.dims, Provider: "fixed"}, nil
}

func (p *fixedProvider) EmbedBatch(ctx context.Context, texts []string) ([]embeddings.EmbeddingResult, error) {
	results := make([]embeddings.EmbeddingResult, len(texts))
	for i, text := range texts {
		results[i], _ = p.Embed(ctx, text)
	}

	return results, nil
}

func testBuilder(t *testing.T, vectors map[string][]float32, cfg Config) *Builder {
	t.Helper()

	logger := zerolog.Nop()
	registry := embeddings.NewRegistry(4, &logger)
	registry.Register(&fixedProvider{vectors: vectors, dims: 4}, embeddings.DefaultCircuitBreakerConfig())

	b, err := NewBuilder(registry, StrategyAuto, cfg, &logger)
	require.NoError(t, err)

	return b
}

func group(canonical string, freq int, videoIDs ...string) domain.CanonicalGroup {
	return domain.CanonicalGroup{Canonical: canonical, Frequency: freq, AvgScore: 0.5, VideoIDs: videoIDs}
}

func TestBuildTwoUmbrellas(t *testing.T) {
	vectors := map[string][]float32{
		"lucid dreaming":    vec(1, 0, 0, 0),
		"dream journaling":  vec(0.95, 0.312, 0, 0),
		"sleep hygiene":     vec(0.95, 0, 0.312, 0),
		"strength training": vec(0, 0, 0, 1),
		"protein intake":    vec(0, 0.312, 0, 0.95),
	}

	account := domain.AccountTopics{
		Account: "creator",
		Tags: []domain.CanonicalGroup{
			group("lucid dreaming", 4, "v1", "v2"),
			group("dream journaling", 2, "v2"),
			group("sleep hygiene", 3, "v3"),
			group("strength training", 5, "v4"),
			group("protein intake", 1, "v4", "v5"),
		},
	}

	b := testBuilder(t, vectors, DefaultConfig())

	result, err := b.Build(context.Background(), account)
	require.NoError(t, err)

	assert.Equal(t, "creator", result.Account)
	assert.Equal(t, 15, result.TotalTopics)
	assert.Equal(t, 5, result.CanonicalTopics)
	assert.Equal(t, StrategyLouvain, result.ClusteringMethod)
	assert.InDelta(t, 0.7, result.SimilarityThreshold, 1e-9)
	assert.Equal(t, 2, result.TotalClusters)
	require.Len(t, result.Umbrellas, 2)

	first := result.Umbrellas[0]
	assert.Equal(t, 3, first.MemberCount, "largest cluster ranks first")
	assert.ElementsMatch(t, []string{"lucid dreaming", "dream journaling", "sleep hygiene"}, first.Members)
	assert.Equal(t, 9, first.TotalFrequency)
	assert.Equal(t, []string{"v1", "v2", "v3"}, first.VideoIDs)
	assert.NotEmpty(t, first.Label)
	assert.NotEmpty(t, first.ID)
	assert.Greater(t, first.AvgCoherence, 0.7)
	assert.LessOrEqual(t, len(first.RepresentativeTopics), representativeTopN)
	assert.Equal(t, "lucid dreaming", first.RepresentativeTopics[0], "representatives sorted by frequency")

	assert.InDelta(t, 2, first.Stats["min_frequency"], 1e-9)
	assert.InDelta(t, 4, first.Stats["max_frequency"], 1e-9)
	assert.InDelta(t, 0.5, first.Stats["avg_score"], 1e-9)

	second := result.Umbrellas[1]
	assert.Equal(t, 2, second.MemberCount)
	assert.ElementsMatch(t, []string{"strength training", "protein intake"}, second.Members)
}

func TestBuildNoEdgesYieldsNoUmbrellas(t *testing.T) {
	vectors := map[string][]float32{
		"cooking":  vec(1, 0, 0, 0),
		"gaming":   vec(0, 1, 0, 0),
		"finance":  vec(0, 0, 1, 0),
		"swimming": vec(0, 0, 0, 1),
	}

	account := domain.AccountTopics{
		Account: "creator",
		Tags: []domain.CanonicalGroup{
			group("cooking", 1), group("gaming", 1), group("finance", 1), group("swimming", 1),
		},
	}

	b := testBuilder(t, vectors, DefaultConfig())

	result, err := b.Build(context.Background(), account)
	require.NoError(t, err, "zero umbrellas is a valid outcome, not an error")

	assert.Equal(t, 0, result.TotalClusters)
	assert.Empty(t, result.Umbrellas)
	assert.NotEqual(t, methodSkipped, result.ClusteringMethod, "clustering ran, it just found nothing")
}

func TestBuildSingletonsDiscarded(t *testing.T) {
	// One tight pair plus an isolated topic: the singleton never becomes an
	// umbrella.
	vectors := map[string][]float32{
		"yoga":     vec(1, 0, 0, 0),
		"pilates":  vec(0.95, 0.312, 0, 0),
		"woodwork": vec(0, 0, 1, 0),
	}

	account := domain.AccountTopics{
		Account: "creator",
		Tags:    []domain.CanonicalGroup{group("yoga", 2), group("pilates", 1), group("woodwork", 9)},
	}

	b := testBuilder(t, vectors, DefaultConfig())

	result, err := b.Build(context.Background(), account)
	require.NoError(t, err)

	require.Len(t, result.Umbrellas, 1)
	assert.Equal(t, 2, result.Umbrellas[0].MemberCount)
	assert.NotContains(t, result.Umbrellas[0].Members, "woodwork")
}

func TestBuildTruncatesAndReportsTotal(t *testing.T) {
	// Seven disjoint tight pairs; max umbrellas 5.
	vectors := make(map[string][]float32)
	tags := make([]domain.CanonicalGroup, 0, 14)

	names := []string{"aa", "bb", "cc", "dd", "ee", "ff", "gg"}
	for i, name := range names {
		base := make([]float32, 16)
		base[i*2] = 1

		twin := make([]float32, 16)
		twin[i*2] = 0.95
		twin[i*2+1] = 0.312

		vectors[name+" one"] = base
		vectors[name+" two"] = twin

		tags = append(tags, group(name+" one", 1), group(name+" two", 1))
	}

	logger := zerolog.Nop()
	registry := embeddings.NewRegistry(16, &logger)
	registry.Register(&fixedProvider{vectors: vectors, dims: 16}, embeddings.DefaultCircuitBreakerConfig())

	b, err := NewBuilder(registry, StrategyAuto, DefaultConfig(), &logger)
	require.NoError(t, err)

	result, err := b.Build(context.Background(), domain.AccountTopics{Account: "creator", Tags: tags})
	require.NoError(t, err)

	assert.Equal(t, 7, result.TotalClusters, "pre-truncation count is reported")
	assert.Equal(t, 5, result.UmbrellaCount)
	assert.Len(t, result.Umbrellas, 5)
}

func TestBuildRepresentativesCappedAtFive(t *testing.T) {
	// Seven members in one tight cluster; only the five most frequent
	// represent it.
	vectors := make(map[string][]float32)
	tags := make([]domain.CanonicalGroup, 0, 7)

	names := []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"}
	for i, name := range names {
		vectors[name] = vec(1, 0, 0, 0)
		tags = append(tags, group(name, i+1))
	}

	b := testBuilder(t, vectors, DefaultConfig())

	result, err := b.Build(context.Background(), domain.AccountTopics{Account: "creator", Tags: tags})
	require.NoError(t, err)

	require.Len(t, result.Umbrellas, 1)
	assert.Equal(t, 7, result.Umbrellas[0].MemberCount)
	assert.Equal(t, []string{"t7", "t6", "t5", "t4", "t3"}, result.Umbrellas[0].RepresentativeTopics)
}

func TestBuildTooFewTopicsSkips(t *testing.T) {
	b := testBuilder(t, map[string][]float32{"solo": vec(1, 0, 0, 0)}, DefaultConfig())

	result, err := b.Build(context.Background(), domain.AccountTopics{
		Account: "creator",
		Tags:    []domain.CanonicalGroup{group("solo", 3)},
	})
	require.NoError(t, err)

	assert.Equal(t, methodSkipped, result.ClusteringMethod)
	assert.Equal(t, 3, result.TotalTopics)
	assert.Equal(t, 1, result.CanonicalTopics)
	assert.Empty(t, result.Umbrellas)
}
