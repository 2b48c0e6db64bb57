package derive

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorlens/topic-engine/internal/core/domain"
	"github.com/creatorlens/topic-engine/internal/core/embeddings"
	"github.com/creatorlens/topic-engine/internal/platform/config"
	"github.com/creatorlens/topic-engine/internal/topics"
	"github.com/creatorlens/topic-engine/internal/umbrella"
)

// memRepo is an in-memory Repository covering what one derivation run
// touches.
type memRepo struct {
	videos        map[string][]domain.VideoInput
	videoTopics   map[string]domain.VideoTopics // key account/video
	accountTopics map[string]domain.AccountTopics
	umbrellas     map[string]domain.UmbrellaResult
	categories    map[string]string
	derivedAt     map[string]time.Time
	runs          []domain.RunSummary
	runStatus     []string
	embeddings    map[string][]float32
	saveCalls     int
}

func newMemRepo() *memRepo {
	return &memRepo{
		videos:        map[string][]domain.VideoInput{},
		videoTopics:   map[string]domain.VideoTopics{},
		accountTopics: map[string]domain.AccountTopics{},
		umbrellas:     map[string]domain.UmbrellaResult{},
		categories:    map[string]string{},
		derivedAt:     map[string]time.Time{},
		embeddings:    map[string][]float32{},
	}
}

func (m *memRepo) key(username, videoID string) string { return username + "/" + videoID }

func (m *memRepo) ListAccountsNeedingDerivation(_ context.Context, limit int) ([]string, error) {
	accounts := make([]string, 0, limit)

	for username := range m.videos {
		if _, done := m.derivedAt[username]; !done {
			accounts = append(accounts, username)
		}

		if len(accounts) == limit {
			break
		}
	}

	return accounts, nil
}

func (m *memRepo) CountAccountsNeedingDerivation(_ context.Context) (int, error) {
	return len(m.videos) - len(m.derivedAt), nil
}

func (m *memRepo) MarkAccountDerived(_ context.Context, username string, at time.Time) error {
	m.derivedAt[username] = at
	return nil
}

func (m *memRepo) ListVideosByAccount(_ context.Context, username string) ([]domain.VideoInput, error) {
	return m.videos[username], nil
}

func (m *memRepo) SaveVideoTopics(_ context.Context, username string, result domain.VideoTopics) error {
	m.saveCalls++
	m.videoTopics[m.key(username, result.VideoID)] = result

	return nil
}

func (m *memRepo) HasVideoTopics(_ context.Context, username, videoID string) (bool, error) {
	_, ok := m.videoTopics[m.key(username, videoID)]
	return ok, nil
}

func (m *memRepo) GetVideoTopics(_ context.Context, username, videoID string) (*domain.VideoTopics, error) {
	result, ok := m.videoTopics[m.key(username, videoID)]
	if !ok {
		return nil, nil
	}

	return &result, nil
}

func (m *memRepo) ReplaceAccountTopics(_ context.Context, result domain.AccountTopics) error {
	m.accountTopics[result.Account] = result
	return nil
}

func (m *memRepo) ReplaceUmbrellas(_ context.Context, result domain.UmbrellaResult) error {
	m.umbrellas[result.Account] = result
	return nil
}

func (m *memRepo) SaveAccountCategory(_ context.Context, username, category string, _ float64) error {
	m.categories[username] = category
	return nil
}

func (m *memRepo) StartRun(_ context.Context, username string) (string, error) {
	return username + "-run", nil
}

func (m *memRepo) FinishRun(_ context.Context, _, status string, summary domain.RunSummary) error {
	m.runs = append(m.runs, summary)
	m.runStatus = append(m.runStatus, status)

	return nil
}

func (m *memRepo) GetTopicEmbeddings(_ context.Context, phrases []string) (map[string][]float32, error) {
	out := map[string][]float32{}

	for _, p := range phrases {
		if v, ok := m.embeddings[p]; ok {
			out[p] = v
		}
	}

	return out, nil
}

func (m *memRepo) SaveTopicEmbedding(_ context.Context, phrase string, embedding []float32) error {
	m.embeddings[phrase] = embedding
	return nil
}

const testTranscript = "Today I want to share my morning meditation routine. " +
	"Morning meditation completely changed how I sleep at night. " +
	"I start with deep breathing for five minutes and keep a dream journal by my bed."

func newTestDeriver(t *testing.T, repo *memRepo) *Deriver {
	t.Helper()

	logger := zerolog.Nop()
	registry := embeddings.NewRegistry(embeddings.DefaultDimensions, &logger)
	registry.Register(embeddings.NewMockProvider(), embeddings.DefaultCircuitBreakerConfig())

	cfg := &config.Config{
		WorkerPollInterval: time.Second,
		WorkerBatchSize:    5,
		MinTranscriptChars: 50,
	}

	extractor := topics.NewExtractor(registry, topics.EmptyLexicon(), topics.DefaultExtractorConfig(), &logger)
	classifier := topics.NewClassifier(registry)

	cache := NewCachedEmbedder(repo, registry, &logger)

	builder, err := umbrella.NewBuilder(cache, umbrella.StrategyAuto, umbrella.DefaultConfig(), &logger)
	require.NoError(t, err)

	return New(cfg, repo, extractor, builder, classifier, &logger)
}

func TestDeriveAccount(t *testing.T) {
	repo := newMemRepo()
	repo.videos["creator"] = []domain.VideoInput{
		{VideoID: "v1", Transcript: testTranscript, ViewCount: 1000},
		{VideoID: "v2", Transcript: testTranscript, ViewCount: 0},
	}

	d := newTestDeriver(t, repo)

	summary, err := d.DeriveAccount(context.Background(), "creator", Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalVideos)
	assert.Equal(t, 2, summary.Extracted)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.False(t, summary.FinishedAt.IsZero())

	assert.Contains(t, repo.accountTopics, "creator")
	assert.NotEmpty(t, repo.accountTopics["creator"].Tags)
	assert.Contains(t, repo.umbrellas, "creator")
	assert.Contains(t, repo.categories, "creator")
	assert.Contains(t, repo.derivedAt, "creator")

	require.Len(t, repo.runStatus, 1)
	assert.Equal(t, "completed", repo.runStatus[0])

	// Canonical topic embeddings were written through the cache.
	assert.NotEmpty(t, repo.embeddings)
}

func TestDeriveAccountSkipsExisting(t *testing.T) {
	repo := newMemRepo()
	repo.videos["creator"] = []domain.VideoInput{
		{VideoID: "v1", Transcript: testTranscript},
		{VideoID: "v2", Transcript: testTranscript},
	}

	d := newTestDeriver(t, repo)

	_, err := d.DeriveAccount(context.Background(), "creator", Options{})
	require.NoError(t, err)

	savesAfterFirst := repo.saveCalls

	summary, err := d.DeriveAccount(context.Background(), "creator", Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Extracted)
	assert.Equal(t, savesAfterFirst, repo.saveCalls, "unforced rerun stores nothing new per video")
}

func TestDeriveAccountForceReextracts(t *testing.T) {
	repo := newMemRepo()
	repo.videos["creator"] = []domain.VideoInput{{VideoID: "v1", Transcript: testTranscript}}

	d := newTestDeriver(t, repo)

	_, err := d.DeriveAccount(context.Background(), "creator", Options{})
	require.NoError(t, err)

	summary, err := d.DeriveAccount(context.Background(), "creator", Options{Force: true})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Extracted)
	assert.Equal(t, 0, summary.Skipped)
}

func TestDeriveAccountShortTranscriptsOnly(t *testing.T) {
	repo := newMemRepo()
	repo.videos["creator"] = []domain.VideoInput{{VideoID: "v1", Transcript: "too short"}}

	d := newTestDeriver(t, repo)

	summary, err := d.DeriveAccount(context.Background(), "creator", Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Extracted, "short transcript is extracted-empty, not failed")
	assert.NotContains(t, repo.accountTopics, "creator", "no topics means no aggregation")
	assert.NotContains(t, repo.umbrellas, "creator")
	assert.Contains(t, repo.derivedAt, "creator", "watermark still advances so the account is not retried")
}

func TestDeriveAccountNoVideos(t *testing.T) {
	repo := newMemRepo()
	repo.videos["creator"] = nil

	d := newTestDeriver(t, repo)

	summary, err := d.DeriveAccount(context.Background(), "creator", Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalVideos)
	assert.NotContains(t, repo.accountTopics, "creator")
}
