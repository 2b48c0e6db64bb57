// Package app provides the application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// different operational modes:
//
//   - Worker mode: polls for accounts with fresh videos and derives topics
//   - Extract mode: one-shot derivation for a single account
//   - Serve mode: health and metrics endpoints only
//
// Each mode can be run independently based on deployment needs.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/creatorlens/topic-engine/internal/core/embeddings"
	"github.com/creatorlens/topic-engine/internal/platform/config"
	"github.com/creatorlens/topic-engine/internal/platform/observability"
	"github.com/creatorlens/topic-engine/internal/process/derive"
	db "github.com/creatorlens/topic-engine/internal/storage"
	"github.com/creatorlens/topic-engine/internal/topics"
	"github.com/creatorlens/topic-engine/internal/umbrella"
)

const (
	embeddingAPIKeyMock = "mock"
	extractLogTopTags   = 10
)

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	srv := observability.NewServer(a.database, a.cfg.HealthPort, a.logger)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("health server start: %w", err)
	}

	return nil
}

// RunServe runs the serve-only mode: health and metrics endpoints without any
// processing. Useful for zero-downtime deployments with RollingUpdate strategy.
func (a *App) RunServe(ctx context.Context) error {
	a.logger.Info().Msg("Starting serve mode")

	return a.StartHealthServer(ctx)
}

// RunWorker runs the worker mode: a polling loop over accounts whose videos
// changed since their last derivation.
func (a *App) RunWorker(ctx context.Context) error {
	a.logger.Info().Msg("Starting worker mode")

	deriver, err := a.newDeriver()
	if err != nil {
		return err
	}

	if err := deriver.Run(ctx); err != nil {
		return fmt.Errorf("deriver run: %w", err)
	}

	return nil
}

// RunExtract runs a one-shot derivation for a single account and exits.
func (a *App) RunExtract(ctx context.Context, username string, force bool) error {
	a.logger.Info().Str("account", username).Bool("force", force).Msg("Starting extract mode")

	account, err := a.database.GetAccountByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("resolve account: %w", err)
	}

	if last, err := a.database.LastRun(ctx, username); err == nil && last != nil {
		a.logger.Info().
			Time("finished_at", last.FinishedAt).
			Int("extracted", last.Extracted).
			Msg("previous derivation run")
	}

	deriver, err := a.newDeriver()
	if err != nil {
		return err
	}

	summary, err := deriver.DeriveAccount(ctx, username, derive.Options{Force: force})
	if err != nil {
		return fmt.Errorf("derive account: %w", err)
	}

	a.logger.Info().
		Str("account", summary.Account).
		Int("total_videos", summary.TotalVideos).
		Int("extracted", summary.Extracted).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("extraction complete")

	a.logResults(ctx, account.Username)

	return nil
}

// logResults reads the stored artifacts back and summarizes them. Missing
// artifacts are expected states for small accounts, not failures.
func (a *App) logResults(ctx context.Context, username string) {
	perVideo, err := a.database.ListVideoTopicsByAccount(ctx, username)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to read back video topics")
	}

	accountTopics, err := a.database.GetAccountTopics(ctx, username)
	if err != nil {
		a.logger.Info().Msg("account topics not yet available")
		return
	}

	topTags := make([]string, 0, extractLogTopTags)
	for _, tag := range accountTopics.Tags {
		if len(topTags) == extractLogTopTags {
			break
		}

		topTags = append(topTags, tag.Canonical)
	}

	event := a.logger.Info().
		Int("videos_with_topics", len(perVideo)).
		Int("canonical_topics", accountTopics.TotalTags).
		Strs("top_tags", topTags)

	umbrellas, err := a.database.GetUmbrellas(ctx, username)
	if err == nil {
		labels := make([]string, len(umbrellas.Umbrellas))
		for i, u := range umbrellas.Umbrellas {
			labels[i] = u.Label
		}

		event = event.Strs("umbrellas", labels).Str("clustering_method", umbrellas.ClusteringMethod)
	}

	event.Msg("derived artifacts")
}

// newDeriver assembles the derivation pipeline: embedding registry, lexicon,
// per-video extractor, umbrella builder and category classifier.
func (a *App) newDeriver() (*derive.Deriver, error) {
	registry := a.newEmbeddingRegistry()

	lexicon, err := topics.LoadLexicon(a.cfg.TopicConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load topic lexicon: %w", err)
	}

	a.logger.Info().
		Str("path", a.cfg.TopicConfigPath).
		Int("stop_phrases", lexicon.StopPhraseCount()).
		Int("merge_rules", lexicon.MergeRuleCount()).
		Msg("topic lexicon loaded")

	extractorCfg := topics.ExtractorConfig{
		MMRLambda:          a.cfg.MMRLambda,
		NoiseFloor:         a.cfg.MMRNoiseFloor,
		MaxTopics:          a.cfg.MaxTopics,
		MinConfidence:      a.cfg.MinConfidence,
		MinTranscriptChars: a.cfg.MinTranscriptChars,
	}
	extractor := topics.NewExtractor(registry, lexicon, extractorCfg, a.logger)

	// Canonical topics repeat across accounts, so umbrella builds go through
	// the pgvector-backed embedding cache.
	cache := derive.NewCachedEmbedder(a.database, registry, a.logger)

	builderCfg := umbrella.Config{
		SimilarityThreshold: a.cfg.SimilarityThreshold,
		MinClusterSize:      a.cfg.MinClusterSize,
		Resolution:          a.cfg.ClusterResolution,
		MaxUmbrellas:        a.cfg.MaxUmbrellas,
	}

	builder, err := umbrella.NewBuilder(cache, a.cfg.ClusteringStrategy, builderCfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("build umbrella builder: %w", err)
	}

	classifier := topics.NewClassifier(registry)

	return derive.New(a.cfg, a.database, extractor, builder, classifier, a.logger), nil
}

// newEmbeddingRegistry creates the embedding provider registry. The mock
// provider is always registered as the lowest-priority fallback so local
// development works without an API key.
func (a *App) newEmbeddingRegistry() *embeddings.Registry {
	logger := a.logger.With().Str("component", "embeddings").Logger()

	registry := embeddings.NewRegistry(a.cfg.EmbeddingDimensions, &logger)

	if a.cfg.EmbeddingAPIKey != "" && a.cfg.EmbeddingAPIKey != embeddingAPIKeyMock {
		registry.Register(embeddings.NewOpenAIProvider(embeddings.OpenAIConfig{
			APIKey:     a.cfg.EmbeddingAPIKey,
			Model:      a.cfg.EmbeddingModel,
			Dimensions: a.cfg.EmbeddingDimensions,
			RateLimit:  a.cfg.EmbeddingRateLimit,
		}), embeddings.DefaultCircuitBreakerConfig())
	}

	registry.Register(
		embeddings.NewMockProviderWithDimensions(a.cfg.EmbeddingDimensions),
		embeddings.DefaultCircuitBreakerConfig(),
	)

	return registry
}
