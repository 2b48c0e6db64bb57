// Package derive runs the account-level topic derivation pipeline: per-video
// extraction, canonical aggregation, umbrella clustering and category
// classification, persisting each stage's output.
package derive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/creatorlens/topic-engine/internal/core/domain"
	coreerrors "github.com/creatorlens/topic-engine/internal/core/errors"
	"github.com/creatorlens/topic-engine/internal/platform/config"
	"github.com/creatorlens/topic-engine/internal/platform/observability"
	"github.com/creatorlens/topic-engine/internal/platform/worker"
	db "github.com/creatorlens/topic-engine/internal/storage"
	"github.com/creatorlens/topic-engine/internal/topics"
	"github.com/creatorlens/topic-engine/internal/umbrella"
)

// backlogGaugeInterval is how often the backlog gauge is refreshed.
const backlogGaugeInterval = time.Minute

// Repository is the storage surface the deriver needs.
type Repository interface {
	ListAccountsNeedingDerivation(ctx context.Context, limit int) ([]string, error)
	CountAccountsNeedingDerivation(ctx context.Context) (int, error)
	MarkAccountDerived(ctx context.Context, username string, at time.Time) error
	ListVideosByAccount(ctx context.Context, username string) ([]domain.VideoInput, error)
	SaveVideoTopics(ctx context.Context, username string, result domain.VideoTopics) error
	HasVideoTopics(ctx context.Context, username, videoID string) (bool, error)
	GetVideoTopics(ctx context.Context, username, videoID string) (*domain.VideoTopics, error)
	ReplaceAccountTopics(ctx context.Context, result domain.AccountTopics) error
	ReplaceUmbrellas(ctx context.Context, result domain.UmbrellaResult) error
	SaveAccountCategory(ctx context.Context, username, category string, confidence float64) error
	StartRun(ctx context.Context, username string) (string, error)
	FinishRun(ctx context.Context, runID, status string, summary domain.RunSummary) error
	GetTopicEmbeddings(ctx context.Context, phrases []string) (map[string][]float32, error)
	SaveTopicEmbedding(ctx context.Context, phrase string, embedding []float32) error
}

// Compile-time assertion that *db.DB implements Repository.
var _ Repository = (*db.DB)(nil)

// Options tune one derivation invocation.
type Options struct {
	// Force re-extracts videos that already have stored topics.
	Force bool
}

// Deriver orchestrates derivation for accounts, one at a time. Stages within
// an account are strictly sequential; separate Deriver instances may process
// different accounts concurrently since no state is shared between calls.
type Deriver struct {
	cfg        *config.Config
	database   Repository
	extractor  *topics.Extractor
	builder    *umbrella.Builder
	classifier *topics.Classifier
	logger     *zerolog.Logger
}

func New(
	cfg *config.Config,
	database Repository,
	extractor *topics.Extractor,
	builder *umbrella.Builder,
	classifier *topics.Classifier,
	logger *zerolog.Logger,
) *Deriver {
	return &Deriver{
		cfg:        cfg,
		database:   database,
		extractor:  extractor,
		builder:    builder,
		classifier: classifier,
		logger:     logger,
	}
}

// Run is the worker entrypoint: poll for accounts whose videos changed since
// their last derivation and process each one.
func (d *Deriver) Run(ctx context.Context) error {
	return worker.Loop(ctx, worker.Config{
		Name:         "derive",
		PollInterval: d.cfg.WorkerPollInterval,
		Process:      d.processBatch,
		PeriodicTasks: []worker.PeriodicTask{
			{Name: "backlog-gauge", Interval: backlogGaugeInterval, Run: d.updateBacklogGauge},
		},
		Logger: d.logger,
	})
}

func (d *Deriver) processBatch(ctx context.Context) error {
	accounts, err := d.database.ListAccountsNeedingDerivation(ctx, d.cfg.WorkerBatchSize)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	for _, username := range accounts {
		if ctx.Err() != nil {
			return nil
		}

		// Account failures are isolated from each other.
		if _, err := d.DeriveAccount(ctx, username, Options{}); err != nil {
			d.logger.Error().Err(err).Str("account", username).Msg("account derivation failed")
		}
	}

	return nil
}

func (d *Deriver) updateBacklogGauge(ctx context.Context) {
	count, err := d.database.CountAccountsNeedingDerivation(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("failed to count derivation backlog")
		return
	}

	observability.DeriveBacklog.Set(float64(count))
}

// DeriveAccount runs the full pipeline for one account and returns the run
// summary. Per-video failures are absorbed by the extractor; this fails only
// on storage or embedding-infrastructure errors.
func (d *Deriver) DeriveAccount(ctx context.Context, username string, opts Options) (domain.RunSummary, error) {
	start := time.Now()

	summary := domain.RunSummary{
		Account:   username,
		StartedAt: start.UTC(),
	}

	runID, err := d.database.StartRun(ctx, username)
	if err != nil {
		observability.AccountsDerived.WithLabelValues("failed").Inc()
		return summary, fmt.Errorf("start run: %w", err)
	}

	summary, err = d.derive(ctx, username, opts, summary)

	summary.FinishedAt = time.Now().UTC()
	status := db.RunStatusCompleted

	if err != nil {
		status = db.RunStatusFailed

		observability.AccountsDerived.WithLabelValues("failed").Inc()
	} else {
		observability.AccountsDerived.WithLabelValues("ok").Inc()
		observability.DeriveDurationSeconds.Observe(time.Since(start).Seconds())
	}

	if finishErr := d.database.FinishRun(ctx, runID, status, summary); finishErr != nil {
		d.logger.Error().Err(finishErr).Str("account", username).Msg("failed to record run summary")
	}

	return summary, err
}

func (d *Deriver) derive(ctx context.Context, username string, opts Options, summary domain.RunSummary) (domain.RunSummary, error) {
	videos, err := d.database.ListVideosByAccount(ctx, username)
	if err != nil {
		return summary, fmt.Errorf("list videos: %w", err)
	}

	summary.TotalVideos = len(videos)

	perVideo := make([]domain.VideoTopics, 0, len(videos))

	for _, video := range videos {
		result, outcome, err := d.deriveVideo(ctx, username, video, opts)
		if err != nil {
			return summary, err
		}

		switch outcome {
		case videoExtracted:
			summary.Extracted++
		case videoSkipped:
			summary.Skipped++
		case videoFailed:
			summary.Failed++
		}

		// Failed videos contribute an empty list; they still count toward
		// the aggregation input so reruns remain comparable.
		perVideo = append(perVideo, result)
	}

	if !hasAnyTopics(perVideo) {
		d.logger.Info().Str("account", username).Msg("no topics in any video, skipping aggregation")

		// Still advance the watermark so the worker does not retry the
		// account until its videos change.
		if err := d.database.MarkAccountDerived(ctx, username, summary.StartedAt); err != nil {
			return summary, fmt.Errorf("mark account derived: %w", err)
		}

		return summary, nil
	}

	account := topics.AggregateAccount(username, videos, perVideo)
	if err := d.database.ReplaceAccountTopics(ctx, account); err != nil {
		return summary, fmt.Errorf("replace account topics: %w", err)
	}

	umbrellas, err := d.builder.Build(ctx, account)
	if err != nil {
		return summary, fmt.Errorf("build umbrellas: %w", err)
	}

	if err := d.database.ReplaceUmbrellas(ctx, umbrellas); err != nil {
		return summary, fmt.Errorf("replace umbrellas: %w", err)
	}

	d.classifyAccount(ctx, username, account)

	if err := d.database.MarkAccountDerived(ctx, username, summary.StartedAt); err != nil {
		return summary, fmt.Errorf("mark account derived: %w", err)
	}

	d.logger.Info().
		Str("account", username).
		Int("total_videos", summary.TotalVideos).
		Int("extracted", summary.Extracted).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("canonical_topics", account.TotalTags).
		Int("umbrellas", umbrellas.UmbrellaCount).
		Msg("account derivation complete")

	return summary, nil
}

type videoOutcome int

const (
	videoExtracted videoOutcome = iota
	videoSkipped
	videoFailed
)

// deriveVideo extracts topics for one video, honoring skip-if-present unless
// forced.
func (d *Deriver) deriveVideo(ctx context.Context, username string, video domain.VideoInput, opts Options) (domain.VideoTopics, videoOutcome, error) {
	if !opts.Force {
		exists, err := d.database.HasVideoTopics(ctx, username, video.VideoID)
		if err != nil {
			return domain.VideoTopics{}, videoFailed, fmt.Errorf("check existing topics: %w", err)
		}

		if exists {
			stored, err := d.database.GetVideoTopics(ctx, username, video.VideoID)
			if err != nil && !errors.Is(err, coreerrors.ErrVideoNotFound) {
				return domain.VideoTopics{}, videoFailed, fmt.Errorf("load existing topics: %w", err)
			}

			if stored != nil {
				return *stored, videoSkipped, nil
			}
		}
	}

	result, extractErr := d.extractor.ExtractVideo(ctx, video)

	if err := d.database.SaveVideoTopics(ctx, username, result); err != nil {
		return domain.VideoTopics{}, videoFailed, fmt.Errorf("save video topics: %w", err)
	}

	if extractErr != nil {
		// Already logged and counted by the extractor; the empty result is
		// stored so reruns stay comparable.
		return result, videoFailed, nil
	}

	return result, videoExtracted, nil
}

// classifyAccount is best-effort: classification failure never fails a run.
func (d *Deriver) classifyAccount(ctx context.Context, username string, account domain.AccountTopics) {
	category, err := d.classifier.Classify(ctx, account)
	if err != nil {
		d.logger.Warn().Err(err).Str("account", username).Msg("category classification failed")
		return
	}

	if err := d.database.SaveAccountCategory(ctx, username, category.Category, category.Confidence); err != nil {
		d.logger.Warn().Err(err).Str("account", username).Msg("failed to save account category")
	}
}

func hasAnyTopics(perVideo []domain.VideoTopics) bool {
	for _, vt := range perVideo {
		if len(vt.Topics) > 0 {
			return true
		}
	}

	return false
}
