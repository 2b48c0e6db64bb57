package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/creatorlens/topic-engine/internal/core/domain"
	coreerrors "github.com/creatorlens/topic-engine/internal/core/errors"
)

// loadFile is the JSON fixture shape accepted by load mode: one account and
// its videos, as handed over by the transcription service.
type loadFile struct {
	Username string      `json:"username"`
	Videos   []loadVideo `json:"videos"`
}

type loadVideo struct {
	VideoID    string                      `json:"video_id"`
	Title      string                      `json:"title"`
	Transcript string                      `json:"transcript"`
	Sentences  []domain.TranscriptSentence `json:"sentences"`
	Hashtags   []string                    `json:"hashtags"`
	ViewCount  int64                       `json:"view_count"`
}

// RunLoad ingests a JSON file of transcripts for one account. Videos are
// upserted by (account, video_id), so re-loading a file is safe and marks
// the account for re-derivation.
func (a *App) RunLoad(ctx context.Context, path string) error {
	a.logger.Info().Str("path", path).Msg("Starting load mode")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read load file: %w", err)
	}

	var file loadFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse load file: %w", err)
	}

	if err := validateLoadFile(file); err != nil {
		return err
	}

	accountID, err := a.database.UpsertAccount(ctx, file.Username)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}

	for _, video := range file.Videos {
		input := domain.VideoInput{
			VideoID:    video.VideoID,
			Transcript: video.Transcript,
			Sentences:  video.Sentences,
			Title:      video.Title,
			Hashtags:   video.Hashtags,
			ViewCount:  video.ViewCount,
		}

		if err := a.database.UpsertVideo(ctx, accountID, input); err != nil {
			return fmt.Errorf("upsert video %s: %w", video.VideoID, err)
		}
	}

	a.logger.Info().
		Str("account", file.Username).
		Int("videos", len(file.Videos)).
		Msg("load complete, account flagged for derivation")

	return nil
}

func validateLoadFile(file loadFile) error {
	if file.Username == "" {
		return fmt.Errorf("%w: username is required", coreerrors.ErrInvalidInput)
	}

	if len(file.Videos) == 0 {
		return fmt.Errorf("%w: at least one video is required", coreerrors.ErrInvalidInput)
	}

	for _, video := range file.Videos {
		if video.VideoID == "" {
			return fmt.Errorf("%w: every video needs a video_id", coreerrors.ErrInvalidInput)
		}

		if video.Transcript == "" {
			return fmt.Errorf("%w: video %s has no transcript", coreerrors.ErrInvalidInput, video.VideoID)
		}
	}

	return nil
}
