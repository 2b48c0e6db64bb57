package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/creatorlens/topic-engine/internal/core/domain"
)

// UpsertVideo stores one video's derivation inputs. The sentence list is kept
// as JSONB because it is read back whole, never queried per sentence.
func (db *DB) UpsertVideo(ctx context.Context, accountID string, video domain.VideoInput) error {
	sentences, err := json.Marshal(video.Sentences)
	if err != nil {
		return fmt.Errorf("marshal sentences: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO videos (account_id, external_id, title, transcript, sentences, hashtags, view_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			transcript = EXCLUDED.transcript,
			sentences = EXCLUDED.sentences,
			hashtags = EXCLUDED.hashtags,
			view_count = EXCLUDED.view_count,
			updated_at = NOW()
	`, toUUID(accountID), video.VideoID, toText(video.Title), SanitizeUTF8(video.Transcript),
		sentences, video.Hashtags, toInt8(video.ViewCount))
	if err != nil {
		return fmt.Errorf("upsert video: %w", err)
	}

	return nil
}

// ListVideosByAccount returns every stored video for an account in insertion
// order, with full derivation inputs.
func (db *DB) ListVideosByAccount(ctx context.Context, username string) ([]domain.VideoInput, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT v.external_id, COALESCE(v.title, ''), v.transcript, v.sentences, v.hashtags, v.view_count
		FROM videos v
		JOIN accounts a ON v.account_id = a.id
		WHERE a.username = $1
		ORDER BY v.created_at ASC
	`, username)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	videos := make([]domain.VideoInput, 0, 64)

	for rows.Next() {
		var (
			video     domain.VideoInput
			sentences []byte
		)

		if err := rows.Scan(&video.VideoID, &video.Title, &video.Transcript, &sentences, &video.Hashtags, &video.ViewCount); err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}

		if len(sentences) > 0 {
			if err := json.Unmarshal(sentences, &video.Sentences); err != nil {
				return nil, fmt.Errorf("unmarshal sentences for video %s: %w", video.VideoID, err)
			}
		}

		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video rows: %w", err)
	}

	return videos, nil
}
