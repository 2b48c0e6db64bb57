package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/creatorlens/topic-engine/internal/core/domain"
	coreerrors "github.com/creatorlens/topic-engine/internal/core/errors"
)

// SaveVideoTopics replaces the stored topic list for one video. The topic
// payload is JSONB: it is served back whole and its shape follows the Topic
// serialization, so per-field columns would only duplicate it.
func (db *DB) SaveVideoTopics(ctx context.Context, username string, result domain.VideoTopics) error {
	payload, err := json.Marshal(result.Topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO video_topics (account_id, video_external_id, total_topics, topics, extracted_at)
		SELECT a.id, $2, $3, $4, $5
		FROM accounts a WHERE a.username = $1
		ON CONFLICT (account_id, video_external_id) DO UPDATE SET
			total_topics = EXCLUDED.total_topics,
			topics = EXCLUDED.topics,
			extracted_at = EXCLUDED.extracted_at
	`, username, result.VideoID, toInt4(result.TotalTopics), payload, toTimestamptz(result.ExtractedAt))
	if err != nil {
		return fmt.Errorf("save video topics: %w", err)
	}

	return nil
}

// HasVideoTopics reports whether a video already has a derivation result, so
// unforced runs can skip it.
func (db *DB) HasVideoTopics(ctx context.Context, username, videoID string) (bool, error) {
	var exists bool

	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM video_topics vt
			JOIN accounts a ON vt.account_id = a.id
			WHERE a.username = $1 AND vt.video_external_id = $2
		)
	`, username, videoID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check video topics: %w", err)
	}

	return exists, nil
}

// GetVideoTopics loads one video's stored topic list.
func (db *DB) GetVideoTopics(ctx context.Context, username, videoID string) (*domain.VideoTopics, error) {
	var (
		result  domain.VideoTopics
		payload []byte
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT vt.video_external_id, vt.total_topics, vt.topics, vt.extracted_at
		FROM video_topics vt
		JOIN accounts a ON vt.account_id = a.id
		WHERE a.username = $1 AND vt.video_external_id = $2
	`, username, videoID).Scan(&result.VideoID, &result.TotalTopics, &payload, &result.ExtractedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coreerrors.ErrVideoNotFound
		}

		return nil, fmt.Errorf("get video topics: %w", err)
	}

	if err := json.Unmarshal(payload, &result.Topics); err != nil {
		return nil, fmt.Errorf("unmarshal topics: %w", err)
	}

	return &result, nil
}

// ListVideoTopicsByAccount loads all stored per-video results for an account.
func (db *DB) ListVideoTopicsByAccount(ctx context.Context, username string) ([]domain.VideoTopics, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT vt.video_external_id, vt.total_topics, vt.topics, vt.extracted_at
		FROM video_topics vt
		JOIN accounts a ON vt.account_id = a.id
		WHERE a.username = $1
		ORDER BY vt.extracted_at ASC
	`, username)
	if err != nil {
		return nil, fmt.Errorf("list video topics: %w", err)
	}
	defer rows.Close()

	results := make([]domain.VideoTopics, 0, 64)

	for rows.Next() {
		var (
			result  domain.VideoTopics
			payload []byte
		)

		if err := rows.Scan(&result.VideoID, &result.TotalTopics, &payload, &result.ExtractedAt); err != nil {
			return nil, fmt.Errorf("scan video topics row: %w", err)
		}

		if err := json.Unmarshal(payload, &result.Topics); err != nil {
			return nil, fmt.Errorf("unmarshal topics for video %s: %w", result.VideoID, err)
		}

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video topics rows: %w", err)
	}

	return results, nil
}

// ReplaceAccountTopics stores the ranked canonical-topic table for an
// account, replacing any previous version wholesale.
func (db *DB) ReplaceAccountTopics(ctx context.Context, result domain.AccountTopics) error {
	payload, err := json.Marshal(result.Tags)
	if err != nil {
		return fmt.Errorf("marshal account topics: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO account_topics (account_id, total_tags, total_videos, tags, updated_at)
		SELECT a.id, $2, $3, $4, NOW()
		FROM accounts a WHERE a.username = $1
		ON CONFLICT (account_id) DO UPDATE SET
			total_tags = EXCLUDED.total_tags,
			total_videos = EXCLUDED.total_videos,
			tags = EXCLUDED.tags,
			updated_at = NOW()
	`, result.Account, toInt4(result.TotalTags), toInt4(result.TotalVideos), payload)
	if err != nil {
		return fmt.Errorf("replace account topics: %w", err)
	}

	return nil
}

// GetAccountTopics loads the ranked canonical-topic table.
func (db *DB) GetAccountTopics(ctx context.Context, username string) (*domain.AccountTopics, error) {
	var (
		result  domain.AccountTopics
		payload []byte
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT a.username, at.total_tags, at.total_videos, at.tags
		FROM account_topics at
		JOIN accounts a ON at.account_id = a.id
		WHERE a.username = $1
	`, username).Scan(&result.Account, &result.TotalTags, &result.TotalVideos, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coreerrors.ErrNotFound
		}

		return nil, fmt.Errorf("get account topics: %w", err)
	}

	if err := json.Unmarshal(payload, &result.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal account topics: %w", err)
	}

	return &result, nil
}
