package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/creatorlens/topic-engine/internal/core/domain"
)

// StartRun records the beginning of an account derivation run and returns
// the run id.
func (db *DB) StartRun(ctx context.Context, username string) (string, error) {
	var id pgtype.UUID

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO derivation_runs (account_id, status, started_at)
		SELECT a.id, $2, NOW()
		FROM accounts a WHERE a.username = $1
		RETURNING id
	`, username, RunStatusRunning).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}

	return fromUUID(id), nil
}

// FinishRun closes a derivation run with its summary counters.
func (db *DB) FinishRun(ctx context.Context, runID, status string, summary domain.RunSummary) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE derivation_runs SET
			status = $2,
			total_videos = $3,
			extracted = $4,
			skipped = $5,
			failed = $6,
			finished_at = NOW()
		WHERE id = $1
	`, toUUID(runID), status, toInt4(summary.TotalVideos), toInt4(summary.Extracted),
		toInt4(summary.Skipped), toInt4(summary.Failed))
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	return nil
}

// LastRun returns the most recent run summary for an account, or nil if the
// account has never been derived.
func (db *DB) LastRun(ctx context.Context, username string) (*domain.RunSummary, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT a.username, r.total_videos, r.extracted, r.skipped, r.failed, r.started_at, r.finished_at
		FROM derivation_runs r
		JOIN accounts a ON r.account_id = a.id
		WHERE a.username = $1 AND r.finished_at IS NOT NULL
		ORDER BY r.started_at DESC
		LIMIT 1
	`, username)
	if err != nil {
		return nil, fmt.Errorf("query last run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var (
		summary    domain.RunSummary
		startedAt  pgtype.Timestamptz
		finishedAt pgtype.Timestamptz
	)

	if err := rows.Scan(&summary.Account, &summary.TotalVideos, &summary.Extracted,
		&summary.Skipped, &summary.Failed, &startedAt, &finishedAt); err != nil {
		return nil, fmt.Errorf("scan run row: %w", err)
	}

	summary.StartedAt = fromTimestamptz(startedAt)
	summary.FinishedAt = fromTimestamptz(finishedAt)

	return &summary, nil
}
