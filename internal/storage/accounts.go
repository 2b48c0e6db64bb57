package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	coreerrors "github.com/creatorlens/topic-engine/internal/core/errors"
)

// Account is a tracked creator account whose videos feed topic derivation.
type Account struct {
	ID                 string
	Username           string
	Category           string
	CategoryConfidence float64
	LastDerivedAt      time.Time
	CreatedAt          time.Time
}

// UpsertAccount inserts an account by username, returning its id. Existing
// accounts are left untouched apart from the returned id.
func (db *DB) UpsertAccount(ctx context.Context, username string) (string, error) {
	var id pgtype.UUID

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO accounts (username)
		VALUES ($1)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, username).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert account: %w", err)
	}

	return fromUUID(id), nil
}

// GetAccountByUsername fetches a single account.
func (db *DB) GetAccountByUsername(ctx context.Context, username string) (*Account, error) {
	var (
		a          Account
		id         pgtype.UUID
		category   pgtype.Text
		confidence pgtype.Float8
		derivedAt  pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT id, username, category, category_confidence, last_derived_at, created_at
		FROM accounts
		WHERE username = $1
	`, username).Scan(&id, &a.Username, &category, &confidence, &derivedAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coreerrors.ErrAccountNotFound
		}

		return nil, fmt.Errorf("get account: %w", err)
	}

	a.ID = fromUUID(id)
	a.Category = fromText(category)

	if confidence.Valid {
		a.CategoryConfidence = confidence.Float64
	}

	a.LastDerivedAt = fromTimestamptz(derivedAt)
	a.CreatedAt = fromTimestamptz(createdAt)

	return &a, nil
}

// ListAccountsNeedingDerivation returns usernames of accounts that have
// videos but were never derived, or whose videos changed since the last run.
// Oldest-first so the backlog drains fairly.
func (db *DB) ListAccountsNeedingDerivation(ctx context.Context, limit int) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT a.username
		FROM accounts a
		WHERE EXISTS (
			SELECT 1 FROM videos v
			WHERE v.account_id = a.id
			  AND (a.last_derived_at IS NULL OR v.updated_at > a.last_derived_at)
		)
		ORDER BY a.last_derived_at ASC NULLS FIRST
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list accounts needing derivation: %w", err)
	}
	defer rows.Close()

	usernames := make([]string, 0, limit)

	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}

		usernames = append(usernames, username)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	return usernames, nil
}

// CountAccountsNeedingDerivation feeds the backlog gauge.
func (db *DB) CountAccountsNeedingDerivation(ctx context.Context) (int, error) {
	var count int

	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)::int
		FROM accounts a
		WHERE EXISTS (
			SELECT 1 FROM videos v
			WHERE v.account_id = a.id
			  AND (a.last_derived_at IS NULL OR v.updated_at > a.last_derived_at)
		)
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accounts needing derivation: %w", err)
	}

	return count, nil
}

// MarkAccountDerived stamps the derivation watermark.
func (db *DB) MarkAccountDerived(ctx context.Context, username string, at time.Time) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE accounts SET last_derived_at = $2 WHERE username = $1
	`, username, toTimestamptz(at))
	if err != nil {
		return fmt.Errorf("mark account derived: %w", err)
	}

	return nil
}

// SaveAccountCategory stores the broad-category classification.
func (db *DB) SaveAccountCategory(ctx context.Context, username, category string, confidence float64) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE accounts
		SET category = $2, category_confidence = $3
		WHERE username = $1
	`, username, toText(category), toFloat8(confidence))
	if err != nil {
		return fmt.Errorf("save account category: %w", err)
	}

	return nil
}
