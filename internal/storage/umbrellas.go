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

// ReplaceUmbrellas stores the umbrella result for an account wholesale:
// umbrella sets are never patched incrementally, so the previous row is
// simply overwritten in one statement.
func (db *DB) ReplaceUmbrellas(ctx context.Context, result domain.UmbrellaResult) error {
	payload, err := json.Marshal(result.Umbrellas)
	if err != nil {
		return fmt.Errorf("marshal umbrellas: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO account_umbrellas (
			account_id, total_topics, canonical_topics, umbrella_count,
			total_clusters, clustering_method, similarity_threshold, umbrellas, updated_at
		)
		SELECT a.id, $2, $3, $4, $5, $6, $7, $8, NOW()
		FROM accounts a WHERE a.username = $1
		ON CONFLICT (account_id) DO UPDATE SET
			total_topics = EXCLUDED.total_topics,
			canonical_topics = EXCLUDED.canonical_topics,
			umbrella_count = EXCLUDED.umbrella_count,
			total_clusters = EXCLUDED.total_clusters,
			clustering_method = EXCLUDED.clustering_method,
			similarity_threshold = EXCLUDED.similarity_threshold,
			umbrellas = EXCLUDED.umbrellas,
			updated_at = NOW()
	`, result.Account, toInt4(result.TotalTopics), toInt4(result.CanonicalTopics),
		toInt4(result.UmbrellaCount), toInt4(result.TotalClusters),
		result.ClusteringMethod, toFloat8(result.SimilarityThreshold), payload)
	if err != nil {
		return fmt.Errorf("replace umbrellas: %w", err)
	}

	return nil
}

// GetUmbrellas loads the stored umbrella result for an account.
func (db *DB) GetUmbrellas(ctx context.Context, username string) (*domain.UmbrellaResult, error) {
	var (
		result  domain.UmbrellaResult
		payload []byte
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT a.username, au.total_topics, au.canonical_topics, au.umbrella_count,
		       au.total_clusters, au.clustering_method, au.similarity_threshold, au.umbrellas
		FROM account_umbrellas au
		JOIN accounts a ON au.account_id = a.id
		WHERE a.username = $1
	`, username).Scan(&result.Account, &result.TotalTopics, &result.CanonicalTopics,
		&result.UmbrellaCount, &result.TotalClusters, &result.ClusteringMethod,
		&result.SimilarityThreshold, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coreerrors.ErrNoUmbrellas
		}

		return nil, fmt.Errorf("get umbrellas: %w", err)
	}

	if err := json.Unmarshal(payload, &result.Umbrellas); err != nil {
		return nil, fmt.Errorf("unmarshal umbrellas: %w", err)
	}

	return &result, nil
}
