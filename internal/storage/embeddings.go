package db

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// GetTopicEmbeddings loads cached canonical-topic embeddings for the given
// phrases. Missing phrases are simply absent from the returned map; the
// caller embeds them and writes them back.
func (db *DB) GetTopicEmbeddings(ctx context.Context, phrases []string) (map[string][]float32, error) {
	if len(phrases) == 0 {
		return map[string][]float32{}, nil
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT phrase, embedding
		FROM topic_embeddings
		WHERE phrase = ANY($1)
	`, phrases)
	if err != nil {
		return nil, fmt.Errorf("query topic embeddings: %w", err)
	}
	defer rows.Close()

	cached := make(map[string][]float32, len(phrases))

	for rows.Next() {
		var (
			phrase string
			vec    pgvector.Vector
		)

		if err := rows.Scan(&phrase, &vec); err != nil {
			return nil, fmt.Errorf("scan topic embedding row: %w", err)
		}

		cached[phrase] = vec.Slice()
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topic embedding rows: %w", err)
	}

	return cached, nil
}

// SaveTopicEmbedding caches one canonical-topic embedding. Embeddings are
// deterministic per model, so a conflicting row is assumed equivalent and
// left alone.
func (db *DB) SaveTopicEmbedding(ctx context.Context, phrase string, embedding []float32) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO topic_embeddings (phrase, embedding)
		VALUES ($1, $2)
		ON CONFLICT (phrase) DO NOTHING
	`, phrase, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("save topic embedding: %w", err)
	}

	return nil
}
