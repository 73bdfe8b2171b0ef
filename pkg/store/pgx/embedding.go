package pgx

import (
	"context"
	"fmt"
	"sort"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"

	"github.com/pgvector/pgvector-go"
)

// GetCachedEmbeddings returns the cached vectors for the given keys.
// Keys without a cached vector are absent from the result map.
func (s *EvalDBStorage) GetCachedEmbeddings(ctx context.Context, keys []string) (map[string][]float32, error) {
	keys = store.DedupeStrings(keys)
	out := make(map[string][]float32, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	lookupChunk := 1000

	err := store.ChunkRange(len(keys), lookupChunk, func(start, end int) error {
		rows, err := s.conn.Query(ctx, `
			SELECT content_hash, embedding
			FROM eval_embedding_cache
			WHERE content_hash = ANY($1)
		`, keys[start:end])
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var hash string
			var vec pgvector.Vector
			if err := rows.Scan(&hash, &vec); err != nil {
				return err
			}
			out[hash] = vec.Slice()
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cached embeddings: %w", err)
	}
	return out, nil
}

// PutCachedEmbeddings stores the given vectors under their keys.
// Existing entries win, so concurrent writers never overwrite each
// other.
func (s *EvalDBStorage) PutCachedEmbeddings(ctx context.Context, embeddings map[string][]float32) error {
	if len(embeddings) == 0 {
		return nil
	}

	hashes := make([]string, 0, len(embeddings))
	for hash := range embeddings {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)

	writeChunk := 500

	err := store.ChunkRange(len(hashes), writeChunk, func(start, end int) error {
		logger.Debug("[Store][PutCachedEmbeddings] Saving chunk", "embeddings", end-start)

		tx, err := s.conn.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		for _, hash := range hashes[start:end] {
			_, err := tx.Exec(ctx, `
				INSERT INTO eval_embedding_cache (content_hash, embedding)
				VALUES ($1, $2)
				ON CONFLICT (content_hash) DO NOTHING
			`, hash, pgvector.NewVector(embeddings[hash]))
			if err != nil {
				return err
			}
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to put cached embeddings: %w", err)
	}
	return nil
}
