package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/windassist/windpark-api/internal/application/archive"
	"github.com/windassist/windpark-api/internal/domain"
)

var _ archive.ObjectStorage = (*PostgresStore)(nil)

// PostgresStore keeps blobs in a bytea table. Archived PDFs are small and
// infrequent, so the database doubles as the object store; the store runs on
// the same pool and backup regime as the chain rows.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store on the pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Put stores content under key. Keys are write-once: overwriting an existing
// key is rejected, matching the append-only archive semantics.
func (s *PostgresStore) Put(ctx context.Context, key string, content []byte, contentType string, metadata map[string]string) error {
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode object metadata: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO archive_objects (key, content, content_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		key, content, contentType, meta)
	if err != nil {
		return fmt.Errorf("store object %s: %w", key, err)
	}
	return nil
}

// Get returns the content stored under key.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM archive_objects WHERE key = $1`, key).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load object %s: %w", key, err)
	}
	return content, nil
}
