package archive

import (
	"context"

	"github.com/windassist/windpark-api/internal/domain/repository"
)

// ObjectStorage is the narrow blob-store contract the archive needs: PUT and
// GET by key. Archive keys live under a dedicated prefix, separate from
// regular document storage.
type ObjectStorage interface {
	Put(ctx context.Context, key string, content []byte, contentType string, metadata map[string]string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// TxRunner runs fn inside a single database transaction serialized per
// tenant. The chain append (read last link, compute, insert) must never
// interleave for the same tenant or two documents end up chaining onto the
// same predecessor.
type TxRunner interface {
	RunArchive(ctx context.Context, tenantID string, fn func(docs repository.ArchiveRepository) error) error
}
