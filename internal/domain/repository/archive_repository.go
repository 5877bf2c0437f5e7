package repository

import (
	"context"
	"time"

	"github.com/windassist/windpark-api/internal/domain/entity"
)

// ArchiveRepository is the persistence port for the GoBD document chain.
// Rows are immutable apart from the access counters.
type ArchiveRepository interface {
	Create(ctx context.Context, doc *entity.ArchivedDocument) error
	GetByID(ctx context.Context, id, tenantID string) (*entity.ArchivedDocument, error)
	// GetByReference looks up the duplicate-guard key (tenant, reference, type).
	GetByReference(ctx context.Context, tenantID, referenceID, documentType string) (*entity.ArchivedDocument, error)
	// GetLatest returns the tenant's most recently archived document, nil when
	// the chain is empty.
	GetLatest(ctx context.Context, tenantID string) (*entity.ArchivedDocument, error)
	// ChainHashBefore returns the chain hash of the nearest document archived
	// strictly before the given time, or "" when none exists.
	ChainHashBefore(ctx context.Context, tenantID string, before time.Time) (string, error)
	// ListByArchiveTime returns documents ordered oldest to newest, optionally
	// windowed by archive timestamp.
	ListByArchiveTime(ctx context.Context, tenantID string, from, to *time.Time) ([]entity.ArchivedDocument, error)
	// RecordAccess bumps the access counter and last-accessed timestamp.
	RecordAccess(ctx context.Context, id string, at time.Time) error
}
