package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var _ repository.ArchiveRepository = (*ArchiveRepo)(nil)

// ArchiveRepo implements ArchiveRepository on PostgreSQL (usable with pool or
// tx). archived_documents is append-only; the only UPDATE touches the access
// counters.
type ArchiveRepo struct {
	q Querier
}

// NewArchiveRepository constructs the adapter. Pass pool or tx (Querier).
func NewArchiveRepository(q Querier) *ArchiveRepo {
	return &ArchiveRepo{q: q}
}

const archivedDocumentColumns = `
	id, tenant_id, reference_id, document_type, file_name, mime_type,
	size_bytes, content_hash, chain_hash, previous_archive_id, storage_key,
	archived_at, retention_until, access_count, last_accessed_at`

// Create appends one chain link.
func (r *ArchiveRepo) Create(ctx context.Context, doc *entity.ArchivedDocument) error {
	query := `
		INSERT INTO archived_documents (
			id, tenant_id, reference_id, document_type, file_name, mime_type,
			size_bytes, content_hash, chain_hash, previous_archive_id, storage_key,
			archived_at, retention_until, access_count
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,0)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.TenantID, doc.ReferenceID, doc.DocumentType, doc.FileName, doc.MimeType,
		doc.SizeBytes, doc.ContentHash, doc.ChainHash, doc.PreviousArchiveID, doc.StorageKey,
		doc.ArchivedAt, doc.RetentionUntil,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("archive entry for %s/%s already exists: %w",
				doc.ReferenceID, doc.DocumentType, err)
		}
		return fmt.Errorf("insert archived document: %w", err)
	}
	return nil
}

// GetByID returns one document scoped to the tenant, nil when missing.
func (r *ArchiveRepo) GetByID(ctx context.Context, id, tenantID string) (*entity.ArchivedDocument, error) {
	query := `SELECT ` + archivedDocumentColumns + `
		FROM archived_documents WHERE id = $1 AND tenant_id = $2`
	return r.getOne(ctx, query, id, tenantID)
}

// GetByReference looks up the duplicate-guard key (tenant, reference, type).
func (r *ArchiveRepo) GetByReference(ctx context.Context, tenantID, referenceID, documentType string) (*entity.ArchivedDocument, error) {
	query := `SELECT ` + archivedDocumentColumns + `
		FROM archived_documents
		WHERE tenant_id = $1 AND reference_id = $2 AND document_type = $3`
	return r.getOne(ctx, query, tenantID, referenceID, documentType)
}

// GetLatest returns the newest link of the tenant's chain, nil when empty.
func (r *ArchiveRepo) GetLatest(ctx context.Context, tenantID string) (*entity.ArchivedDocument, error) {
	query := `SELECT ` + archivedDocumentColumns + `
		FROM archived_documents WHERE tenant_id = $1
		ORDER BY archived_at DESC, id DESC LIMIT 1`
	return r.getOne(ctx, query, tenantID)
}

func (r *ArchiveRepo) getOne(ctx context.Context, query string, args ...any) (*entity.ArchivedDocument, error) {
	var doc entity.ArchivedDocument
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&doc.ID, &doc.TenantID, &doc.ReferenceID, &doc.DocumentType, &doc.FileName, &doc.MimeType,
		&doc.SizeBytes, &doc.ContentHash, &doc.ChainHash, &doc.PreviousArchiveID, &doc.StorageKey,
		&doc.ArchivedAt, &doc.RetentionUntil, &doc.AccessCount, &doc.LastAccessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get archived document: %w", err)
	}
	return &doc, nil
}

// ChainHashBefore returns the chain hash of the nearest document archived
// strictly before the given time, or "" when none exists.
func (r *ArchiveRepo) ChainHashBefore(ctx context.Context, tenantID string, before time.Time) (string, error) {
	query := `
		SELECT chain_hash FROM archived_documents
		WHERE tenant_id = $1 AND archived_at < $2
		ORDER BY archived_at DESC, id DESC LIMIT 1`
	var hash string
	err := r.q.QueryRow(ctx, query, tenantID, before).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get chain hash before: %w", err)
	}
	return hash, nil
}

// ListByArchiveTime returns the tenant's documents oldest to newest,
// optionally windowed by archive timestamp.
func (r *ArchiveRepo) ListByArchiveTime(ctx context.Context, tenantID string, from, to *time.Time) ([]entity.ArchivedDocument, error) {
	query := `SELECT ` + archivedDocumentColumns + `
		FROM archived_documents
		WHERE tenant_id = $1
		  AND ($2::timestamptz IS NULL OR archived_at >= $2)
		  AND ($3::timestamptz IS NULL OR archived_at < $3)
		ORDER BY archived_at, id`
	rows, err := r.q.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list archived documents: %w", err)
	}
	defer rows.Close()

	var docs []entity.ArchivedDocument
	for rows.Next() {
		var doc entity.ArchivedDocument
		if err := rows.Scan(
			&doc.ID, &doc.TenantID, &doc.ReferenceID, &doc.DocumentType, &doc.FileName, &doc.MimeType,
			&doc.SizeBytes, &doc.ContentHash, &doc.ChainHash, &doc.PreviousArchiveID, &doc.StorageKey,
			&doc.ArchivedAt, &doc.RetentionUntil, &doc.AccessCount, &doc.LastAccessedAt,
		); err != nil {
			return nil, fmt.Errorf("scan archived document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// RecordAccess bumps the access counter and the last-accessed timestamp.
func (r *ArchiveRepo) RecordAccess(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE archived_documents
		SET access_count = access_count + 1, last_accessed_at = $2
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("record archive access: %w", err)
	}
	return nil
}
