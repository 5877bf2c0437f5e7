package dto

import (
	"time"

	"github.com/windassist/windpark-api/internal/domain/entity"
)

// ArchiveRequest body for POST /api/archive. Content is base64-encoded.
type ArchiveRequest struct {
	ReferenceID  string `json:"reference_id"`
	DocumentType string `json:"document_type"` // INVOICE, CREDIT_NOTE, CONTRACT, SETTLEMENT
	FileName     string `json:"file_name"`
	MimeType     string `json:"mime_type"`
	Content      string `json:"content"`
}

// ArchiveTriggerRequest body for the auto-archive trigger endpoints. PDFKey
// is the storage key of the already rendered document.
type ArchiveTriggerRequest struct {
	PDFKey string `json:"pdf_key"`
}

// ArchivedDocumentResponse is one chain link in responses. The content itself
// is served separately via the /content endpoint.
type ArchivedDocumentResponse struct {
	ID                string     `json:"id"`
	ReferenceID       string     `json:"reference_id"`
	DocumentType      string     `json:"document_type"`
	FileName          string     `json:"file_name"`
	MimeType          string     `json:"mime_type"`
	SizeBytes         int64      `json:"size_bytes"`
	ContentHash       string     `json:"content_hash"`
	ChainHash         string     `json:"chain_hash"`
	PreviousArchiveID *string    `json:"previous_archive_id,omitempty"`
	ArchivedAt        time.Time  `json:"archived_at"`
	RetentionUntil    time.Time  `json:"retention_until"`
	AccessCount       int        `json:"access_count"`
	LastAccessedAt    *time.Time `json:"last_accessed_at,omitempty"`
}

// FromArchivedDocument maps an archived document onto the response.
func FromArchivedDocument(doc *entity.ArchivedDocument) ArchivedDocumentResponse {
	return ArchivedDocumentResponse{
		ID:                doc.ID,
		ReferenceID:       doc.ReferenceID,
		DocumentType:      doc.DocumentType,
		FileName:          doc.FileName,
		MimeType:          doc.MimeType,
		SizeBytes:         doc.SizeBytes,
		ContentHash:       doc.ContentHash,
		ChainHash:         doc.ChainHash,
		PreviousArchiveID: doc.PreviousArchiveID,
		ArchivedAt:        doc.ArchivedAt,
		RetentionUntil:    doc.RetentionUntil,
		AccessCount:       doc.AccessCount,
		LastAccessedAt:    doc.LastAccessedAt,
	}
}
