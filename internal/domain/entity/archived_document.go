package entity

import "time"

// Archive document types.
const (
	ArchiveDocTypeInvoice    = "INVOICE"
	ArchiveDocTypeCreditNote = "CREDIT_NOTE"
	ArchiveDocTypeContract   = "CONTRACT"
	ArchiveDocTypeSettlement = "SETTLEMENT"
)

// ArchivedDocument is one immutable link in a tenant's GoBD hash chain.
// ChainHash = SHA-256(previous chain hash + ":" + content hash); the first
// link of a tenant chains onto the genesis hash. Rows are never updated apart
// from the access counters.
type ArchivedDocument struct {
	ID                string
	TenantID          string
	ReferenceID       string // invoice/contract/settlement ID
	DocumentType      string
	FileName          string
	MimeType          string
	SizeBytes         int64
	ContentHash       string // hex SHA-256 of the content
	ChainHash         string
	PreviousArchiveID *string
	StorageKey        string
	ArchivedAt        time.Time
	RetentionUntil    time.Time
	AccessCount       int
	LastAccessedAt    *time.Time
}
