package archive

import (
	"context"
	"fmt"

	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
	"github.com/windassist/windpark-api/pkg/logger"
)

// AutoArchiver is the best-effort glue invoked after finalizing operations.
// The primary status transition has already committed when a hook runs, so
// every failure here is logged and swallowed; a missed document shows up as
// an absent archive record, never as a rolled-back invoice.
type AutoArchiver struct {
	svc      *Service
	invoices repository.InvoiceRepository
	storage  ObjectStorage
	log      *logger.Logger
}

// NewAutoArchiver constructs the hooks.
func NewAutoArchiver(svc *Service, invoices repository.InvoiceRepository, storage ObjectStorage, log *logger.Logger) *AutoArchiver {
	return &AutoArchiver{svc: svc, invoices: invoices, storage: storage, log: log}
}

// OnInvoiceSent archives the rendered PDF of an invoice that just went out.
func (a *AutoArchiver) OnInvoiceSent(ctx context.Context, tenantID, invoiceID string) {
	inv, err := a.invoices.GetByID(ctx, invoiceID)
	if err != nil || inv == nil {
		a.logSkip(err, tenantID, invoiceID, "load invoice")
		return
	}
	if inv.PDFKey == "" {
		a.logSkip(nil, tenantID, invoiceID, "invoice has no rendered PDF")
		return
	}
	content, err := a.storage.Get(ctx, inv.PDFKey)
	if err != nil {
		a.logSkip(err, tenantID, invoiceID, "fetch rendered PDF")
		return
	}

	docType := entity.ArchiveDocTypeInvoice
	if inv.InvoiceType == entity.InvoiceTypeCreditNote {
		docType = entity.ArchiveDocTypeCreditNote
	}
	a.archive(ctx, Params{
		TenantID:     tenantID,
		ReferenceID:  inv.ID,
		DocumentType: docType,
		FileName:     fmt.Sprintf("%s.pdf", inv.Number),
		MimeType:     "application/pdf",
		Content:      content,
	})
}

// OnSettlementFinalized archives the settlement statement PDF.
func (a *AutoArchiver) OnSettlementFinalized(ctx context.Context, tenantID, settlementID, pdfKey string) {
	a.archiveFromStorage(ctx, tenantID, settlementID, entity.ArchiveDocTypeSettlement, pdfKey)
}

// OnContractFinalized archives the signed lease contract PDF.
func (a *AutoArchiver) OnContractFinalized(ctx context.Context, tenantID, leaseID, pdfKey string) {
	a.archiveFromStorage(ctx, tenantID, leaseID, entity.ArchiveDocTypeContract, pdfKey)
}

func (a *AutoArchiver) archiveFromStorage(ctx context.Context, tenantID, referenceID, docType, pdfKey string) {
	if pdfKey == "" {
		a.logSkip(nil, tenantID, referenceID, "no rendered PDF")
		return
	}
	content, err := a.storage.Get(ctx, pdfKey)
	if err != nil {
		a.logSkip(err, tenantID, referenceID, "fetch rendered PDF")
		return
	}
	a.archive(ctx, Params{
		TenantID:     tenantID,
		ReferenceID:  referenceID,
		DocumentType: docType,
		FileName:     fmt.Sprintf("%s.pdf", referenceID),
		MimeType:     "application/pdf",
		Content:      content,
	})
}

func (a *AutoArchiver) archive(ctx context.Context, p Params) {
	if _, err := a.svc.Archive(ctx, p); err != nil {
		a.log.Error().Err(err).
			Str("tenant_id", p.TenantID).
			Str("reference_id", p.ReferenceID).
			Str("document_type", p.DocumentType).
			Msg("auto-archive failed")
		return
	}
}

func (a *AutoArchiver) logSkip(err error, tenantID, referenceID, reason string) {
	evt := a.log.Warn()
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Str("tenant_id", tenantID).
		Str("reference_id", referenceID).
		Msg("auto-archive skipped: " + reason)
}
