package repository

import (
	"context"

	"github.com/windassist/windpark-api/internal/domain/entity"
)

// InvoiceRepository is the persistence port for invoices and credit notes.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	ListItems(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// InvoiceNumberRepository allocates sequential, gap-free invoice numbers per
// (tenant, invoice type). Allocation of a batch is one round-trip and must be
// serialized against concurrent allocations.
type InvoiceNumberRepository interface {
	NextNumbers(ctx context.Context, tenantID, invoiceType string, count int) ([]string, error)
}
