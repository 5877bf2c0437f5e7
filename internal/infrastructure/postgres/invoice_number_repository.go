package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var _ repository.InvoiceNumberRepository = (*InvoiceNumberRepo)(nil)

// InvoiceNumberRepo allocates gap-free invoice numbers from a per
// (tenant, invoice type, year) counter row. Claiming a batch is a single
// upsert; the row lock serializes concurrent allocations.
type InvoiceNumberRepo struct {
	q   Querier
	now func() time.Time
}

// NewInvoiceNumberRepository constructs the adapter. Pass pool or tx
// (Querier).
func NewInvoiceNumberRepository(q Querier) *InvoiceNumberRepo {
	return &InvoiceNumberRepo{q: q, now: time.Now}
}

// NextNumbers claims count sequential numbers and formats them as
// GS-2024-00042 (credit notes) or RE-2024-00042 (invoices).
func (r *InvoiceNumberRepo) NextNumbers(ctx context.Context, tenantID, invoiceType string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	prefix := "RE"
	if invoiceType == entity.InvoiceTypeCreditNote {
		prefix = "GS"
	}
	year := r.now().Year()

	var last int
	err := r.q.QueryRow(ctx, `
		INSERT INTO invoice_number_sequences (tenant_id, invoice_type, year, last_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, invoice_type, year)
		DO UPDATE SET last_number = invoice_number_sequences.last_number + EXCLUDED.last_number
		RETURNING last_number`,
		tenantID, invoiceType, year, count,
	).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("claim invoice numbers: %w", err)
	}

	numbers := make([]string, count)
	for i := range numbers {
		numbers[i] = fmt.Sprintf("%s-%d-%05d", prefix, year, last-count+1+i)
	}
	return numbers, nil
}
