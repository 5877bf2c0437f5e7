package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository on PostgreSQL (usable with pool or
// tx). The PDF annex payload is stored as JSONB.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository constructs the adapter. Pass pool or tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persists the invoice header.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	var details []byte
	if invoice.CalculationDetails != nil {
		var err error
		details, err = json.Marshal(invoice.CalculationDetails)
		if err != nil {
			return fmt.Errorf("encode invoice annex: %w", err)
		}
	}
	query := `
		INSERT INTO invoices (
			id, tenant_id, invoice_type, number, recipient_id, recipient_name,
			date, net_total, tax_total, grand_total, status, pdf_key,
			calculation_details, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.TenantID, invoice.InvoiceType, invoice.Number,
		invoice.RecipientID, invoice.RecipientName,
		invoice.Date, invoice.NetTotal, invoice.TaxTotal, invoice.GrandTotal,
		invoice.Status, invoice.PDFKey, details,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s already exists: %w", invoice.Number, err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persists one invoice line.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (
			id, invoice_id, position, position_key, description,
			net_amount, tax_type, tax_rate_percent, tax_amount, gross_amount
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Position, item.PositionKey, item.Description,
		item.NetAmount, item.TaxType, item.TaxRatePercent, item.TaxAmount, item.GrossAmount,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID returns an invoice header, nil when missing.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `
		SELECT id, tenant_id, invoice_type, number, recipient_id, recipient_name,
		       date, net_total, tax_total, grand_total, status, COALESCE(pdf_key, ''),
		       calculation_details, created_at, updated_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	var details []byte
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.TenantID, &inv.InvoiceType, &inv.Number,
		&inv.RecipientID, &inv.RecipientName,
		&inv.Date, &inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal,
		&inv.Status, &inv.PDFKey, &details,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if len(details) > 0 {
		inv.CalculationDetails = &entity.SettlementPdfDetails{}
		if err := json.Unmarshal(details, inv.CalculationDetails); err != nil {
			return nil, fmt.Errorf("decode invoice annex: %w", err)
		}
	}
	return &inv, nil
}

// ListItems returns the invoice lines in position order.
func (r *InvoiceRepo) ListItems(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, position, position_key, description,
		       net_amount, tax_type, tax_rate_percent, tax_amount, gross_amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var items []entity.InvoiceItem
	for rows.Next() {
		var item entity.InvoiceItem
		if err := rows.Scan(
			&item.ID, &item.InvoiceID, &item.Position, &item.PositionKey, &item.Description,
			&item.NetAmount, &item.TaxType, &item.TaxRatePercent, &item.TaxAmount, &item.GrossAmount,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateStatus transitions the invoice status.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}
