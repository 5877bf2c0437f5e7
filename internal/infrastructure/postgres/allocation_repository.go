package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implements AllocationRepository on PostgreSQL (usable with
// pool or tx).
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository constructs the adapter. Pass pool or tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// GetByID returns a park cost allocation, nil when missing.
func (r *AllocationRepo) GetByID(ctx context.Context, id string) (*entity.ParkCostAllocation, error) {
	query := `
		SELECT id, tenant_id, park_id, settlement_id, year, status, created_at, updated_at
		FROM park_cost_allocations WHERE id = $1`
	var a entity.ParkCostAllocation
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.TenantID, &a.ParkID, &a.SettlementID, &a.Year, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return &a, nil
}

// ListItems returns the fund shares of an allocation ordered by fund name.
func (r *AllocationRepo) ListItems(ctx context.Context, allocationID string) ([]entity.ParkCostAllocationItem, error) {
	query := `
		SELECT id, allocation_id, fund_id, fund_name, taxable_amount, exempt_amount,
		       vat_invoice_id, exempt_invoice_id
		FROM park_cost_allocation_items
		WHERE allocation_id = $1 ORDER BY fund_name`
	rows, err := r.q.Query(ctx, query, allocationID)
	if err != nil {
		return nil, fmt.Errorf("list allocation items: %w", err)
	}
	defer rows.Close()

	var items []entity.ParkCostAllocationItem
	for rows.Next() {
		var item entity.ParkCostAllocationItem
		if err := rows.Scan(
			&item.ID, &item.AllocationID, &item.FundID, &item.FundName,
			&item.TaxableAmount, &item.ExemptAmount,
			&item.VATInvoiceID, &item.ExemptInvoiceID,
		); err != nil {
			return nil, fmt.Errorf("scan allocation item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateStatus transitions the allocation status.
func (r *AllocationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE park_cost_allocations SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("update allocation status: %w", err)
	}
	return nil
}

// SetItemInvoices links the generated invoice onto an item.
func (r *AllocationRepo) SetItemInvoices(ctx context.Context, itemID, vatInvoiceID, exemptInvoiceID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE park_cost_allocation_items SET vat_invoice_id = $2, exempt_invoice_id = $3 WHERE id = $1`,
		itemID, vatInvoiceID, exemptInvoiceID)
	if err != nil {
		return fmt.Errorf("link allocation invoices: %w", err)
	}
	return nil
}
