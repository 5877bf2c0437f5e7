package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

// SettlementRepository is the persistence port for lease-revenue settlements
// and their items.
type SettlementRepository interface {
	GetByID(ctx context.Context, id string) (*entity.LeaseRevenueSettlement, error)
	// UpdateHeader writes the computed totals, status and calculation-details
	// snapshot of a settlement.
	UpdateHeader(ctx context.Context, s *entity.LeaseRevenueSettlement) error
	UpdateStatus(ctx context.Context, id, status string) error

	DeleteItems(ctx context.Context, settlementID string) error
	InsertItem(ctx context.Context, item *entity.LeaseRevenueSettlementItem) error
	ListItems(ctx context.Context, settlementID string) ([]entity.LeaseRevenueSettlementItem, error)
	SetItemAdvanceInvoice(ctx context.Context, itemID, invoiceID string) error
	SetItemSettlementInvoice(ctx context.Context, itemID, invoiceID string) error
	UpdateItemRemainder(ctx context.Context, itemID string, remainder decimal.Decimal) error

	// AdvanceComponentsByLease aggregates, per lease, the fee components of all
	// ADVANCE-period settlements of (park, year) in the credited statuses
	// (CALCULATED, SETTLED, ADVANCE_CREATED, PENDING_REVIEW, APPROVED, CLOSED).
	AdvanceComponentsByLease(ctx context.Context, parkID string, year int) (map[string]entity.AdvanceComponents, error)
}
