package repository

import (
	"context"

	"github.com/windassist/windpark-api/internal/domain/entity"
)

// AllocationRepository is the persistence port for park cost allocations.
type AllocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ParkCostAllocation, error)
	ListItems(ctx context.Context, allocationID string) ([]entity.ParkCostAllocationItem, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// SetItemInvoices links the generated invoice onto the item. Both IDs
	// reference the same invoice (one document, taxable + exempt lines).
	SetItemInvoices(ctx context.Context, itemID, vatInvoiceID, exemptInvoiceID string) error
}
