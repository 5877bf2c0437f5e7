package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Park cost allocation statuses.
const (
	AllocationStatusDraft    = "DRAFT"
	AllocationStatusInvoiced = "INVOICED"
)

// ParkCostAllocation splits a settlement's totals among operating-company
// funds.
type ParkCostAllocation struct {
	ID           string
	TenantID     string
	ParkID       string
	SettlementID string
	Year         int
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ParkCostAllocationItem is one fund's share. VATInvoiceID and ExemptInvoiceID
// reference the generated allocation invoice; both point at the same invoice
// (one document with a taxable and an exempt line).
type ParkCostAllocationItem struct {
	ID              string
	AllocationID    string
	FundID          string
	FundName        string
	TaxableAmount   decimal.Decimal
	ExemptAmount    decimal.Decimal
	VATInvoiceID    *string
	ExemptInvoiceID *string
}
