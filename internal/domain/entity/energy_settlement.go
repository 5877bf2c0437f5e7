package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Energy settlement statuses. Only CALCULATED, INVOICED and CLOSED rows count
// toward the revenue aggregation of a lease-revenue settlement.
const (
	EnergySettlementStatusDraft      = "DRAFT"
	EnergySettlementStatusCalculated = "CALCULATED"
	EnergySettlementStatusInvoiced   = "INVOICED"
	EnergySettlementStatusClosed     = "CLOSED"
)

// EnergySettlement holds the operator revenue of a park for one year or one
// month, split into EEG and direct-marketing portions.
type EnergySettlement struct {
	ID                           string
	TenantID                     string
	ParkID                       string
	Year                         int
	Month                        *int // nil = yearly row
	Status                       string
	NetOperatorRevenue           decimal.Decimal
	EEGProductionKWh             decimal.Decimal
	EEGRevenue                   decimal.Decimal
	DirectMarketingProductionKWh decimal.Decimal
	DirectMarketingRevenue       decimal.Decimal
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}
