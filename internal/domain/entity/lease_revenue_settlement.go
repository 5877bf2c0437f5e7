package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lease-revenue settlement state machine:
// OPEN -> CALCULATED -> ADVANCE_CREATED (advance) / SETTLED (final)
//      -> PENDING_REVIEW -> APPROVED -> CLOSED.
// Recalculation is allowed from OPEN and CALCULATED only.
const (
	SettlementStatusOpen           = "OPEN"
	SettlementStatusCalculated     = "CALCULATED"
	SettlementStatusAdvanceCreated = "ADVANCE_CREATED"
	SettlementStatusSettled        = "SETTLED"
	SettlementStatusPendingReview  = "PENDING_REVIEW"
	SettlementStatusApproved       = "APPROVED"
	SettlementStatusClosed         = "CLOSED"
)

// Settlement period types.
const (
	PeriodTypeAdvance = "ADVANCE"
	PeriodTypeFinal   = "FINAL"
)

// Advance intervals and their yearly divisors.
const (
	AdvanceIntervalYearly    = "YEARLY"
	AdvanceIntervalQuarterly = "QUARTERLY"
	AdvanceIntervalMonthly   = "MONTHLY"
)

// Settlement display modes for the PDF revenue table.
const (
	DisplayModeMonthly = "MONTHLY"
	DisplayModeYearly  = "YEARLY"
)

// LeaseRevenueSettlement is one settlement run for (park, year, period type).
type LeaseRevenueSettlement struct {
	ID                       string
	TenantID                 string
	ParkID                   string
	Year                     int
	PeriodType               string // ADVANCE or FINAL
	AdvanceInterval          string // YEARLY, QUARTERLY, MONTHLY (advance only)
	Month                    *int   // set for monthly advances
	Quarter                  *int   // set for quarterly advances
	Status                   string
	LinkedEnergySettlementID *string // manual override: use this single energy settlement
	ManualRevenue            *decimal.Decimal
	CalculatedFee            decimal.Decimal
	MinimumGuarantee         decimal.Decimal
	ActualFee                decimal.Decimal
	UsedMinimum              bool
	WEAStandortTotal         decimal.Decimal
	PoolAreaTotal            decimal.Decimal
	CalculationDetails       *CalculationDetails
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// LeaseRevenueSettlementItem is the computed fee breakdown for one lease in a
// settlement run. PlotSummary freezes the plot composition used for the
// calculation; later plot edits must not change historical items.
type LeaseRevenueSettlementItem struct {
	ID                   string
	SettlementID         string
	LeaseID              string
	LessorID             string
	LessorName           string
	PoolAreaSqm          decimal.Decimal
	PoolAreaSharePercent decimal.Decimal // 4 decimals
	TurbineCount         int
	PoolFee              decimal.Decimal
	StandortFee          decimal.Decimal
	SealedAreaFee        decimal.Decimal
	RoadUsageFee         decimal.Decimal
	CableFee             decimal.Decimal
	Subtotal             decimal.Decimal
	TaxableAmount        decimal.Decimal // pool fee, standard VAT
	ExemptAmount         decimal.Decimal // §4 Nr. 12 UStG land-lease exemption
	AdvancePaid          decimal.Decimal
	Remainder            decimal.Decimal
	PlotSummary          []PlotSummaryEntry
	AdvanceInvoiceID     *string // set once an advance credit note exists
	SettlementInvoiceID  *string // set once a final credit note exists
}

// AdvanceComponents aggregates the fee components already credited to a lease
// across prior advance settlements of a park/year. The final-settlement
// generator deducts these per component.
type AdvanceComponents struct {
	PoolFee       decimal.Decimal
	StandortFee   decimal.Decimal
	SealedAreaFee decimal.Decimal
	RoadUsageFee  decimal.Decimal
	CableFee      decimal.Decimal
	Subtotal      decimal.Decimal
}

// CalculationDetails is the audit snapshot stored on the settlement header.
// It must round-trip through JSON unchanged; the PDF renderer consumes it.
type CalculationDetails struct {
	Inputs         CalculationInputsSnapshot `json:"inputs"`
	RevenueSources []RevenueSource           `json:"revenueSources,omitempty"`
	ManualRevenue  *decimal.Decimal          `json:"manualRevenue,omitempty"`
	DisplayMode    string                    `json:"displayMode"`
}

// CalculationInputsSnapshot records the resolved inputs of a calculation run.
type CalculationInputsSnapshot struct {
	TotalRevenue          decimal.Decimal `json:"totalRevenue"`
	RevenueSharePercent   decimal.Decimal `json:"revenueSharePercent"`
	MinimumRentPerTurbine decimal.Decimal `json:"minimumRentPerTurbine"`
	TotalWEACount         int             `json:"totalWeaCount"`
	TotalPoolAreaSqm      decimal.Decimal `json:"totalPoolAreaSqm"`
	WEASharePercentage    decimal.Decimal `json:"weaSharePercentage"`
	PoolSharePercentage   decimal.Decimal `json:"poolSharePercentage"`
	YearsInOperation      int             `json:"yearsInOperation"`
}

// RevenueSource is one revenue row that contributed to the total.
type RevenueSource struct {
	Label      string          `json:"label"`
	Year       int             `json:"year"`
	Month      *int            `json:"month,omitempty"`
	RevenueEur decimal.Decimal `json:"revenueEur"`
}

// PlotSummaryEntry is one plot in the frozen composition snapshot.
type PlotSummaryEntry struct {
	PlotID            string            `json:"plotId"`
	PlotNumber        string            `json:"plotNumber"`
	CadastralDistrict string            `json:"cadastralDistrict"`
	FieldNumber       string            `json:"fieldNumber"`
	AreaSqm           decimal.Decimal   `json:"areaSqm"`
	TurbineCount      int               `json:"turbineCount"`
	Areas             []PlotSummaryArea `json:"areas"`
}

// PlotSummaryArea is one typed area inside a plot snapshot.
type PlotSummaryArea struct {
	AreaType string           `json:"areaType"`
	AreaSqm  decimal.Decimal  `json:"areaSqm"`
	LengthM  *decimal.Decimal `json:"lengthM,omitempty"`
}
