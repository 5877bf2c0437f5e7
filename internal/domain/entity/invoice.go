package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice types.
const (
	InvoiceTypeInvoice    = "INVOICE"
	InvoiceTypeCreditNote = "CREDIT_NOTE"
)

// Invoice statuses.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusSent      = "SENT"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
)

// Tax types of invoice lines.
const (
	TaxTypeStandard = "STANDARD" // standard VAT (§12 UStG)
	TaxTypeExempt   = "EXEMPT"   // §4 Nr. 12 UStG land lease
)

// Fee position keys shared by settlement items and invoice lines.
const (
	PositionPoolArea    = "POOL_AREA"
	PositionTurbineSite = "TURBINE_SITE"
	PositionSealedArea  = "SEALED_AREA"
	PositionRoadUsage   = "ROAD_USAGE"
	PositionCableRoute  = "CABLE_ROUTE"
)

// Invoice is a billing document (invoice or credit note). CalculationDetails
// is only set on settlement-derived credit notes; the PDF renderer uses it for
// the page-2 annex.
type Invoice struct {
	ID                 string
	TenantID           string
	InvoiceType        string
	Number             string
	RecipientID        string // lessor or operator fund
	RecipientName      string
	Date               time.Time
	NetTotal           decimal.Decimal
	TaxTotal           decimal.Decimal
	GrandTotal         decimal.Decimal
	Status             string
	PDFKey             string // storage key of the rendered PDF
	CalculationDetails *SettlementPdfDetails
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ID             string
	InvoiceID      string
	Position       int
	PositionKey    string // POOL_AREA, TURBINE_SITE, ...
	Description    string
	NetAmount      decimal.Decimal
	TaxType        string
	TaxRatePercent decimal.Decimal
	TaxAmount      decimal.Decimal
	GrossAmount    decimal.Decimal
}

// SettlementPdfDetails is the annex payload stored on settlement-derived
// credit notes. The wire shape must stay stable for the renderer.
type SettlementPdfDetails struct {
	Type               string              `json:"type"` // ADVANCE or FINAL
	Subtitle           string              `json:"subtitle"`
	RevenueTable       []RevenueTableRow   `json:"revenueTable"`
	RevenueTableTotal  decimal.Decimal     `json:"revenueTableTotal"`
	CalculationSummary CalculationSummary  `json:"calculationSummary"`
	TurbineProductions []TurbineProduction `json:"turbineProductions"`
	FeePositions       []FeePosition       `json:"feePositions"`
}

// RevenueTableRow is one period row of the annex revenue table.
type RevenueTableRow struct {
	Period                 string          `json:"period"` // "2024-03" or "2024"
	EEGRevenue             decimal.Decimal `json:"eegRevenueEur"`
	DirectMarketingRevenue decimal.Decimal `json:"directMarketingRevenueEur"`
	TotalRevenue           decimal.Decimal `json:"totalRevenueEur"`
}

// CalculationSummary mirrors the settlement header figures on the annex.
type CalculationSummary struct {
	TotalRevenue        decimal.Decimal `json:"totalRevenueEur"`
	RevenueSharePercent decimal.Decimal `json:"revenueSharePercent"`
	CalculatedFee       decimal.Decimal `json:"calculatedFeeEur"`
	MinimumGuarantee    decimal.Decimal `json:"minimumGuaranteeEur"`
	ActualFee           decimal.Decimal `json:"actualFeeEur"`
	UsedMinimum         bool            `json:"usedMinimum"`
}

// TurbineProduction is one per-turbine production row of the annex.
type TurbineProduction struct {
	Designation   string          `json:"designation"`
	ProductionKWh decimal.Decimal `json:"productionKWh"`
}

// FeePosition is one annex fee line. Deduction lines (Verrechnung) carry a
// negative amount.
type FeePosition struct {
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	AmountEur decimal.Decimal `json:"amountEur"`
}
