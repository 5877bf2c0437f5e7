package dto

import (
	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

// SettlementResponse is a lease-revenue settlement for
// GET /api/settlements/:id and the calculate response.
type SettlementResponse struct {
	ID               string                      `json:"id"`
	ParkID           string                      `json:"park_id"`
	Year             int                         `json:"year"`
	PeriodType       string                      `json:"period_type"`
	AdvanceInterval  string                      `json:"advance_interval,omitempty"`
	Month            *int                        `json:"month,omitempty"`
	Quarter          *int                        `json:"quarter,omitempty"`
	Status           string                      `json:"status"`
	CalculatedFee    decimal.Decimal             `json:"calculated_fee"`
	MinimumGuarantee decimal.Decimal             `json:"minimum_guarantee"`
	ActualFee        decimal.Decimal             `json:"actual_fee"`
	UsedMinimum      bool                        `json:"used_minimum"`
	WEAStandortTotal decimal.Decimal             `json:"wea_standort_total"`
	PoolAreaTotal    decimal.Decimal             `json:"pool_area_total"`
	Details          *entity.CalculationDetails  `json:"calculation_details,omitempty"`
	Items            []SettlementItemResponse    `json:"items,omitempty"`
}

// SettlementItemResponse is one per-lease fee breakdown row.
type SettlementItemResponse struct {
	ID                   string          `json:"id"`
	LeaseID              string          `json:"lease_id"`
	LessorID             string          `json:"lessor_id"`
	LessorName           string          `json:"lessor_name"`
	PoolAreaSqm          decimal.Decimal `json:"pool_area_sqm"`
	PoolAreaSharePercent decimal.Decimal `json:"pool_area_share_percent"`
	TurbineCount         int             `json:"turbine_count"`
	PoolFee              decimal.Decimal `json:"pool_fee"`
	StandortFee          decimal.Decimal `json:"standort_fee"`
	SealedAreaFee        decimal.Decimal `json:"sealed_area_fee"`
	RoadUsageFee         decimal.Decimal `json:"road_usage_fee"`
	CableFee             decimal.Decimal `json:"cable_fee"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	TaxableAmount        decimal.Decimal `json:"taxable_amount"`
	ExemptAmount         decimal.Decimal `json:"exempt_amount"`
	AdvancePaid          decimal.Decimal `json:"advance_paid"`
	Remainder            decimal.Decimal `json:"remainder"`
	AdvanceInvoiceID     *string         `json:"advance_invoice_id,omitempty"`
	SettlementInvoiceID  *string         `json:"settlement_invoice_id,omitempty"`
}

// FromSettlement maps a settlement header and its items onto the response.
func FromSettlement(s *entity.LeaseRevenueSettlement, items []entity.LeaseRevenueSettlementItem) SettlementResponse {
	resp := SettlementResponse{
		ID:               s.ID,
		ParkID:           s.ParkID,
		Year:             s.Year,
		PeriodType:       s.PeriodType,
		AdvanceInterval:  s.AdvanceInterval,
		Month:            s.Month,
		Quarter:          s.Quarter,
		Status:           s.Status,
		CalculatedFee:    s.CalculatedFee,
		MinimumGuarantee: s.MinimumGuarantee,
		ActualFee:        s.ActualFee,
		UsedMinimum:      s.UsedMinimum,
		WEAStandortTotal: s.WEAStandortTotal,
		PoolAreaTotal:    s.PoolAreaTotal,
		Details:          s.CalculationDetails,
	}
	for i := range items {
		resp.Items = append(resp.Items, fromSettlementItem(&items[i]))
	}
	return resp
}

func fromSettlementItem(item *entity.LeaseRevenueSettlementItem) SettlementItemResponse {
	return SettlementItemResponse{
		ID:                   item.ID,
		LeaseID:              item.LeaseID,
		LessorID:             item.LessorID,
		LessorName:           item.LessorName,
		PoolAreaSqm:          item.PoolAreaSqm,
		PoolAreaSharePercent: item.PoolAreaSharePercent,
		TurbineCount:         item.TurbineCount,
		PoolFee:              item.PoolFee,
		StandortFee:          item.StandortFee,
		SealedAreaFee:        item.SealedAreaFee,
		RoadUsageFee:         item.RoadUsageFee,
		CableFee:             item.CableFee,
		Subtotal:             item.Subtotal,
		TaxableAmount:        item.TaxableAmount,
		ExemptAmount:         item.ExemptAmount,
		AdvancePaid:          item.AdvancePaid,
		Remainder:            item.Remainder,
		AdvanceInvoiceID:     item.AdvanceInvoiceID,
		SettlementInvoiceID:  item.SettlementInvoiceID,
	}
}
