package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

// positionOrder fixes the line order of the five fee components on every
// generated document.
var positionOrder = []string{
	entity.PositionPoolArea,
	entity.PositionTurbineSite,
	entity.PositionSealedArea,
	entity.PositionRoadUsage,
	entity.PositionCableRoute,
}

var positionLabels = map[string]string{
	entity.PositionPoolArea:    "Poolflächen-Entgelt",
	entity.PositionTurbineSite: "Standortentgelt WEA",
	entity.PositionSealedArea:  "Entgelt versiegelte Flächen",
	entity.PositionRoadUsage:   "Wegenutzungsentgelt",
	entity.PositionCableRoute:  "Kabeltrassen-Entgelt",
}

// defaultTaxExemptNote is printed on exempt lines when the tenant has not
// configured its own wording.
const defaultTaxExemptNote = "steuerfrei nach § 4 Nr. 12 UStG"

func positionLabel(key string) string {
	if l, ok := positionLabels[key]; ok {
		return l
	}
	return key
}

// itemComponents returns the five fee components of a settlement item in
// positionOrder.
func itemComponents(item *entity.LeaseRevenueSettlementItem) []decimal.Decimal {
	return []decimal.Decimal{
		item.PoolFee,
		item.StandortFee,
		item.SealedAreaFee,
		item.RoadUsageFee,
		item.CableFee,
	}
}

// advanceComponentAmounts returns the already-advanced amounts in the same
// order as itemComponents.
func advanceComponentAmounts(adv entity.AdvanceComponents) []decimal.Decimal {
	return []decimal.Decimal{
		adv.PoolFee,
		adv.StandortFee,
		adv.SealedAreaFee,
		adv.RoadUsageFee,
		adv.CableFee,
	}
}

// positionTaxMap resolves the fee-position tax types from tenant settings,
// falling back to the built-in defaults: pool areas carry standard VAT,
// everything else is exempt under §4 Nr. 12 UStG.
func positionTaxMap(settings *entity.TenantSettings) map[string]string {
	m := map[string]string{
		entity.PositionPoolArea:    entity.TaxTypeStandard,
		entity.PositionTurbineSite: entity.TaxTypeExempt,
		entity.PositionSealedArea:  entity.TaxTypeExempt,
		entity.PositionRoadUsage:   entity.TaxTypeExempt,
		entity.PositionCableRoute:  entity.TaxTypeExempt,
	}
	if settings == nil {
		return m
	}
	for key, taxType := range settings.PositionTaxTypes {
		m[key] = taxType
	}
	return m
}

func taxExemptNote(settings *entity.TenantSettings) string {
	if settings != nil && settings.TaxExemptNote != "" {
		return settings.TaxExemptNote
	}
	return defaultTaxExemptNote
}

// periodLabel formats the billing period of a settlement: "Q1/2024" for
// quarterly advances, "03/2024" for monthly ones, the plain year otherwise.
func periodLabel(s *entity.LeaseRevenueSettlement) string {
	switch {
	case s.Quarter != nil:
		return fmt.Sprintf("Q%d/%d", *s.Quarter, s.Year)
	case s.Month != nil:
		return fmt.Sprintf("%02d/%d", *s.Month, s.Year)
	default:
		return fmt.Sprintf("%d", s.Year)
	}
}
