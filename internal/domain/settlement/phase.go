package settlement

import "github.com/windassist/windpark-api/internal/domain/entity"

// YearsInOperation counts the settlement year as a full operating year: a park
// commissioned in 2020 is in its first year of operation during 2020.
func YearsInOperation(commissioningYear, settlementYear int) int {
	return settlementYear - commissioningYear + 1
}

// ActiveRevenuePhase returns the revenue phase covering the settlement year,
// or nil when no phase matches. An EndYear of nil means open-ended. Callers
// must treat nil as a configuration error, not as zero revenue share.
func ActiveRevenuePhase(phases []entity.RevenuePhase, commissioningYear, settlementYear int) *entity.RevenuePhase {
	years := YearsInOperation(commissioningYear, settlementYear)
	for i := range phases {
		p := &phases[i]
		if years < p.StartYear {
			continue
		}
		if p.EndYear != nil && years > *p.EndYear {
			continue
		}
		return p
	}
	return nil
}
