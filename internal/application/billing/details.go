package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

// buildPdfDetails assembles the annex payload attached to every settlement
// credit note. The revenue table prefers the revenue-source breakdown stored
// by the settlement wizard; only when none exists are the energy settlements
// aggregated again.
func buildPdfDetails(ctx context.Context, r TxRepos, s *entity.LeaseRevenueSettlement) (*entity.SettlementPdfDetails, error) {
	details := &entity.SettlementPdfDetails{
		Type:     s.PeriodType,
		Subtitle: fmt.Sprintf("Pachtabrechnung %s", periodLabel(s)),
	}
	if s.PeriodType == entity.PeriodTypeAdvance {
		details.Subtitle = fmt.Sprintf("Pachtvorauszahlung %s", periodLabel(s))
	}

	displayMode := entity.DisplayModeYearly
	if s.CalculationDetails != nil {
		displayMode = s.CalculationDetails.DisplayMode
		details.CalculationSummary = entity.CalculationSummary{
			TotalRevenue:        s.CalculationDetails.Inputs.TotalRevenue,
			RevenueSharePercent: s.CalculationDetails.Inputs.RevenueSharePercent,
			CalculatedFee:       s.CalculatedFee,
			MinimumGuarantee:    s.MinimumGuarantee,
			ActualFee:           s.ActualFee,
			UsedMinimum:         s.UsedMinimum,
		}
	}

	if s.CalculationDetails != nil && len(s.CalculationDetails.RevenueSources) > 0 {
		for _, src := range s.CalculationDetails.RevenueSources {
			row := entity.RevenueTableRow{
				Period:       fmt.Sprintf("%d", src.Year),
				TotalRevenue: src.RevenueEur,
			}
			if displayMode == entity.DisplayModeMonthly && src.Month != nil {
				row.Period = fmt.Sprintf("%d-%02d", src.Year, *src.Month)
			}
			details.RevenueTable = append(details.RevenueTable, row)
			details.RevenueTableTotal = details.RevenueTableTotal.Add(src.RevenueEur)
		}
	} else {
		rows, err := r.Energy.ListForRevenue(ctx, s.ParkID, s.Year)
		if err != nil {
			return nil, fmt.Errorf("aggregate revenue table: %w", err)
		}
		details.RevenueTable, details.RevenueTableTotal = revenueTable(rows, displayMode)
	}

	productions, err := r.Energy.ListTurbineProductions(ctx, s.ParkID, s.Year)
	if err != nil {
		return nil, fmt.Errorf("load turbine productions: %w", err)
	}
	details.TurbineProductions = productions

	return details, nil
}

// revenueTable folds energy settlements into annex rows. In YEARLY mode all
// rows collapse into a single year line.
func revenueTable(rows []entity.EnergySettlement, displayMode string) ([]entity.RevenueTableRow, decimal.Decimal) {
	var table []entity.RevenueTableRow
	total := decimal.Zero

	if displayMode == entity.DisplayModeMonthly {
		for _, es := range rows {
			period := fmt.Sprintf("%d", es.Year)
			if es.Month != nil {
				period = fmt.Sprintf("%d-%02d", es.Year, *es.Month)
			}
			table = append(table, entity.RevenueTableRow{
				Period:                 period,
				EEGRevenue:             es.EEGRevenue,
				DirectMarketingRevenue: es.DirectMarketingRevenue,
				TotalRevenue:           es.NetOperatorRevenue,
			})
			total = total.Add(es.NetOperatorRevenue)
		}
		return table, total
	}

	if len(rows) == 0 {
		return nil, total
	}
	year := entity.RevenueTableRow{Period: fmt.Sprintf("%d", rows[0].Year)}
	for _, es := range rows {
		year.EEGRevenue = year.EEGRevenue.Add(es.EEGRevenue)
		year.DirectMarketingRevenue = year.DirectMarketingRevenue.Add(es.DirectMarketingRevenue)
		year.TotalRevenue = year.TotalRevenue.Add(es.NetOperatorRevenue)
		total = total.Add(es.NetOperatorRevenue)
	}
	return []entity.RevenueTableRow{year}, total
}
