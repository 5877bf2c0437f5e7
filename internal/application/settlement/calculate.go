package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain"
	"github.com/windassist/windpark-api/internal/domain/entity"
	calc "github.com/windassist/windpark-api/internal/domain/settlement"
	"github.com/windassist/windpark-api/pkg/logger"
)

// CalculateUseCase runs a settlement calculation and persists the result
// atomically: all items of the settlement are deleted and recreated inside
// one transaction, never partially updated.
type CalculateUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewCalculateUseCase constructs the use case.
func NewCalculateUseCase(txRunner TxRunner, log *logger.Logger) *CalculateUseCase {
	return &CalculateUseCase{txRunner: txRunner, log: log, now: time.Now}
}

// Calculate recalculates the settlement with the given ID. Allowed from OPEN
// and CALCULATED only; any other status is a state conflict. The whole run is
// one transaction serialized per settlement.
func (uc *CalculateUseCase) Calculate(ctx context.Context, settlementID string) (*entity.LeaseRevenueSettlement, error) {
	var header *entity.LeaseRevenueSettlement

	err := uc.txRunner.RunSettlement(ctx, settlementID, func(r TxRepos) error {
		s, err := r.Settlements.GetByID(ctx, settlementID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("settlement %s: %w", settlementID, domain.ErrNotFound)
		}
		if s.Status != entity.SettlementStatusOpen && s.Status != entity.SettlementStatusCalculated {
			return fmt.Errorf("settlement %s cannot be calculated in status %s: %w",
				settlementID, s.Status, domain.ErrConflict)
		}

		loader := NewLoader(r.Parks, r.Plots, r.Leases, r.Energy)
		data, err := loader.Load(ctx, s)
		if err != nil {
			return err
		}

		var result calc.Result
		if s.PeriodType == entity.PeriodTypeAdvance {
			result, err = calc.CalculateAdvanceFees(data.Input, s.AdvanceInterval)
			if err != nil {
				return fmt.Errorf("%s: %w", err, domain.ErrInvalidInput)
			}
		} else {
			result = calc.CalculateFees(data.Input)
		}

		// For final settlements the already-credited advances offset the
		// payout per lease.
		var advanceByLease map[string]entity.AdvanceComponents
		if s.PeriodType == entity.PeriodTypeFinal {
			advanceByLease, err = r.Settlements.AdvanceComponentsByLease(ctx, s.ParkID, s.Year)
			if err != nil {
				return fmt.Errorf("load advance payments: %w", err)
			}
		}

		uc.applyResult(s, data, result)
		if err := r.Settlements.UpdateHeader(ctx, s); err != nil {
			return fmt.Errorf("update settlement header: %w", err)
		}

		if err := r.Settlements.DeleteItems(ctx, settlementID); err != nil {
			return fmt.Errorf("delete settlement items: %w", err)
		}
		for _, fees := range result.Leases {
			item := buildItem(s, fees, data.PlotSummaries[fees.LeaseID], advanceByLease)
			if err := r.Settlements.InsertItem(ctx, item); err != nil {
				return fmt.Errorf("insert settlement item for lease %s: %w", fees.LeaseID, err)
			}
		}

		header = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("settlement_id", header.ID).
		Str("period_type", header.PeriodType).
		Str("actual_fee", header.ActualFee.StringFixed(2)).
		Bool("used_minimum", header.UsedMinimum).
		Msg("settlement calculated")
	return header, nil
}

// applyResult writes the computed totals and the audit snapshot onto the
// header.
func (uc *CalculateUseCase) applyResult(s *entity.LeaseRevenueSettlement, data *LoadedData, result calc.Result) {
	s.CalculatedFee = result.CalculatedFee
	s.MinimumGuarantee = result.MinimumGuarantee
	s.ActualFee = result.ActualFee
	s.UsedMinimum = result.UsedMinimum
	s.WEAStandortTotal = result.WEAStandortTotal
	s.PoolAreaTotal = result.PoolAreaTotal
	s.Status = entity.SettlementStatusCalculated
	s.UpdatedAt = uc.now()
	s.CalculationDetails = &entity.CalculationDetails{
		Inputs: entity.CalculationInputsSnapshot{
			TotalRevenue:          data.Input.TotalRevenue,
			RevenueSharePercent:   data.Input.RevenueSharePercent,
			MinimumRentPerTurbine: data.Input.MinimumRentPerTurbine,
			TotalWEACount:         data.Input.TotalWEACount,
			TotalPoolAreaSqm:      data.Input.TotalPoolAreaSqm,
			WEASharePercentage:    data.Input.WEASharePercentage,
			PoolSharePercentage:   data.Input.PoolSharePercentage,
			YearsInOperation:      data.YearsInOperation,
		},
		RevenueSources: data.RevenueSources,
		ManualRevenue:  s.ManualRevenue,
		DisplayMode:    data.DisplayMode,
	}
}

// buildItem assembles one item row with its frozen plot snapshot and, for
// final settlements, the advance-payment offset.
func buildItem(
	s *entity.LeaseRevenueSettlement,
	fees calc.LeaseFees,
	plotSummary []entity.PlotSummaryEntry,
	advanceByLease map[string]entity.AdvanceComponents,
) *entity.LeaseRevenueSettlementItem {
	item := &entity.LeaseRevenueSettlementItem{
		ID:                   uuid.New().String(),
		SettlementID:         s.ID,
		LeaseID:              fees.LeaseID,
		LessorID:             fees.LessorID,
		LessorName:           fees.LessorName,
		PoolAreaSqm:          fees.PoolAreaSqm,
		PoolAreaSharePercent: fees.PoolAreaSharePercent,
		TurbineCount:         fees.TurbineCount,
		PoolFee:              fees.PoolFee,
		StandortFee:          fees.StandortFee,
		SealedAreaFee:        fees.SealedAreaFee,
		RoadUsageFee:         fees.RoadUsageFee,
		CableFee:             fees.CableFee,
		Subtotal:             fees.Subtotal,
		TaxableAmount:        fees.TaxableAmount,
		ExemptAmount:         fees.ExemptAmount,
		PlotSummary:          plotSummary,
	}
	if advanceByLease != nil {
		item.AdvancePaid = advanceByLease[fees.LeaseID].Subtotal
		item.Remainder = decimal.Max(decimal.Zero, fees.Subtotal.Sub(item.AdvancePaid))
	}
	return item
}
