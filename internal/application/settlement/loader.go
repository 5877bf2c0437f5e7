package settlement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
	calc "github.com/windassist/windpark-api/internal/domain/settlement"
)

// Loader assembles the calculator input from the park configuration, the plot
// graph and the aggregated energy-settlement revenue. It fails fast on any
// missing configuration; nothing is ever calculated from partial data.
type Loader struct {
	parks  repository.ParkRepository
	plots  repository.PlotRepository
	leases repository.LeaseRepository
	energy repository.EnergySettlementRepository
}

// NewLoader constructs the loader. The repositories may be pool-bound or
// tx-bound; the calculate use case passes tx-bound ones so the plot snapshot
// is read inside the same transaction that persists it.
func NewLoader(
	parks repository.ParkRepository,
	plots repository.PlotRepository,
	leases repository.LeaseRepository,
	energy repository.EnergySettlementRepository,
) *Loader {
	return &Loader{parks: parks, plots: plots, leases: leases, energy: energy}
}

// LoadedData is the fully resolved calculation input plus the audit data
// persisted alongside the result.
type LoadedData struct {
	Park             *entity.Park
	Input            calc.Input
	YearsInOperation int
	RevenueSources   []entity.RevenueSource
	DisplayMode      string
	// PlotSummaries holds the frozen plot composition per lease ID.
	PlotSummaries map[string][]entity.PlotSummaryEntry
}

// Load resolves everything a calculation run needs for the given settlement.
func (l *Loader) Load(ctx context.Context, s *entity.LeaseRevenueSettlement) (*LoadedData, error) {
	park, err := l.parks.GetByID(ctx, s.ParkID)
	if err != nil {
		return nil, fmt.Errorf("load park: %w", err)
	}
	if park == nil {
		return nil, fmt.Errorf("park %s: %w", s.ParkID, domain.ErrNotFound)
	}
	if park.CommissioningDate == nil {
		return nil, fmt.Errorf("park %s has no commissioning date: %w", park.ID, domain.ErrMissingConfiguration)
	}
	if park.MinimumRentPerTurbine == nil {
		return nil, fmt.Errorf("park %s has no minimum rent per turbine: %w", park.ID, domain.ErrMissingConfiguration)
	}
	if park.WEASharePercentage == nil {
		return nil, fmt.Errorf("park %s has no WEA site share percentage: %w", park.ID, domain.ErrMissingConfiguration)
	}
	if park.PoolSharePercentage == nil {
		return nil, fmt.Errorf("park %s has no pool area share percentage: %w", park.ID, domain.ErrMissingConfiguration)
	}

	turbines, err := l.parks.ListActiveTurbines(ctx, park.ID)
	if err != nil {
		return nil, fmt.Errorf("load turbines: %w", err)
	}

	data := &LoadedData{
		Park:             park,
		YearsInOperation: calc.YearsInOperation(park.CommissioningDate.Year(), s.Year),
		DisplayMode:      entity.DisplayModeYearly,
		PlotSummaries:    make(map[string][]entity.PlotSummaryEntry),
	}
	data.Input = calc.Input{
		MinimumRentPerTurbine: *park.MinimumRentPerTurbine,
		TotalWEACount:         len(turbines),
		WEASharePercentage:    *park.WEASharePercentage,
		PoolSharePercentage:   *park.PoolSharePercentage,
		SealedAreaRate:        park.SealedAreaRate,
		CableRate:             park.CableRate,
	}

	// Revenue phase and revenue are only consulted for final settlements;
	// advances run off the minimum guarantee alone.
	if s.PeriodType == entity.PeriodTypeFinal {
		if err := l.loadRevenue(ctx, s, park, data); err != nil {
			return nil, err
		}
	}

	if err := l.loadLeaseAggregates(ctx, park, data); err != nil {
		return nil, err
	}
	return data, nil
}

// loadRevenue resolves the revenue phase and the aggregated operator revenue.
// Priority: manual override on the settlement, then the linked energy
// settlement, then aggregation over all countable rows of the year.
func (l *Loader) loadRevenue(ctx context.Context, s *entity.LeaseRevenueSettlement, park *entity.Park, data *LoadedData) error {
	phases, err := l.parks.ListRevenuePhases(ctx, park.ID)
	if err != nil {
		return fmt.Errorf("load revenue phases: %w", err)
	}
	phase := calc.ActiveRevenuePhase(phases, park.CommissioningDate.Year(), s.Year)
	if phase == nil {
		return fmt.Errorf("no revenue phase configured for year %d (operating year %d): %w",
			s.Year, data.YearsInOperation, domain.ErrMissingConfiguration)
	}
	data.Input.RevenueSharePercent = phase.RevenueSharePercentage

	switch {
	case s.ManualRevenue != nil:
		data.Input.TotalRevenue = *s.ManualRevenue
		data.RevenueSources = []entity.RevenueSource{{
			Label:      "Manuelle Eingabe",
			Year:       s.Year,
			RevenueEur: *s.ManualRevenue,
		}}

	case s.LinkedEnergySettlementID != nil:
		es, err := l.energy.GetByID(ctx, *s.LinkedEnergySettlementID)
		if err != nil {
			return fmt.Errorf("load linked energy settlement: %w", err)
		}
		if es == nil {
			return fmt.Errorf("linked energy settlement %s: %w", *s.LinkedEnergySettlementID, domain.ErrNotFound)
		}
		data.Input.TotalRevenue = es.NetOperatorRevenue
		data.RevenueSources = []entity.RevenueSource{revenueSource(es)}
		if es.Month != nil {
			data.DisplayMode = entity.DisplayModeMonthly
		}

	default:
		rows, err := l.energy.ListForRevenue(ctx, park.ID, s.Year)
		if err != nil {
			return fmt.Errorf("aggregate energy revenue: %w", err)
		}
		total := decimal.Zero
		monthly := false
		for i := range rows {
			total = total.Add(rows[i].NetOperatorRevenue)
			data.RevenueSources = append(data.RevenueSources, revenueSource(&rows[i]))
			if rows[i].Month != nil {
				monthly = true
			}
		}
		data.Input.TotalRevenue = total
		if monthly {
			data.DisplayMode = entity.DisplayModeMonthly
		}
	}
	return nil
}

// loadLeaseAggregates folds the plot graph into per-lease calculator inputs
// and the frozen plot snapshots.
func (l *Loader) loadLeaseAggregates(ctx context.Context, park *entity.Park, data *LoadedData) error {
	leases, err := l.leases.ListActiveByPark(ctx, park.ID)
	if err != nil {
		return fmt.Errorf("load leases: %w", err)
	}
	plots, err := l.plots.ListActiveByPark(ctx, park.ID)
	if err != nil {
		return fmt.Errorf("load plots: %w", err)
	}

	byLease := make(map[string]*calc.LeaseInput, len(leases))
	order := make([]string, 0, len(leases))
	for _, lease := range leases {
		byLease[lease.ID] = &calc.LeaseInput{LeaseID: lease.ID, LessorID: lease.LessorID, LessorName: lease.LessorName}
		order = append(order, lease.ID)
	}

	totalPool := decimal.Zero
	for _, plot := range plots {
		for _, leaseID := range plot.LeaseIDs {
			agg, ok := byLease[leaseID]
			if !ok {
				continue // lease not active, plot stays out of the run
			}

			summary := entity.PlotSummaryEntry{
				PlotID:            plot.ID,
				PlotNumber:        plot.PlotNumber,
				CadastralDistrict: plot.CadastralDistrict,
				FieldNumber:       plot.FieldNumber,
			}
			for _, area := range plot.Areas {
				sa := entity.PlotSummaryArea{AreaType: area.AreaType, AreaSqm: area.AreaSqm}
				if !area.LengthM.IsZero() {
					length := area.LengthM
					sa.LengthM = &length
				}
				summary.Areas = append(summary.Areas, sa)
				summary.AreaSqm = summary.AreaSqm.Add(area.AreaSqm)

				switch area.AreaType {
				case entity.PlotAreaPool, entity.PlotAreaAusgleich:
					// AUSGLEICH counts toward the pool total on purpose.
					agg.PoolAreaSqm = agg.PoolAreaSqm.Add(area.AreaSqm)
					totalPool = totalPool.Add(area.AreaSqm)
				case entity.PlotAreaWEAStandort:
					agg.TurbineCount++
					summary.TurbineCount++
					// The turbine hardstand is the sealed area of the plot.
					agg.SealedAreaSqm = agg.SealedAreaSqm.Add(area.AreaSqm)
				case entity.PlotAreaWeg:
					agg.RoadUsageFee = agg.RoadUsageFee.Add(area.AreaSqm.Mul(park.RoadUsageRate))
				case entity.PlotAreaKabel:
					length := area.LengthM
					if length.IsZero() {
						length = area.AreaSqm // legacy rows store the length in the sqm column
					}
					agg.CableLengthM = agg.CableLengthM.Add(length)
				}
			}
			data.PlotSummaries[leaseID] = append(data.PlotSummaries[leaseID], summary)
		}
	}

	data.Input.TotalPoolAreaSqm = totalPool
	for _, id := range order {
		data.Input.Leases = append(data.Input.Leases, *byLease[id])
	}
	return nil
}

func revenueSource(es *entity.EnergySettlement) entity.RevenueSource {
	label := fmt.Sprintf("Energieabrechnung %d", es.Year)
	if es.Month != nil {
		label = fmt.Sprintf("Energieabrechnung %02d/%d", *es.Month, es.Year)
	}
	return entity.RevenueSource{
		Label:      label,
		Year:       es.Year,
		Month:      es.Month,
		RevenueEur: es.NetOperatorRevenue,
	}
}
