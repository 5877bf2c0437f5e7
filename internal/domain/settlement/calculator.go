package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Input is the fully resolved input of a settlement calculation. The loader
// assembles it; the calculator itself never touches the database.
type Input struct {
	TotalRevenue          decimal.Decimal
	RevenueSharePercent   decimal.Decimal
	MinimumRentPerTurbine decimal.Decimal
	TotalWEACount         int
	TotalPoolAreaSqm      decimal.Decimal
	WEASharePercentage    decimal.Decimal
	PoolSharePercentage   decimal.Decimal
	SealedAreaRate        decimal.Decimal
	CableRate             decimal.Decimal
	Leases                []LeaseInput
}

// LeaseInput is the per-lease aggregate folded from the plot graph.
type LeaseInput struct {
	LeaseID       string
	LessorID      string
	LessorName    string
	PoolAreaSqm   decimal.Decimal // POOL + AUSGLEICH areas
	TurbineCount  int             // WEA_STANDORT areas
	SealedAreaSqm decimal.Decimal
	RoadUsageFee  decimal.Decimal // precomputed: WEG sqm x road rate
	CableLengthM  decimal.Decimal
}

// LeaseFees is the computed breakdown for one lease.
type LeaseFees struct {
	LeaseID              string
	LessorID             string
	LessorName           string
	PoolAreaSqm          decimal.Decimal
	PoolAreaSharePercent decimal.Decimal
	TurbineCount         int
	PoolFee              decimal.Decimal
	StandortFee          decimal.Decimal
	SealedAreaFee        decimal.Decimal
	RoadUsageFee         decimal.Decimal
	CableFee             decimal.Decimal
	Subtotal             decimal.Decimal
	TaxableAmount        decimal.Decimal
	ExemptAmount         decimal.Decimal
}

// Result is the complete output of a calculation run.
type Result struct {
	CalculatedFee    decimal.Decimal
	MinimumGuarantee decimal.Decimal
	ActualFee        decimal.Decimal
	UsedMinimum      bool
	WEAStandortTotal decimal.Decimal
	PoolAreaTotal    decimal.Decimal
	Leases           []LeaseFees
}

// CalculateFees computes the final (year-end) settlement. Per-lease amounts
// are rounded to cents individually; no cross-lease reconciliation happens
// here. The invoice generators reconcile against these already-rounded totals
// later, and that two-stage rounding order must not change or historical
// amounts stop matching.
func CalculateFees(in Input) Result {
	calculatedFee := Round2(in.TotalRevenue.Mul(in.RevenueSharePercent).Div(hundred))
	minimumGuarantee := Round2(in.MinimumRentPerTurbine.Mul(decimal.NewFromInt(int64(in.TotalWEACount))))

	actualFee := calculatedFee
	usedMinimum := minimumGuarantee.GreaterThanOrEqual(calculatedFee)
	if usedMinimum {
		actualFee = minimumGuarantee
	}

	res := Result{
		CalculatedFee:    calculatedFee,
		MinimumGuarantee: minimumGuarantee,
		ActualFee:        actualFee,
		UsedMinimum:      usedMinimum,
		WEAStandortTotal: Round2(actualFee.Mul(in.WEASharePercentage).Div(hundred)),
		PoolAreaTotal:    Round2(actualFee.Mul(in.PoolSharePercentage).Div(hundred)),
	}
	res.Leases = calculateLeaseFees(in, res.WEAStandortTotal, res.PoolAreaTotal, decimal.NewFromInt(1))
	return res
}

// CalculateAdvanceFees computes an interim settlement. The base amount is the
// yearly minimum guarantee divided by the interval divisor (1, 4 or 12);
// revenue is not consulted and the minimum always applies. Surcharges are
// divided by the same divisor.
func CalculateAdvanceFees(in Input, advanceInterval string) (Result, error) {
	divisor, err := AdvanceDivisor(advanceInterval)
	if err != nil {
		return Result{}, err
	}

	yearlyMinimum := in.MinimumRentPerTurbine.Mul(decimal.NewFromInt(int64(in.TotalWEACount)))
	periodMinimum := Round2(yearlyMinimum.Div(divisor))

	res := Result{
		CalculatedFee:    decimal.Zero,
		MinimumGuarantee: periodMinimum,
		ActualFee:        periodMinimum,
		UsedMinimum:      true,
		WEAStandortTotal: Round2(periodMinimum.Mul(in.WEASharePercentage).Div(hundred)),
		PoolAreaTotal:    Round2(periodMinimum.Mul(in.PoolSharePercentage).Div(hundred)),
	}
	res.Leases = calculateLeaseFees(in, res.WEAStandortTotal, res.PoolAreaTotal, divisor)
	return res, nil
}

// AdvanceDivisor maps an advance interval onto the yearly divisor.
func AdvanceDivisor(interval string) (decimal.Decimal, error) {
	switch interval {
	case entity.AdvanceIntervalYearly, "":
		return decimal.NewFromInt(1), nil
	case entity.AdvanceIntervalQuarterly:
		return decimal.NewFromInt(4), nil
	case entity.AdvanceIntervalMonthly:
		return decimal.NewFromInt(12), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown advance interval %q", interval)
	}
}

// calculateLeaseFees distributes the standort and pool totals over the leases
// and prices the per-lease surcharges. surchargeDivisor is 1 for final
// settlements and the interval divisor for advances.
func calculateLeaseFees(in Input, weaStandortTotal, poolAreaTotal, surchargeDivisor decimal.Decimal) []LeaseFees {
	fees := make([]LeaseFees, 0, len(in.Leases))
	totalWEA := decimal.NewFromInt(int64(in.TotalWEACount))

	for _, lease := range in.Leases {
		f := LeaseFees{
			LeaseID:      lease.LeaseID,
			LessorID:     lease.LessorID,
			LessorName:   lease.LessorName,
			PoolAreaSqm:  lease.PoolAreaSqm,
			TurbineCount: lease.TurbineCount,
			RoadUsageFee: Round2(lease.RoadUsageFee.Div(surchargeDivisor)),
		}

		if in.TotalPoolAreaSqm.IsPositive() {
			f.PoolAreaSharePercent = Round4(lease.PoolAreaSqm.Div(in.TotalPoolAreaSqm).Mul(hundred))
			f.PoolFee = Round2(poolAreaTotal.Mul(f.PoolAreaSharePercent).Div(hundred))
		}
		if in.TotalWEACount > 0 {
			f.StandortFee = Round2(weaStandortTotal.Mul(decimal.NewFromInt(int64(lease.TurbineCount))).Div(totalWEA))
		}
		f.SealedAreaFee = Round2(lease.SealedAreaSqm.Mul(in.SealedAreaRate).Div(surchargeDivisor))
		f.CableFee = Round2(lease.CableLengthM.Mul(in.CableRate).Div(surchargeDivisor))

		f.Subtotal = f.PoolFee.Add(f.StandortFee).Add(f.SealedAreaFee).Add(f.RoadUsageFee).Add(f.CableFee)
		f.TaxableAmount = f.PoolFee
		f.ExemptAmount = f.Subtotal.Sub(f.PoolFee)

		fees = append(fees, f)
	}
	return fees
}
