package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/settlement"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func intPtr(v int) *int { return &v }

func TestActiveRevenuePhase(t *testing.T) {
	phases := []entity.RevenuePhase{
		{StartYear: 1, EndYear: intPtr(5), RevenueSharePercentage: dec("4")},
		{StartYear: 6, EndYear: nil, RevenueSharePercentage: dec("6.5")},
	}

	t.Run("year inside first phase", func(t *testing.T) {
		// commissioned 2020, settling 2023 -> 4th year of operation
		p := settlement.ActiveRevenuePhase(phases, 2020, 2023)
		require.NotNil(t, p)
		assert.True(t, dec("4").Equal(p.RevenueSharePercentage))
	})

	t.Run("open-ended phase", func(t *testing.T) {
		p := settlement.ActiveRevenuePhase(phases, 2020, 2040)
		require.NotNil(t, p)
		assert.True(t, dec("6.5").Equal(p.RevenueSharePercentage))
	})

	t.Run("no phase configured", func(t *testing.T) {
		gap := []entity.RevenuePhase{{StartYear: 3, EndYear: intPtr(5), RevenueSharePercentage: dec("4")}}
		assert.Nil(t, settlement.ActiveRevenuePhase(gap, 2020, 2020))
	})
}

func TestCalculateFees_MinimumGuaranteeWins(t *testing.T) {
	// €100,000 revenue at 4% = €4,000 calculated fee; 3 turbines at €2,000
	// minimum rent = €6,000 guarantee -> the minimum applies.
	in := settlement.Input{
		TotalRevenue:          dec("100000"),
		RevenueSharePercent:   dec("4"),
		MinimumRentPerTurbine: dec("2000"),
		TotalWEACount:         3,
		TotalPoolAreaSqm:      dec("10000"),
		WEASharePercentage:    dec("30"),
		PoolSharePercentage:   dec("70"),
	}
	res := settlement.CalculateFees(in)

	assert.True(t, dec("4000").Equal(res.CalculatedFee), "calculatedFee = %s", res.CalculatedFee)
	assert.True(t, dec("6000").Equal(res.MinimumGuarantee))
	assert.True(t, dec("6000").Equal(res.ActualFee))
	assert.True(t, res.UsedMinimum)
	assert.True(t, dec("1800").Equal(res.WEAStandortTotal))
	assert.True(t, dec("4200").Equal(res.PoolAreaTotal))
}

func TestCalculateFees_RevenueWins(t *testing.T) {
	in := settlement.Input{
		TotalRevenue:          dec("500000"),
		RevenueSharePercent:   dec("4"),
		MinimumRentPerTurbine: dec("2000"),
		TotalWEACount:         3,
		WEASharePercentage:    dec("30"),
		PoolSharePercentage:   dec("70"),
	}
	res := settlement.CalculateFees(in)

	assert.True(t, dec("20000").Equal(res.CalculatedFee))
	assert.True(t, dec("20000").Equal(res.ActualFee))
	assert.False(t, res.UsedMinimum)
}

func TestCalculateFees_PerLeaseBreakdown(t *testing.T) {
	// Lease A holds 6,000 of 10,000 sqm pool area -> 60.0000% -> €600 of a
	// €1,000 pool total.
	in := settlement.Input{
		TotalRevenue:          dec("25000"),
		RevenueSharePercent:   dec("8"),
		MinimumRentPerTurbine: dec("500"),
		TotalWEACount:         2,
		TotalPoolAreaSqm:      dec("10000"),
		WEASharePercentage:    dec("50"),
		PoolSharePercentage:   dec("50"),
		SealedAreaRate:        dec("0.50"),
		CableRate:             dec("2"),
		Leases: []settlement.LeaseInput{
			{LeaseID: "a", PoolAreaSqm: dec("6000"), TurbineCount: 1, SealedAreaSqm: dec("100"), RoadUsageFee: dec("75"), CableLengthM: dec("250")},
			{LeaseID: "b", PoolAreaSqm: dec("4000"), TurbineCount: 1},
		},
	}
	res := settlement.CalculateFees(in)
	require.Len(t, res.Leases, 2)

	// actualFee = 2000 (calculated), pool total = 1000, standort total = 1000
	a := res.Leases[0]
	assert.True(t, dec("60").Equal(a.PoolAreaSharePercent), "share = %s", a.PoolAreaSharePercent)
	assert.True(t, dec("600").Equal(a.PoolFee), "poolFee = %s", a.PoolFee)
	assert.True(t, dec("500").Equal(a.StandortFee))
	assert.True(t, dec("50").Equal(a.SealedAreaFee))
	assert.True(t, dec("75").Equal(a.RoadUsageFee))
	assert.True(t, dec("500").Equal(a.CableFee))
	assert.True(t, dec("1725").Equal(a.Subtotal))

	// taxable/exempt must partition the subtotal exactly for every lease
	for _, f := range res.Leases {
		assert.True(t, f.TaxableAmount.Add(f.ExemptAmount).Equal(f.Subtotal),
			"lease %s: taxable %s + exempt %s != subtotal %s", f.LeaseID, f.TaxableAmount, f.ExemptAmount, f.Subtotal)
		assert.True(t, f.TaxableAmount.Equal(f.PoolFee))
	}
}

func TestCalculateFees_ZeroDenominators(t *testing.T) {
	in := settlement.Input{
		TotalRevenue:        dec("10000"),
		RevenueSharePercent: dec("4"),
		TotalWEACount:       0,
		TotalPoolAreaSqm:    decimal.Zero,
		WEASharePercentage:  dec("30"),
		PoolSharePercentage: dec("70"),
		Leases:              []settlement.LeaseInput{{LeaseID: "a", PoolAreaSqm: dec("100")}},
	}
	res := settlement.CalculateFees(in)
	require.Len(t, res.Leases, 1)
	assert.True(t, res.Leases[0].PoolAreaSharePercent.IsZero())
	assert.True(t, res.Leases[0].PoolFee.IsZero())
	assert.True(t, res.Leases[0].StandortFee.IsZero())
}

func TestCalculateAdvanceFees_QuarterlyDivisor(t *testing.T) {
	// 2 turbines at €4,000 -> €8,000 yearly minimum -> €2,000 per quarter.
	in := settlement.Input{
		MinimumRentPerTurbine: dec("4000"),
		TotalWEACount:         2,
		WEASharePercentage:    dec("40"),
		PoolSharePercentage:   dec("60"),
		TotalPoolAreaSqm:      dec("5000"),
		Leases: []settlement.LeaseInput{
			{LeaseID: "a", PoolAreaSqm: dec("5000"), TurbineCount: 2, RoadUsageFee: dec("400")},
		},
	}
	res, err := settlement.CalculateAdvanceFees(in, entity.AdvanceIntervalQuarterly)
	require.NoError(t, err)

	assert.True(t, res.CalculatedFee.IsZero())
	assert.True(t, dec("2000").Equal(res.MinimumGuarantee), "period minimum = %s", res.MinimumGuarantee)
	assert.True(t, dec("2000").Equal(res.ActualFee))
	assert.True(t, res.UsedMinimum)

	// surcharges share the divisor: €400 yearly road fee -> €100 per quarter
	require.Len(t, res.Leases, 1)
	assert.True(t, dec("100").Equal(res.Leases[0].RoadUsageFee))
}

func TestCalculateAdvanceFees_Divisors(t *testing.T) {
	cases := []struct {
		interval string
		want     string
	}{
		{entity.AdvanceIntervalYearly, "8000"},
		{entity.AdvanceIntervalQuarterly, "2000"},
		{entity.AdvanceIntervalMonthly, "666.67"},
	}
	in := settlement.Input{
		MinimumRentPerTurbine: dec("4000"),
		TotalWEACount:         2,
		WEASharePercentage:    dec("50"),
		PoolSharePercentage:   dec("50"),
	}
	for _, tc := range cases {
		res, err := settlement.CalculateAdvanceFees(in, tc.interval)
		require.NoError(t, err, tc.interval)
		assert.True(t, dec(tc.want).Equal(res.ActualFee), "%s: got %s", tc.interval, res.ActualFee)
	}

	_, err := settlement.CalculateAdvanceFees(in, "WEEKLY")
	assert.Error(t, err)
}
