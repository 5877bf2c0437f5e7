package settlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/windassist/windpark-api/internal/domain"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/pkg/logger"
)

func calculateFixture(s *entity.LeaseRevenueSettlement) (*fakeSettlementRepo, *CalculateUseCase) {
	parks, plots, leases, energy := parkFixture()
	settlements := &fakeSettlementRepo{settlement: s}
	runner := &fakeTxRunner{repos: TxRepos{
		Settlements: settlements,
		Parks:       parks,
		Plots:       plots,
		Leases:      leases,
		Energy:      energy,
	}}
	return settlements, NewCalculateUseCase(runner, logger.NewNop())
}

func TestCalculate_FinalSettlement(t *testing.T) {
	settlements, uc := calculateFixture(&entity.LeaseRevenueSettlement{
		ID: "s1", TenantID: "t1", ParkID: "p1", Year: 2024,
		PeriodType: entity.PeriodTypeFinal,
		Status:     entity.SettlementStatusOpen,
	})
	settlements.advances = map[string]entity.AdvanceComponents{
		"l1": {Subtotal: dec("3000")},
	}

	header, err := uc.Calculate(context.Background(), "s1")
	require.NoError(t, err)

	// 4% of 280,000 beats the 3 x 2,000 minimum.
	assert.True(t, dec("11200").Equal(header.CalculatedFee), "calculated %s", header.CalculatedFee)
	assert.True(t, dec("6000").Equal(header.MinimumGuarantee))
	assert.True(t, dec("11200").Equal(header.ActualFee))
	assert.False(t, header.UsedMinimum)
	assert.True(t, dec("7840").Equal(header.WEAStandortTotal))
	assert.True(t, dec("3360").Equal(header.PoolAreaTotal))
	assert.Equal(t, entity.SettlementStatusCalculated, header.Status)

	require.NotNil(t, header.CalculationDetails)
	assert.True(t, dec("280000").Equal(header.CalculationDetails.Inputs.TotalRevenue))
	assert.Equal(t, 10, header.CalculationDetails.Inputs.YearsInOperation)
	assert.Equal(t, entity.DisplayModeMonthly, header.CalculationDetails.DisplayMode)
	assert.Len(t, header.CalculationDetails.RevenueSources, 2)

	require.Len(t, settlements.items, 2)
	it1 := settlements.itemByLease("l1")
	require.NotNil(t, it1)
	assert.True(t, dec("60").Equal(it1.PoolAreaSharePercent))
	assert.True(t, dec("2016").Equal(it1.PoolFee), "pool fee %s", it1.PoolFee)
	assert.True(t, dec("2613.33").Equal(it1.StandortFee), "standort fee %s", it1.StandortFee)
	assert.True(t, dec("125").Equal(it1.SealedAreaFee))
	assert.True(t, dec("4754.33").Equal(it1.Subtotal), "subtotal %s", it1.Subtotal)
	assert.True(t, dec("3000").Equal(it1.AdvancePaid))
	assert.True(t, dec("1754.33").Equal(it1.Remainder))
	assert.NotEmpty(t, it1.PlotSummary)

	it2 := settlements.itemByLease("l2")
	require.NotNil(t, it2)
	assert.True(t, dec("1344").Equal(it2.PoolFee))
	assert.True(t, dec("5226.67").Equal(it2.StandortFee))
	assert.True(t, dec("250").Equal(it2.SealedAreaFee))
	assert.True(t, dec("100").Equal(it2.RoadUsageFee))
	assert.True(t, dec("300").Equal(it2.CableFee))
	assert.True(t, it2.AdvancePaid.IsZero())
	assert.True(t, it2.Subtotal.Equal(it2.Remainder))
}

func TestCalculate_QuarterlyAdvance(t *testing.T) {
	settlements, uc := calculateFixture(&entity.LeaseRevenueSettlement{
		ID: "s2", TenantID: "t1", ParkID: "p1", Year: 2024,
		PeriodType:      entity.PeriodTypeAdvance,
		AdvanceInterval: entity.AdvanceIntervalQuarterly,
		Quarter:         intPtr(1),
		Status:          entity.SettlementStatusOpen,
	})

	header, err := uc.Calculate(context.Background(), "s2")
	require.NoError(t, err)

	// Quarter of the 6,000 yearly minimum; revenue is never consulted.
	assert.True(t, header.CalculatedFee.IsZero())
	assert.True(t, dec("1500").Equal(header.MinimumGuarantee))
	assert.True(t, dec("1500").Equal(header.ActualFee))
	assert.True(t, header.UsedMinimum)
	assert.True(t, header.CalculationDetails.Inputs.TotalRevenue.IsZero())

	// Advance items carry no advance offset of their own.
	require.Len(t, settlements.items, 2)
	for _, item := range settlements.items {
		assert.True(t, item.AdvancePaid.IsZero())
		assert.True(t, item.Remainder.IsZero())
	}
}

func TestCalculate_RecalculationReplacesItems(t *testing.T) {
	settlements, uc := calculateFixture(&entity.LeaseRevenueSettlement{
		ID: "s1", TenantID: "t1", ParkID: "p1", Year: 2024,
		PeriodType: entity.PeriodTypeFinal,
		Status:     entity.SettlementStatusOpen,
	})

	_, err := uc.Calculate(context.Background(), "s1")
	require.NoError(t, err)
	_, err = uc.Calculate(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 2, settlements.deletes)
	assert.Len(t, settlements.items, 2)
}

func TestCalculate_RejectsLockedStatuses(t *testing.T) {
	for _, status := range []string{
		entity.SettlementStatusAdvanceCreated,
		entity.SettlementStatusSettled,
		entity.SettlementStatusPendingReview,
		entity.SettlementStatusApproved,
		entity.SettlementStatusClosed,
	} {
		_, uc := calculateFixture(&entity.LeaseRevenueSettlement{
			ID: "s1", ParkID: "p1", Year: 2024,
			PeriodType: entity.PeriodTypeFinal,
			Status:     status,
		})
		_, err := uc.Calculate(context.Background(), "s1")
		assert.ErrorIs(t, err, domain.ErrConflict, "status %s", status)
	}
}

func TestCalculate_InvalidAdvanceInterval(t *testing.T) {
	_, uc := calculateFixture(&entity.LeaseRevenueSettlement{
		ID: "s1", ParkID: "p1", Year: 2024,
		PeriodType:      entity.PeriodTypeAdvance,
		AdvanceInterval: "WEEKLY",
		Status:          entity.SettlementStatusOpen,
	})

	_, err := uc.Calculate(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculate_NotFound(t *testing.T) {
	_, uc := calculateFixture(&entity.LeaseRevenueSettlement{ID: "other"})

	_, err := uc.Calculate(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
