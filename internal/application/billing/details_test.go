package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

func TestRevenueTable_MonthlyKeepsRows(t *testing.T) {
	rows := []entity.EnergySettlement{
		{Year: 2024, Month: intPtr(1), EEGRevenue: dec("10000"), DirectMarketingRevenue: dec("5000"), NetOperatorRevenue: dec("15000")},
		{Year: 2024, Month: intPtr(2), EEGRevenue: dec("12000"), DirectMarketingRevenue: dec("6000"), NetOperatorRevenue: dec("18000")},
	}

	table, total := revenueTable(rows, entity.DisplayModeMonthly)
	require.Len(t, table, 2)
	assert.Equal(t, "2024-01", table[0].Period)
	assert.Equal(t, "2024-02", table[1].Period)
	assert.True(t, dec("33000").Equal(total))
}

func TestRevenueTable_YearlyCollapses(t *testing.T) {
	rows := []entity.EnergySettlement{
		{Year: 2024, Month: intPtr(1), EEGRevenue: dec("10000"), NetOperatorRevenue: dec("15000")},
		{Year: 2024, Month: intPtr(2), EEGRevenue: dec("12000"), NetOperatorRevenue: dec("18000")},
	}

	table, total := revenueTable(rows, entity.DisplayModeYearly)
	require.Len(t, table, 1)
	assert.Equal(t, "2024", table[0].Period)
	assert.True(t, dec("22000").Equal(table[0].EEGRevenue))
	assert.True(t, dec("33000").Equal(table[0].TotalRevenue))
	assert.True(t, dec("33000").Equal(total))
}

func TestPeriodLabel(t *testing.T) {
	q := 3
	m := 7
	assert.Equal(t, "Q3/2024", periodLabel(&entity.LeaseRevenueSettlement{Year: 2024, Quarter: &q}))
	assert.Equal(t, "07/2024", periodLabel(&entity.LeaseRevenueSettlement{Year: 2024, Month: &m}))
	assert.Equal(t, "2024", periodLabel(&entity.LeaseRevenueSettlement{Year: 2024}))
}

func TestPositionTaxMap_SettingsOverrideDefaults(t *testing.T) {
	m := positionTaxMap(nil)
	assert.Equal(t, entity.TaxTypeStandard, m[entity.PositionPoolArea])
	assert.Equal(t, entity.TaxTypeExempt, m[entity.PositionCableRoute])

	m = positionTaxMap(&entity.TenantSettings{
		PositionTaxTypes: map[string]string{entity.PositionCableRoute: entity.TaxTypeStandard},
	})
	assert.Equal(t, entity.TaxTypeStandard, m[entity.PositionCableRoute])
	assert.Equal(t, entity.TaxTypeExempt, m[entity.PositionRoadUsage])
}
