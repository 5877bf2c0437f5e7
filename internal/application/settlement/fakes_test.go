package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func intPtr(v int) *int                          { return &v }
func decPtr(s string) *decimal.Decimal           { d := dec(s); return &d }
func timePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

type fakeTxRunner struct {
	repos TxRepos
}

func (f *fakeTxRunner) RunSettlement(ctx context.Context, lockKey string, fn func(r TxRepos) error) error {
	return fn(f.repos)
}

type fakeParkRepo struct {
	park     *entity.Park
	phases   []entity.RevenuePhase
	turbines []entity.Turbine
}

func (f *fakeParkRepo) GetByID(ctx context.Context, id string) (*entity.Park, error) {
	if f.park != nil && f.park.ID == id {
		return f.park, nil
	}
	return nil, nil
}

func (f *fakeParkRepo) ListRevenuePhases(ctx context.Context, parkID string) ([]entity.RevenuePhase, error) {
	return f.phases, nil
}

func (f *fakeParkRepo) ListActiveTurbines(ctx context.Context, parkID string) ([]entity.Turbine, error) {
	return f.turbines, nil
}

type fakePlotRepo struct {
	plots []entity.Plot
}

func (f *fakePlotRepo) ListActiveByPark(ctx context.Context, parkID string) ([]entity.Plot, error) {
	return f.plots, nil
}

type fakeLeaseRepo struct {
	leases []entity.Lease
}

func (f *fakeLeaseRepo) ListActiveByPark(ctx context.Context, parkID string) ([]entity.Lease, error) {
	return f.leases, nil
}

type fakeEnergyRepo struct {
	rows        []entity.EnergySettlement
	productions []entity.TurbineProduction
}

func (f *fakeEnergyRepo) GetByID(ctx context.Context, id string) (*entity.EnergySettlement, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, nil
}

func (f *fakeEnergyRepo) ListForRevenue(ctx context.Context, parkID string, year int) ([]entity.EnergySettlement, error) {
	return f.rows, nil
}

func (f *fakeEnergyRepo) ListTurbineProductions(ctx context.Context, parkID string, year int) ([]entity.TurbineProduction, error) {
	return f.productions, nil
}

type fakeSettlementRepo struct {
	settlement *entity.LeaseRevenueSettlement
	items      []entity.LeaseRevenueSettlementItem
	advances   map[string]entity.AdvanceComponents
	deletes    int
}

func (f *fakeSettlementRepo) GetByID(ctx context.Context, id string) (*entity.LeaseRevenueSettlement, error) {
	if f.settlement != nil && f.settlement.ID == id {
		return f.settlement, nil
	}
	return nil, nil
}

func (f *fakeSettlementRepo) UpdateHeader(ctx context.Context, s *entity.LeaseRevenueSettlement) error {
	f.settlement = s
	return nil
}

func (f *fakeSettlementRepo) UpdateStatus(ctx context.Context, id, status string) error {
	f.settlement.Status = status
	return nil
}

func (f *fakeSettlementRepo) DeleteItems(ctx context.Context, settlementID string) error {
	f.deletes++
	f.items = nil
	return nil
}

func (f *fakeSettlementRepo) InsertItem(ctx context.Context, item *entity.LeaseRevenueSettlementItem) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeSettlementRepo) ListItems(ctx context.Context, settlementID string) ([]entity.LeaseRevenueSettlementItem, error) {
	out := make([]entity.LeaseRevenueSettlementItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeSettlementRepo) SetItemAdvanceInvoice(ctx context.Context, itemID, invoiceID string) error {
	return fmt.Errorf("not used")
}

func (f *fakeSettlementRepo) SetItemSettlementInvoice(ctx context.Context, itemID, invoiceID string) error {
	return fmt.Errorf("not used")
}

func (f *fakeSettlementRepo) UpdateItemRemainder(ctx context.Context, itemID string, remainder decimal.Decimal) error {
	return fmt.Errorf("not used")
}

func (f *fakeSettlementRepo) AdvanceComponentsByLease(ctx context.Context, parkID string, year int) (map[string]entity.AdvanceComponents, error) {
	return f.advances, nil
}

func (f *fakeSettlementRepo) itemByLease(leaseID string) *entity.LeaseRevenueSettlementItem {
	for i := range f.items {
		if f.items[i].LeaseID == leaseID {
			return &f.items[i]
		}
	}
	return nil
}

// parkFixture is a three-turbine park with two leases: lease l1 holds 60% of
// the pool area and one turbine site, lease l2 the remaining 40%, two turbine
// sites, a road plot and a cable route.
func parkFixture() (*fakeParkRepo, *fakePlotRepo, *fakeLeaseRepo, *fakeEnergyRepo) {
	parks := &fakeParkRepo{
		park: &entity.Park{
			ID:                    "p1",
			TenantID:              "t1",
			Name:                  "Windpark Norderwisch",
			CommissioningDate:     timePtr(2015, time.June, 1),
			MinimumRentPerTurbine: decPtr("2000"),
			WEASharePercentage:    decPtr("70"),
			PoolSharePercentage:   decPtr("30"),
			SealedAreaRate:        dec("0.05"),
			RoadUsageRate:         dec("0.10"),
			CableRate:             dec("1.50"),
		},
		phases: []entity.RevenuePhase{
			{ID: "ph1", ParkID: "p1", StartYear: 1, EndYear: intPtr(5), RevenueSharePercentage: dec("3")},
			{ID: "ph2", ParkID: "p1", StartYear: 6, RevenueSharePercentage: dec("4")},
		},
		turbines: []entity.Turbine{
			{ID: "wea1", ParkID: "p1", Designation: "WEA 01", IsActive: true},
			{ID: "wea2", ParkID: "p1", Designation: "WEA 02", IsActive: true},
			{ID: "wea3", ParkID: "p1", Designation: "WEA 03", IsActive: true},
		},
	}
	plots := &fakePlotRepo{
		plots: []entity.Plot{
			{
				ID: "plotA", ParkID: "p1", PlotNumber: "12/3", CadastralDistrict: "Norderwisch", FieldNumber: "4",
				LeaseIDs: []string{"l1"},
				Areas: []entity.PlotArea{
					{AreaType: entity.PlotAreaPool, AreaSqm: dec("60000")},
					{AreaType: entity.PlotAreaWEAStandort, AreaSqm: dec("2500")},
				},
			},
			{
				ID: "plotB", ParkID: "p1", PlotNumber: "15/1", CadastralDistrict: "Norderwisch", FieldNumber: "4",
				LeaseIDs: []string{"l2"},
				Areas: []entity.PlotArea{
					{AreaType: entity.PlotAreaPool, AreaSqm: dec("30000")},
					{AreaType: entity.PlotAreaAusgleich, AreaSqm: dec("10000")},
					{AreaType: entity.PlotAreaWeg, AreaSqm: dec("1000")},
					{AreaType: entity.PlotAreaKabel, AreaSqm: dec("150"), LengthM: dec("200")},
				},
			},
			{
				ID: "plotC", ParkID: "p1", PlotNumber: "15/2", CadastralDistrict: "Norderwisch", FieldNumber: "4",
				LeaseIDs: []string{"l2"},
				Areas: []entity.PlotArea{
					{AreaType: entity.PlotAreaWEAStandort, AreaSqm: dec("2500")},
					{AreaType: entity.PlotAreaWEAStandort, AreaSqm: dec("2500")},
				},
			},
		},
	}
	leases := &fakeLeaseRepo{
		leases: []entity.Lease{
			{ID: "l1", ParkID: "p1", LessorID: "lessor1", LessorName: "Bauer Petersen", Status: entity.LeaseStatusActive},
			{ID: "l2", ParkID: "p1", LessorID: "lessor2", LessorName: "Hofgemeinschaft Sued", Status: entity.LeaseStatusActive},
		},
	}
	energy := &fakeEnergyRepo{
		rows: []entity.EnergySettlement{
			{ID: "es1", ParkID: "p1", Year: 2024, Month: intPtr(1), Status: entity.EnergySettlementStatusClosed, NetOperatorRevenue: dec("100000")},
			{ID: "es2", ParkID: "p1", Year: 2024, Month: intPtr(2), Status: entity.EnergySettlementStatusInvoiced, NetOperatorRevenue: dec("180000")},
		},
	}
	return parks, plots, leases, energy
}
