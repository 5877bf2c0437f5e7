package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

// In-memory stand-ins for the billing repositories. They implement only what
// the generators touch and record enough state to assert on.

type fakeTxRunner struct {
	repos TxRepos
	runs  int
}

func (f *fakeTxRunner) RunBilling(ctx context.Context, lockKey string, fn func(r TxRepos) error) error {
	f.runs++
	return fn(f.repos)
}

type fakeSettlementRepo struct {
	settlement *entity.LeaseRevenueSettlement
	items      []entity.LeaseRevenueSettlementItem
	advances   map[string]entity.AdvanceComponents
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
	return f.setItem(itemID, func(item *entity.LeaseRevenueSettlementItem) {
		item.AdvanceInvoiceID = &invoiceID
	})
}

func (f *fakeSettlementRepo) SetItemSettlementInvoice(ctx context.Context, itemID, invoiceID string) error {
	return f.setItem(itemID, func(item *entity.LeaseRevenueSettlementItem) {
		item.SettlementInvoiceID = &invoiceID
	})
}

func (f *fakeSettlementRepo) UpdateItemRemainder(ctx context.Context, itemID string, remainder decimal.Decimal) error {
	return f.setItem(itemID, func(item *entity.LeaseRevenueSettlementItem) {
		item.Remainder = remainder
	})
}

func (f *fakeSettlementRepo) AdvanceComponentsByLease(ctx context.Context, parkID string, year int) (map[string]entity.AdvanceComponents, error) {
	return f.advances, nil
}

func (f *fakeSettlementRepo) setItem(itemID string, mutate func(*entity.LeaseRevenueSettlementItem)) error {
	for i := range f.items {
		if f.items[i].ID == itemID {
			mutate(&f.items[i])
			return nil
		}
	}
	return fmt.Errorf("item %s not found", itemID)
}

func (f *fakeSettlementRepo) item(itemID string) *entity.LeaseRevenueSettlementItem {
	for i := range f.items {
		if f.items[i].ID == itemID {
			return &f.items[i]
		}
	}
	return nil
}

type fakeAllocationRepo struct {
	allocation *entity.ParkCostAllocation
	items      []entity.ParkCostAllocationItem
}

func (f *fakeAllocationRepo) GetByID(ctx context.Context, id string) (*entity.ParkCostAllocation, error) {
	if f.allocation != nil && f.allocation.ID == id {
		return f.allocation, nil
	}
	return nil, nil
}

func (f *fakeAllocationRepo) ListItems(ctx context.Context, allocationID string) ([]entity.ParkCostAllocationItem, error) {
	out := make([]entity.ParkCostAllocationItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeAllocationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	f.allocation.Status = status
	return nil
}

func (f *fakeAllocationRepo) SetItemInvoices(ctx context.Context, itemID, vatInvoiceID, exemptInvoiceID string) error {
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items[i].VATInvoiceID = &vatInvoiceID
			f.items[i].ExemptInvoiceID = &exemptInvoiceID
			return nil
		}
	}
	return fmt.Errorf("item %s not found", itemID)
}

type fakeInvoiceRepo struct {
	invoices []*entity.Invoice
	lines    []*entity.InvoiceItem
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	f.invoices = append(f.invoices, invoice)
	return nil
}

func (f *fakeInvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	f.lines = append(f.lines, item)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) ListItems(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	var out []entity.InvoiceItem
	for _, line := range f.lines {
		if line.InvoiceID == invoiceID {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) UpdateStatus(ctx context.Context, id, status string) error {
	for _, inv := range f.invoices {
		if inv.ID == id {
			inv.Status = status
			return nil
		}
	}
	return fmt.Errorf("invoice %s not found", id)
}

func (f *fakeInvoiceRepo) byNumber(number string) *entity.Invoice {
	for _, inv := range f.invoices {
		if inv.Number == number {
			return inv
		}
	}
	return nil
}

type fakeNumberRepo struct {
	next int
}

func (f *fakeNumberRepo) NextNumbers(ctx context.Context, tenantID, invoiceType string, count int) ([]string, error) {
	prefix := "RE"
	if invoiceType == entity.InvoiceTypeCreditNote {
		prefix = "GS"
	}
	numbers := make([]string, count)
	for i := range numbers {
		f.next++
		numbers[i] = fmt.Sprintf("%s-2024-%05d", prefix, f.next)
	}
	return numbers, nil
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

type fakeTaxRateRepo struct {
	rate decimal.Decimal
}

func (f *fakeTaxRateRepo) GetRate(ctx context.Context, tenantID, taxType string, effectiveDate time.Time) (decimal.Decimal, error) {
	return f.rate, nil
}

type fakeSettingsRepo struct {
	settings *entity.TenantSettings
}

func (f *fakeSettingsRepo) Get(ctx context.Context, tenantID string) (*entity.TenantSettings, error) {
	return f.settings, nil
}
