package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/windassist/windpark-api/internal/domain"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/pkg/logger"
)

func allocationFixture() (*fakeAllocationRepo, *fakeInvoiceRepo, *AllocationInvoiceUseCase) {
	linked := "RE-old"
	allocations := &fakeAllocationRepo{
		allocation: &entity.ParkCostAllocation{
			ID:       "a1",
			TenantID: "t1",
			ParkID:   "p1",
			Year:     2024,
			Status:   entity.AllocationStatusDraft,
		},
		items: []entity.ParkCostAllocationItem{
			{
				ID: "ai1", AllocationID: "a1", FundID: "fund1", FundName: "Windfonds Nord I",
				TaxableAmount: dec("100"), ExemptAmount: dec("900"),
			},
			{
				ID: "ai2", AllocationID: "a1", FundID: "fund2", FundName: "Windfonds Nord II",
				TaxableAmount: dec("50"), ExemptAmount: dec("450"),
				VATInvoiceID: &linked, ExemptInvoiceID: &linked,
			},
			{
				ID: "ai3", AllocationID: "a1", FundID: "fund3", FundName: "Windfonds Nord III",
			},
		},
	}
	invoices := &fakeInvoiceRepo{}
	runner := &fakeTxRunner{repos: TxRepos{
		Allocations: allocations,
		Invoices:    invoices,
		Numbers:     &fakeNumberRepo{},
	}}
	uc := NewAllocationInvoiceUseCase(runner, &fakeTaxRateRepo{rate: dec("19")}, &fakeSettingsRepo{}, logger.NewNop())
	return allocations, invoices, uc
}

func TestAllocationInvoices_Generate(t *testing.T) {
	allocations, invoices, uc := allocationFixture()

	result, err := uc.Generate(context.Background(), "a1")
	require.NoError(t, err)

	// ai2 already carries an invoice, ai3 has nothing to bill.
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, entity.AllocationStatusInvoiced, allocations.allocation.Status)

	inv := invoices.byNumber("RE-2024-00001")
	require.NotNil(t, inv)
	assert.Equal(t, entity.InvoiceTypeInvoice, inv.InvoiceType)
	assert.Equal(t, "fund1", inv.RecipientID)

	lines, err := invoices.ListItems(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, entity.TaxTypeStandard, lines[0].TaxType)
	assert.True(t, dec("100").Equal(lines[0].NetAmount))
	assert.True(t, dec("19").Equal(lines[0].TaxAmount))
	assert.Contains(t, lines[0].Description, "Kostenumlage 2024")
	assert.Equal(t, entity.TaxTypeExempt, lines[1].TaxType)
	assert.True(t, dec("900").Equal(lines[1].NetAmount))
	assert.True(t, dec("1000").Equal(inv.NetTotal))
	assert.True(t, dec("1019").Equal(inv.GrandTotal))

	// One document per fund: both link IDs reference it.
	item := allocations.items[0]
	require.NotNil(t, item.VATInvoiceID)
	require.NotNil(t, item.ExemptInvoiceID)
	assert.Equal(t, inv.ID, *item.VATInvoiceID)
	assert.Equal(t, inv.ID, *item.ExemptInvoiceID)
}

func TestAllocationInvoices_RerunIsIdempotent(t *testing.T) {
	allocations, invoices, uc := allocationFixture()

	_, err := uc.Generate(context.Background(), "a1")
	require.NoError(t, err)

	allocations.allocation.Status = entity.AllocationStatusDraft
	result, err := uc.Generate(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 3, result.Skipped)
	assert.Len(t, invoices.invoices, 1)
}

func TestAllocationInvoices_RejectsWrongStatus(t *testing.T) {
	allocations, _, uc := allocationFixture()
	allocations.allocation.Status = entity.AllocationStatusInvoiced

	_, err := uc.Generate(context.Background(), "a1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAllocationInvoices_NotFound(t *testing.T) {
	_, _, uc := allocationFixture()

	_, err := uc.Generate(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
