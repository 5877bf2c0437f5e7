package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/windassist/windpark-api/internal/domain"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
	"github.com/windassist/windpark-api/pkg/logger"
)

// AllocationInvoiceUseCase invoices a park cost allocation to the operating
// company funds: one invoice per fund item with up to two lines, a taxable
// one (pool and area shares, standard VAT) and an exempt one (site, sealed
// area, road and cable, §4 Nr. 12 UStG). Both link IDs on the item reference
// that single invoice.
type AllocationInvoiceUseCase struct {
	txRunner TxRunner
	taxRates repository.TaxRateRepository
	settings repository.TenantSettingsRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewAllocationInvoiceUseCase constructs the use case.
func NewAllocationInvoiceUseCase(
	txRunner TxRunner,
	taxRates repository.TaxRateRepository,
	settings repository.TenantSettingsRepository,
	log *logger.Logger,
) *AllocationInvoiceUseCase {
	return &AllocationInvoiceUseCase{txRunner: txRunner, taxRates: taxRates, settings: settings, log: log, now: time.Now}
}

// Generate creates the allocation invoices. Precondition: allocation status
// DRAFT. Transitions the allocation to INVOICED.
func (uc *AllocationInvoiceUseCase) Generate(ctx context.Context, allocationID string) (*GenerationResult, error) {
	result := &GenerationResult{}

	err := uc.txRunner.RunBilling(ctx, allocationID, func(r TxRepos) error {
		alloc, err := r.Allocations.GetByID(ctx, allocationID)
		if err != nil {
			return err
		}
		if alloc == nil {
			return fmt.Errorf("allocation %s: %w", allocationID, domain.ErrNotFound)
		}
		if alloc.Status != entity.AllocationStatusDraft {
			return fmt.Errorf("allocation invoices require status DRAFT, allocation %s is %s: %w",
				allocationID, alloc.Status, domain.ErrConflict)
		}

		items, err := r.Allocations.ListItems(ctx, allocationID)
		if err != nil {
			return err
		}

		var eligible []*entity.ParkCostAllocationItem
		for i := range items {
			item := &items[i]
			if item.VATInvoiceID != nil || item.ExemptInvoiceID != nil {
				result.Skipped++
				continue
			}
			if item.TaxableAmount.IsZero() && item.ExemptAmount.IsZero() {
				result.Skipped++
				continue
			}
			eligible = append(eligible, item)
		}
		if len(eligible) == 0 {
			return r.Allocations.UpdateStatus(ctx, allocationID, entity.AllocationStatusInvoiced)
		}

		numbers, err := r.Numbers.NextNumbers(ctx, alloc.TenantID, entity.InvoiceTypeInvoice, len(eligible))
		if err != nil {
			return fmt.Errorf("allocate invoice numbers: %w", err)
		}
		settings, err := uc.settings.Get(ctx, alloc.TenantID)
		if err != nil {
			return fmt.Errorf("load tenant settings: %w", err)
		}
		invoiceDate := uc.now()
		stdRate, err := uc.taxRates.GetRate(ctx, alloc.TenantID, entity.TaxTypeStandard, invoiceDate)
		if err != nil {
			return fmt.Errorf("resolve standard tax rate: %w", err)
		}

		for i, item := range eligible {
			inv := &entity.Invoice{
				ID:            uuid.New().String(),
				TenantID:      alloc.TenantID,
				InvoiceType:   entity.InvoiceTypeInvoice,
				Number:        numbers[i],
				RecipientID:   item.FundID,
				RecipientName: item.FundName,
				Date:          invoiceDate,
				Status:        entity.InvoiceStatusDraft,
				CreatedAt:     invoiceDate,
				UpdatedAt:     invoiceDate,
			}

			var lines []*entity.InvoiceItem
			if item.TaxableAmount.IsPositive() {
				desc := fmt.Sprintf("Kostenumlage %d – Pachtanteil Poolflächen", alloc.Year)
				lines = append(lines, buildLine(inv, len(lines)+1, entity.PositionPoolArea, desc,
					item.TaxableAmount, entity.TaxTypeStandard, stdRate, taxExemptNote(settings)))
			}
			if item.ExemptAmount.IsPositive() {
				desc := fmt.Sprintf("Kostenumlage %d – Pachtanteil Standort/Flächen", alloc.Year)
				lines = append(lines, buildLine(inv, len(lines)+1, entity.PositionTurbineSite, desc,
					item.ExemptAmount, entity.TaxTypeExempt, stdRate, taxExemptNote(settings)))
			}
			applyTotals(inv, lines)

			if err := r.Invoices.Create(ctx, inv); err != nil {
				return fmt.Errorf("create allocation invoice: %w", err)
			}
			for _, line := range lines {
				if err := r.Invoices.CreateItem(ctx, line); err != nil {
					return fmt.Errorf("create allocation invoice line: %w", err)
				}
			}
			// One document: both link IDs carry the same invoice ID.
			if err := r.Allocations.SetItemInvoices(ctx, item.ID, inv.ID, inv.ID); err != nil {
				return fmt.Errorf("link allocation invoice: %w", err)
			}

			result.Created++
			result.InvoiceIDs = append(result.InvoiceIDs, inv.ID)
		}

		return r.Allocations.UpdateStatus(ctx, allocationID, entity.AllocationStatusInvoiced)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("allocation_id", allocationID).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("allocation invoices generated")
	return result, nil
}
