package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
	calc "github.com/windassist/windpark-api/internal/domain/settlement"
	"github.com/windassist/windpark-api/pkg/logger"
)

// AdvanceInvoiceUseCase turns a calculated advance settlement into one credit
// note per lease. Reruns are idempotent: items that already carry an advance
// invoice are skipped.
type AdvanceInvoiceUseCase struct {
	txRunner TxRunner
	taxRates repository.TaxRateRepository
	settings repository.TenantSettingsRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewAdvanceInvoiceUseCase constructs the use case.
func NewAdvanceInvoiceUseCase(
	txRunner TxRunner,
	taxRates repository.TaxRateRepository,
	settings repository.TenantSettingsRepository,
	log *logger.Logger,
) *AdvanceInvoiceUseCase {
	return &AdvanceInvoiceUseCase{txRunner: txRunner, taxRates: taxRates, settings: settings, log: log, now: time.Now}
}

// Generate creates the advance credit notes for the settlement. Precondition:
// ADVANCE period type in status CALCULATED (or ADVANCE_CREATED for a rerun
// picking up unlinked items). Transitions the settlement to ADVANCE_CREATED.
func (uc *AdvanceInvoiceUseCase) Generate(ctx context.Context, settlementID string) (*GenerationResult, error) {
	result := &GenerationResult{}

	err := uc.txRunner.RunBilling(ctx, settlementID, func(r TxRepos) error {
		s, err := r.Settlements.GetByID(ctx, settlementID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("settlement %s: %w", settlementID, domain.ErrNotFound)
		}
		if s.PeriodType != entity.PeriodTypeAdvance {
			return fmt.Errorf("settlement %s is not an advance settlement: %w", settlementID, domain.ErrConflict)
		}
		if s.Status != entity.SettlementStatusCalculated && s.Status != entity.SettlementStatusAdvanceCreated {
			return fmt.Errorf("advance invoices require status CALCULATED, settlement %s is %s: %w",
				settlementID, s.Status, domain.ErrConflict)
		}

		items, err := r.Settlements.ListItems(ctx, settlementID)
		if err != nil {
			return err
		}

		var eligible []*entity.LeaseRevenueSettlementItem
		totalSubtotal := decimal.Zero
		for i := range items {
			totalSubtotal = totalSubtotal.Add(items[i].Subtotal)
			if items[i].AdvanceInvoiceID != nil || !items[i].Subtotal.IsPositive() {
				result.Skipped++
				continue
			}
			eligible = append(eligible, &items[i])
		}
		if len(eligible) == 0 {
			return r.Settlements.UpdateStatus(ctx, settlementID, entity.SettlementStatusAdvanceCreated)
		}

		numbers, err := r.Numbers.NextNumbers(ctx, s.TenantID, entity.InvoiceTypeCreditNote, len(eligible))
		if err != nil {
			return fmt.Errorf("allocate invoice numbers: %w", err)
		}

		settings, err := uc.settings.Get(ctx, s.TenantID)
		if err != nil {
			return fmt.Errorf("load tenant settings: %w", err)
		}
		taxMap := positionTaxMap(settings)
		invoiceDate := uc.now()
		stdRate, err := uc.taxRates.GetRate(ctx, s.TenantID, entity.TaxTypeStandard, invoiceDate)
		if err != nil {
			return fmt.Errorf("resolve standard tax rate: %w", err)
		}

		period := periodLabel(s)
		for i, item := range eligible {
			// The period minimum is distributed over the items proportional to
			// each item's share of the total subtotal, not to the item's own
			// advance components.
			advanceShare := calc.Round2(item.Subtotal.Div(totalSubtotal).Mul(s.MinimumGuarantee))

			// That share is then split across the item's fee components
			// proportional to their share of the item subtotal, with the
			// rounding remainder on the last nonzero line.
			weights := itemComponents(item)
			shares := calc.DistributeWithRemainder(advanceShare, weights, calc.LastNonZeroIndex(weights))

			inv := &entity.Invoice{
				ID:            uuid.New().String(),
				TenantID:      s.TenantID,
				InvoiceType:   entity.InvoiceTypeCreditNote,
				Number:        numbers[i],
				RecipientID:   item.LessorID,
				RecipientName: item.LessorName,
				Date:          invoiceDate,
				Status:        entity.InvoiceStatusDraft,
				CreatedAt:     invoiceDate,
				UpdatedAt:     invoiceDate,
			}

			var lines []*entity.InvoiceItem
			for pos, key := range positionOrder {
				if shares[pos].IsZero() {
					continue
				}
				desc := fmt.Sprintf("Pachtvorauszahlung %s – %s", period, positionLabel(key))
				lines = append(lines, buildLine(inv, len(lines)+1, key, desc, shares[pos], taxMap[key], stdRate, taxExemptNote(settings)))
			}
			applyTotals(inv, lines)

			if err := r.Invoices.Create(ctx, inv); err != nil {
				return fmt.Errorf("create advance credit note: %w", err)
			}
			for _, line := range lines {
				if err := r.Invoices.CreateItem(ctx, line); err != nil {
					return fmt.Errorf("create credit note line: %w", err)
				}
			}
			if err := r.Settlements.SetItemAdvanceInvoice(ctx, item.ID, inv.ID); err != nil {
				return fmt.Errorf("link advance invoice: %w", err)
			}

			result.Created++
			result.InvoiceIDs = append(result.InvoiceIDs, inv.ID)
		}

		return r.Settlements.UpdateStatus(ctx, settlementID, entity.SettlementStatusAdvanceCreated)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("settlement_id", settlementID).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("advance credit notes generated")
	return result, nil
}

// buildLine prices one invoice line. Exempt lines carry a zero rate and the
// tenant's exemption note in the description.
func buildLine(inv *entity.Invoice, position int, key, description string, net decimal.Decimal, taxType string, stdRate decimal.Decimal, exemptNote string) *entity.InvoiceItem {
	line := &entity.InvoiceItem{
		ID:          uuid.New().String(),
		InvoiceID:   inv.ID,
		Position:    position,
		PositionKey: key,
		Description: description,
		NetAmount:   net,
		TaxType:     taxType,
	}
	if taxType == entity.TaxTypeStandard {
		line.TaxRatePercent = stdRate
		line.TaxAmount = calc.Round2(net.Mul(stdRate).Div(decimal.NewFromInt(100)))
	} else {
		line.Description = description + " (" + exemptNote + ")"
	}
	line.GrossAmount = line.NetAmount.Add(line.TaxAmount)
	return line
}

// applyTotals sums the lines onto the invoice header.
func applyTotals(inv *entity.Invoice, lines []*entity.InvoiceItem) {
	for _, line := range lines {
		inv.NetTotal = inv.NetTotal.Add(line.NetAmount)
		inv.TaxTotal = inv.TaxTotal.Add(line.TaxAmount)
	}
	inv.GrandTotal = inv.NetTotal.Add(inv.TaxTotal)
}
