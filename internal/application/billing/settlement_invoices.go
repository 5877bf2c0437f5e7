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

// SettlementInvoiceUseCase turns a calculated final settlement into one credit
// note per lease with a positive remainder, deducting the advances already
// credited during the year.
type SettlementInvoiceUseCase struct {
	txRunner TxRunner
	taxRates repository.TaxRateRepository
	settings repository.TenantSettingsRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewSettlementInvoiceUseCase constructs the use case.
func NewSettlementInvoiceUseCase(
	txRunner TxRunner,
	taxRates repository.TaxRateRepository,
	settings repository.TenantSettingsRepository,
	log *logger.Logger,
) *SettlementInvoiceUseCase {
	return &SettlementInvoiceUseCase{txRunner: txRunner, taxRates: taxRates, settings: settings, log: log, now: time.Now}
}

// Generate creates the final settlement credit notes. Precondition: FINAL
// period type in status ADVANCE_CREATED or CALCULATED. The settlement
// transitions to SETTLED even when every item is skipped.
func (uc *SettlementInvoiceUseCase) Generate(ctx context.Context, settlementID string) (*GenerationResult, error) {
	result := &GenerationResult{}

	err := uc.txRunner.RunBilling(ctx, settlementID, func(r TxRepos) error {
		s, err := r.Settlements.GetByID(ctx, settlementID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("settlement %s: %w", settlementID, domain.ErrNotFound)
		}
		if s.PeriodType != entity.PeriodTypeFinal {
			return fmt.Errorf("settlement %s is not a final settlement: %w", settlementID, domain.ErrConflict)
		}
		if s.Status != entity.SettlementStatusAdvanceCreated && s.Status != entity.SettlementStatusCalculated {
			return fmt.Errorf("settlement invoices require status CALCULATED or ADVANCE_CREATED, settlement %s is %s: %w",
				settlementID, s.Status, domain.ErrConflict)
		}

		items, err := r.Settlements.ListItems(ctx, settlementID)
		if err != nil {
			return err
		}

		// Per-component advance breakdown across all advance settlements of
		// the park/year; needed for the Verrechnung lines and the payout nets.
		advanceByLease, err := r.Settlements.AdvanceComponentsByLease(ctx, s.ParkID, s.Year)
		if err != nil {
			return fmt.Errorf("load advance breakdown: %w", err)
		}

		// First pass: decide eligibility so the numbers can be allocated in
		// one round-trip.
		var eligible []*entity.LeaseRevenueSettlementItem
		for i := range items {
			item := &items[i]
			if item.SettlementInvoiceID != nil {
				result.Skipped++
				continue
			}
			remainder := item.Subtotal.Sub(item.AdvancePaid)
			if !remainder.IsPositive() {
				if err := r.Settlements.UpdateItemRemainder(ctx, item.ID, decimal.Zero); err != nil {
					return err
				}
				result.Skipped++
				continue
			}
			eligible = append(eligible, item)
		}

		if len(eligible) == 0 {
			return r.Settlements.UpdateStatus(ctx, settlementID, entity.SettlementStatusSettled)
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

		sharedDetails, err := buildPdfDetails(ctx, r, s)
		if err != nil {
			return err
		}

		period := periodLabel(s)
		for i, item := range eligible {
			remainder := item.Subtotal.Sub(item.AdvancePaid)
			adv := advanceByLease[item.LeaseID]

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

			// The annex shows the full fee positions plus the advance
			// deductions; the payout lines carry only the net amounts.
			details := *sharedDetails
			details.FeePositions = feePositions(item, adv, period)
			inv.CalculationDetails = &details

			payouts := payoutAmounts(item, adv, remainder)
			var lines []*entity.InvoiceItem
			for pos, key := range positionOrder {
				if payouts[pos].IsZero() {
					continue
				}
				desc := fmt.Sprintf("Pachtabrechnung %s – %s", period, positionLabel(key))
				lines = append(lines, buildLine(inv, len(lines)+1, key, desc, payouts[pos], taxMap[key], stdRate, taxExemptNote(settings)))
			}
			applyTotals(inv, lines)

			if err := r.Invoices.Create(ctx, inv); err != nil {
				return fmt.Errorf("create settlement credit note: %w", err)
			}
			for _, line := range lines {
				if err := r.Invoices.CreateItem(ctx, line); err != nil {
					return fmt.Errorf("create credit note line: %w", err)
				}
			}
			if err := r.Settlements.SetItemSettlementInvoice(ctx, item.ID, inv.ID); err != nil {
				return fmt.Errorf("link settlement invoice: %w", err)
			}

			result.Created++
			result.InvoiceIDs = append(result.InvoiceIDs, inv.ID)
		}

		return r.Settlements.UpdateStatus(ctx, settlementID, entity.SettlementStatusSettled)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("settlement_id", settlementID).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("settlement credit notes generated")
	return result, nil
}

// feePositions builds the annex lines for one item: a positive line per fee
// component plus a negative Verrechnung line per previously advanced
// component.
func feePositions(item *entity.LeaseRevenueSettlementItem, adv entity.AdvanceComponents, period string) []entity.FeePosition {
	components := itemComponents(item)
	advanced := advanceComponentAmounts(adv)

	var positions []entity.FeePosition
	for i, key := range positionOrder {
		if components[i].IsZero() {
			continue
		}
		positions = append(positions, entity.FeePosition{
			Key:       key,
			Label:     fmt.Sprintf("%s %s", positionLabel(key), period),
			AmountEur: components[i],
		})
	}
	for i, key := range positionOrder {
		if advanced[i].IsZero() {
			continue
		}
		positions = append(positions, entity.FeePosition{
			Key:       key,
			Label:     fmt.Sprintf("./. Verrechnung Vorauszahlung %s", positionLabel(key)),
			AmountEur: advanced[i].Neg(),
		})
	}
	return positions
}

// payoutAmounts computes the net-of-advance payout per component, emitting
// only positive nets, and corrects the first nonzero line so the sum equals
// the remainder exactly.
func payoutAmounts(item *entity.LeaseRevenueSettlementItem, adv entity.AdvanceComponents, remainder decimal.Decimal) []decimal.Decimal {
	components := itemComponents(item)
	advanced := advanceComponentAmounts(adv)

	payouts := make([]decimal.Decimal, len(components))
	sum := decimal.Zero
	for i := range components {
		net := components[i].Sub(advanced[i])
		if net.IsPositive() {
			payouts[i] = net
			sum = sum.Add(net)
		}
	}

	idx := calc.FirstNonZeroIndex(payouts)
	if idx < 0 {
		// Everything was advanced component-wise but a remainder is still
		// owed; pay it out on the first component of the item.
		if i := calc.FirstNonZeroIndex(components); i >= 0 {
			payouts[i] = remainder
		}
		return payouts
	}
	payouts[idx] = payouts[idx].Add(remainder.Sub(sum))
	return payouts
}
