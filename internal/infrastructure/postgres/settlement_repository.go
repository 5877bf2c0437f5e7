package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo implements SettlementRepository on PostgreSQL (usable with
// pool or tx). The calculation-details and plot-summary snapshots are stored
// as JSONB.
type SettlementRepo struct {
	q Querier
}

// NewSettlementRepository constructs the adapter. Pass pool or tx (Querier).
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

// GetByID returns a settlement header, nil when missing.
func (r *SettlementRepo) GetByID(ctx context.Context, id string) (*entity.LeaseRevenueSettlement, error) {
	query := `
		SELECT id, tenant_id, park_id, year, period_type,
		       COALESCE(advance_interval, ''), month, quarter, status,
		       linked_energy_settlement_id, manual_revenue,
		       calculated_fee, minimum_guarantee, actual_fee, used_minimum,
		       wea_standort_total, pool_area_total, calculation_details,
		       created_at, updated_at
		FROM lease_revenue_settlements WHERE id = $1`
	var s entity.LeaseRevenueSettlement
	var details []byte
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.TenantID, &s.ParkID, &s.Year, &s.PeriodType,
		&s.AdvanceInterval, &s.Month, &s.Quarter, &s.Status,
		&s.LinkedEnergySettlementID, &s.ManualRevenue,
		&s.CalculatedFee, &s.MinimumGuarantee, &s.ActualFee, &s.UsedMinimum,
		&s.WEAStandortTotal, &s.PoolAreaTotal, &details,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	if len(details) > 0 {
		s.CalculationDetails = &entity.CalculationDetails{}
		if err := json.Unmarshal(details, s.CalculationDetails); err != nil {
			return nil, fmt.Errorf("decode calculation details: %w", err)
		}
	}
	return &s, nil
}

// UpdateHeader writes the computed totals, status and calculation snapshot.
func (r *SettlementRepo) UpdateHeader(ctx context.Context, s *entity.LeaseRevenueSettlement) error {
	var details []byte
	if s.CalculationDetails != nil {
		var err error
		details, err = json.Marshal(s.CalculationDetails)
		if err != nil {
			return fmt.Errorf("encode calculation details: %w", err)
		}
	}
	query := `
		UPDATE lease_revenue_settlements
		SET status = $2, calculated_fee = $3, minimum_guarantee = $4,
		    actual_fee = $5, used_minimum = $6,
		    wea_standort_total = $7, pool_area_total = $8,
		    calculation_details = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Status, s.CalculatedFee, s.MinimumGuarantee,
		s.ActualFee, s.UsedMinimum,
		s.WEAStandortTotal, s.PoolAreaTotal,
		details, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update settlement header: %w", err)
	}
	return nil
}

// UpdateStatus transitions the settlement status.
func (r *SettlementRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE lease_revenue_settlements SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("update settlement status: %w", err)
	}
	return nil
}

// DeleteItems removes all items of a settlement; recalculation recreates
// them in the same transaction.
func (r *SettlementRepo) DeleteItems(ctx context.Context, settlementID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM lease_revenue_settlement_items WHERE settlement_id = $1`, settlementID)
	if err != nil {
		return fmt.Errorf("delete settlement items: %w", err)
	}
	return nil
}

// InsertItem persists one per-lease item with its frozen plot snapshot.
func (r *SettlementRepo) InsertItem(ctx context.Context, item *entity.LeaseRevenueSettlementItem) error {
	summary, err := json.Marshal(item.PlotSummary)
	if err != nil {
		return fmt.Errorf("encode plot summary: %w", err)
	}
	query := `
		INSERT INTO lease_revenue_settlement_items (
			id, settlement_id, lease_id, lessor_id, lessor_name,
			pool_area_sqm, pool_area_share_percent, turbine_count,
			pool_fee, standort_fee, sealed_area_fee, road_usage_fee, cable_fee,
			subtotal, taxable_amount, exempt_amount,
			advance_paid, remainder, plot_summary,
			advance_invoice_id, settlement_invoice_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`
	_, err = r.q.Exec(ctx, query,
		item.ID, item.SettlementID, item.LeaseID, item.LessorID, item.LessorName,
		item.PoolAreaSqm, item.PoolAreaSharePercent, item.TurbineCount,
		item.PoolFee, item.StandortFee, item.SealedAreaFee, item.RoadUsageFee, item.CableFee,
		item.Subtotal, item.TaxableAmount, item.ExemptAmount,
		item.AdvancePaid, item.Remainder, summary,
		item.AdvanceInvoiceID, item.SettlementInvoiceID,
	)
	if err != nil {
		return fmt.Errorf("insert settlement item: %w", err)
	}
	return nil
}

// ListItems returns the settlement items ordered by lessor name.
func (r *SettlementRepo) ListItems(ctx context.Context, settlementID string) ([]entity.LeaseRevenueSettlementItem, error) {
	query := `
		SELECT id, settlement_id, lease_id, lessor_id, lessor_name,
		       pool_area_sqm, pool_area_share_percent, turbine_count,
		       pool_fee, standort_fee, sealed_area_fee, road_usage_fee, cable_fee,
		       subtotal, taxable_amount, exempt_amount,
		       advance_paid, remainder, plot_summary,
		       advance_invoice_id, settlement_invoice_id
		FROM lease_revenue_settlement_items
		WHERE settlement_id = $1 ORDER BY lessor_name, lease_id`
	rows, err := r.q.Query(ctx, query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("list settlement items: %w", err)
	}
	defer rows.Close()

	var items []entity.LeaseRevenueSettlementItem
	for rows.Next() {
		var item entity.LeaseRevenueSettlementItem
		var summary []byte
		if err := rows.Scan(
			&item.ID, &item.SettlementID, &item.LeaseID, &item.LessorID, &item.LessorName,
			&item.PoolAreaSqm, &item.PoolAreaSharePercent, &item.TurbineCount,
			&item.PoolFee, &item.StandortFee, &item.SealedAreaFee, &item.RoadUsageFee, &item.CableFee,
			&item.Subtotal, &item.TaxableAmount, &item.ExemptAmount,
			&item.AdvancePaid, &item.Remainder, &summary,
			&item.AdvanceInvoiceID, &item.SettlementInvoiceID,
		); err != nil {
			return nil, fmt.Errorf("scan settlement item: %w", err)
		}
		if len(summary) > 0 {
			if err := json.Unmarshal(summary, &item.PlotSummary); err != nil {
				return nil, fmt.Errorf("decode plot summary: %w", err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetItemAdvanceInvoice links the advance credit note onto an item.
func (r *SettlementRepo) SetItemAdvanceInvoice(ctx context.Context, itemID, invoiceID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE lease_revenue_settlement_items SET advance_invoice_id = $2 WHERE id = $1`,
		itemID, invoiceID)
	if err != nil {
		return fmt.Errorf("link advance invoice: %w", err)
	}
	return nil
}

// SetItemSettlementInvoice links the final credit note onto an item.
func (r *SettlementRepo) SetItemSettlementInvoice(ctx context.Context, itemID, invoiceID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE lease_revenue_settlement_items SET settlement_invoice_id = $2 WHERE id = $1`,
		itemID, invoiceID)
	if err != nil {
		return fmt.Errorf("link settlement invoice: %w", err)
	}
	return nil
}

// UpdateItemRemainder writes the remaining payout of an item.
func (r *SettlementRepo) UpdateItemRemainder(ctx context.Context, itemID string, remainder decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE lease_revenue_settlement_items SET remainder = $2 WHERE id = $1`,
		itemID, remainder)
	if err != nil {
		return fmt.Errorf("update item remainder: %w", err)
	}
	return nil
}

// AdvanceComponentsByLease aggregates the per-component advances credited to
// each lease across the park's ADVANCE settlements of the year.
func (r *SettlementRepo) AdvanceComponentsByLease(ctx context.Context, parkID string, year int) (map[string]entity.AdvanceComponents, error) {
	query := `
		SELECT i.lease_id,
		       COALESCE(SUM(i.pool_fee), 0),
		       COALESCE(SUM(i.standort_fee), 0),
		       COALESCE(SUM(i.sealed_area_fee), 0),
		       COALESCE(SUM(i.road_usage_fee), 0),
		       COALESCE(SUM(i.cable_fee), 0),
		       COALESCE(SUM(i.subtotal), 0)
		FROM lease_revenue_settlement_items i
		JOIN lease_revenue_settlements s ON s.id = i.settlement_id
		WHERE s.park_id = $1 AND s.year = $2 AND s.period_type = $3 AND s.status = ANY($4)
		GROUP BY i.lease_id`
	statuses := []string{
		entity.SettlementStatusCalculated,
		entity.SettlementStatusAdvanceCreated,
		entity.SettlementStatusSettled,
		entity.SettlementStatusPendingReview,
		entity.SettlementStatusApproved,
		entity.SettlementStatusClosed,
	}
	rows, err := r.q.Query(ctx, query, parkID, year, entity.PeriodTypeAdvance, statuses)
	if err != nil {
		return nil, fmt.Errorf("aggregate advance components: %w", err)
	}
	defer rows.Close()

	out := make(map[string]entity.AdvanceComponents)
	for rows.Next() {
		var leaseID string
		var c entity.AdvanceComponents
		if err := rows.Scan(&leaseID, &c.PoolFee, &c.StandortFee, &c.SealedAreaFee, &c.RoadUsageFee, &c.CableFee, &c.Subtotal); err != nil {
			return nil, fmt.Errorf("scan advance components: %w", err)
		}
		out[leaseID] = c
	}
	return out, rows.Err()
}
