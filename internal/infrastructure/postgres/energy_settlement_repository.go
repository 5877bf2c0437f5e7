package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var _ repository.EnergySettlementRepository = (*EnergySettlementRepo)(nil)

// EnergySettlementRepo implements EnergySettlementRepository on PostgreSQL
// (usable with pool or tx).
type EnergySettlementRepo struct {
	q Querier
}

// NewEnergySettlementRepository constructs the adapter. Pass pool or tx
// (Querier).
func NewEnergySettlementRepository(q Querier) *EnergySettlementRepo {
	return &EnergySettlementRepo{q: q}
}

const energySettlementColumns = `
	id, tenant_id, park_id, year, month, status,
	net_operator_revenue, eeg_production_kwh, eeg_revenue,
	direct_marketing_production_kwh, direct_marketing_revenue,
	created_at, updated_at`

// GetByID returns one energy settlement, nil when missing.
func (r *EnergySettlementRepo) GetByID(ctx context.Context, id string) (*entity.EnergySettlement, error) {
	query := `SELECT ` + energySettlementColumns + ` FROM energy_settlements WHERE id = $1`
	var es entity.EnergySettlement
	err := r.q.QueryRow(ctx, query, id).Scan(
		&es.ID, &es.TenantID, &es.ParkID, &es.Year, &es.Month, &es.Status,
		&es.NetOperatorRevenue, &es.EEGProductionKWh, &es.EEGRevenue,
		&es.DirectMarketingProductionKWh, &es.DirectMarketingRevenue,
		&es.CreatedAt, &es.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get energy settlement: %w", err)
	}
	return &es, nil
}

// ListForRevenue returns the rows counting toward revenue aggregation for
// (park, year), ordered by month with yearly rows first.
func (r *EnergySettlementRepo) ListForRevenue(ctx context.Context, parkID string, year int) ([]entity.EnergySettlement, error) {
	query := `SELECT ` + energySettlementColumns + `
		FROM energy_settlements
		WHERE park_id = $1 AND year = $2 AND status = ANY($3)
		ORDER BY month NULLS FIRST`
	statuses := []string{
		entity.EnergySettlementStatusCalculated,
		entity.EnergySettlementStatusInvoiced,
		entity.EnergySettlementStatusClosed,
	}
	rows, err := r.q.Query(ctx, query, parkID, year, statuses)
	if err != nil {
		return nil, fmt.Errorf("list energy settlements: %w", err)
	}
	defer rows.Close()

	var out []entity.EnergySettlement
	for rows.Next() {
		var es entity.EnergySettlement
		if err := rows.Scan(
			&es.ID, &es.TenantID, &es.ParkID, &es.Year, &es.Month, &es.Status,
			&es.NetOperatorRevenue, &es.EEGProductionKWh, &es.EEGRevenue,
			&es.DirectMarketingProductionKWh, &es.DirectMarketingRevenue,
			&es.CreatedAt, &es.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan energy settlement: %w", err)
		}
		out = append(out, es)
	}
	return out, rows.Err()
}

// ListTurbineProductions aggregates the per-turbine production of (park,
// year) for the settlement annex.
func (r *EnergySettlementRepo) ListTurbineProductions(ctx context.Context, parkID string, year int) ([]entity.TurbineProduction, error) {
	query := `
		SELECT t.designation, COALESCE(SUM(tp.production_kwh), 0)
		FROM turbines t
		LEFT JOIN turbine_productions tp ON tp.turbine_id = t.id AND tp.year = $2
		WHERE t.park_id = $1 AND t.is_active
		GROUP BY t.designation
		ORDER BY t.designation`
	rows, err := r.q.Query(ctx, query, parkID, year)
	if err != nil {
		return nil, fmt.Errorf("list turbine productions: %w", err)
	}
	defer rows.Close()

	var out []entity.TurbineProduction
	for rows.Next() {
		var p entity.TurbineProduction
		if err := rows.Scan(&p.Designation, &p.ProductionKWh); err != nil {
			return nil, fmt.Errorf("scan turbine production: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
