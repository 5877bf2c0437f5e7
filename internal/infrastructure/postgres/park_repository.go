package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var _ repository.ParkRepository = (*ParkRepo)(nil)

// ParkRepo implements ParkRepository on PostgreSQL (usable with pool or tx).
type ParkRepo struct {
	q Querier
}

// NewParkRepository constructs the adapter. Pass pool or tx (Querier).
func NewParkRepository(q Querier) *ParkRepo {
	return &ParkRepo{q: q}
}

// GetByID returns a park with its contract configuration, nil when missing.
func (r *ParkRepo) GetByID(ctx context.Context, id string) (*entity.Park, error) {
	query := `
		SELECT id, tenant_id, name, commissioning_date,
		       minimum_rent_per_turbine, wea_share_percentage, pool_share_percentage,
		       sealed_area_rate, road_usage_rate, cable_rate,
		       created_at, updated_at
		FROM parks WHERE id = $1`
	var p entity.Park
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.TenantID, &p.Name, &p.CommissioningDate,
		&p.MinimumRentPerTurbine, &p.WEASharePercentage, &p.PoolSharePercentage,
		&p.SealedAreaRate, &p.RoadUsageRate, &p.CableRate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get park: %w", err)
	}
	return &p, nil
}

// ListRevenuePhases returns the park's revenue-share schedule ordered by
// start year.
func (r *ParkRepo) ListRevenuePhases(ctx context.Context, parkID string) ([]entity.RevenuePhase, error) {
	query := `
		SELECT id, park_id, start_year, end_year, revenue_share_percentage
		FROM revenue_phases WHERE park_id = $1 ORDER BY start_year`
	rows, err := r.q.Query(ctx, query, parkID)
	if err != nil {
		return nil, fmt.Errorf("list revenue phases: %w", err)
	}
	defer rows.Close()

	var phases []entity.RevenuePhase
	for rows.Next() {
		var ph entity.RevenuePhase
		if err := rows.Scan(&ph.ID, &ph.ParkID, &ph.StartYear, &ph.EndYear, &ph.RevenueSharePercentage); err != nil {
			return nil, fmt.Errorf("scan revenue phase: %w", err)
		}
		phases = append(phases, ph)
	}
	return phases, rows.Err()
}

// ListActiveTurbines returns the active turbines ordered by designation.
func (r *ParkRepo) ListActiveTurbines(ctx context.Context, parkID string) ([]entity.Turbine, error) {
	query := `
		SELECT id, park_id, designation, is_active, commissioned_at
		FROM turbines WHERE park_id = $1 AND is_active ORDER BY designation`
	rows, err := r.q.Query(ctx, query, parkID)
	if err != nil {
		return nil, fmt.Errorf("list turbines: %w", err)
	}
	defer rows.Close()

	var turbines []entity.Turbine
	for rows.Next() {
		var t entity.Turbine
		if err := rows.Scan(&t.ID, &t.ParkID, &t.Designation, &t.IsActive, &t.CommissionedAt); err != nil {
			return nil, fmt.Errorf("scan turbine: %w", err)
		}
		turbines = append(turbines, t)
	}
	return turbines, rows.Err()
}
