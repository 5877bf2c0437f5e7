package postgres

import (
	"context"
	"fmt"

	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var _ repository.PlotRepository = (*PlotRepo)(nil)

// PlotRepo implements PlotRepository on PostgreSQL (usable with pool or tx).
type PlotRepo struct {
	q Querier
}

// NewPlotRepository constructs the adapter. Pass pool or tx (Querier).
func NewPlotRepository(q Querier) *PlotRepo {
	return &PlotRepo{q: q}
}

// ListActiveByPark returns the park's active plots with areas and linked
// lease IDs populated, ordered by plot number.
func (r *PlotRepo) ListActiveByPark(ctx context.Context, parkID string) ([]entity.Plot, error) {
	query := `
		SELECT id, park_id, plot_number, cadastral_district, field_number, is_active
		FROM plots WHERE park_id = $1 AND is_active ORDER BY plot_number`
	rows, err := r.q.Query(ctx, query, parkID)
	if err != nil {
		return nil, fmt.Errorf("list plots: %w", err)
	}
	defer rows.Close()

	var plots []entity.Plot
	index := map[string]int{}
	for rows.Next() {
		var p entity.Plot
		if err := rows.Scan(&p.ID, &p.ParkID, &p.PlotNumber, &p.CadastralDistrict, &p.FieldNumber, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan plot: %w", err)
		}
		index[p.ID] = len(plots)
		plots = append(plots, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(plots) == 0 {
		return nil, nil
	}

	if err := r.loadAreas(ctx, parkID, plots, index); err != nil {
		return nil, err
	}
	if err := r.loadLeaseLinks(ctx, parkID, plots, index); err != nil {
		return nil, err
	}
	return plots, nil
}

func (r *PlotRepo) loadAreas(ctx context.Context, parkID string, plots []entity.Plot, index map[string]int) error {
	query := `
		SELECT a.id, a.plot_id, a.area_type, a.area_sqm, COALESCE(a.length_m, 0)
		FROM plot_areas a
		JOIN plots p ON p.id = a.plot_id
		WHERE p.park_id = $1 AND p.is_active
		ORDER BY a.plot_id, a.area_type`
	rows, err := r.q.Query(ctx, query, parkID)
	if err != nil {
		return fmt.Errorf("list plot areas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a entity.PlotArea
		if err := rows.Scan(&a.ID, &a.PlotID, &a.AreaType, &a.AreaSqm, &a.LengthM); err != nil {
			return fmt.Errorf("scan plot area: %w", err)
		}
		if i, ok := index[a.PlotID]; ok {
			plots[i].Areas = append(plots[i].Areas, a)
		}
	}
	return rows.Err()
}

func (r *PlotRepo) loadLeaseLinks(ctx context.Context, parkID string, plots []entity.Plot, index map[string]int) error {
	query := `
		SELECT pl.plot_id, pl.lease_id
		FROM plot_leases pl
		JOIN plots p ON p.id = pl.plot_id
		WHERE p.park_id = $1 AND p.is_active
		ORDER BY pl.plot_id, pl.lease_id`
	rows, err := r.q.Query(ctx, query, parkID)
	if err != nil {
		return fmt.Errorf("list plot leases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var plotID, leaseID string
		if err := rows.Scan(&plotID, &leaseID); err != nil {
			return fmt.Errorf("scan plot lease link: %w", err)
		}
		if i, ok := index[plotID]; ok {
			plots[i].LeaseIDs = append(plots[i].LeaseIDs, leaseID)
		}
	}
	return rows.Err()
}
