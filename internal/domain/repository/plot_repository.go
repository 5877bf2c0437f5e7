package repository

import (
	"context"

	"github.com/windassist/windpark-api/internal/domain/entity"
)

// PlotRepository is the persistence port for plots.
type PlotRepository interface {
	// ListActiveByPark returns active plots with their areas and linked lease
	// IDs populated.
	ListActiveByPark(ctx context.Context, parkID string) ([]entity.Plot, error)
}
