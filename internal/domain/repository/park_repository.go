package repository

import (
	"context"

	"github.com/windassist/windpark-api/internal/domain/entity"
)

// ParkRepository is the persistence port for parks and their configuration.
type ParkRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Park, error)
	// ListRevenuePhases returns the phases ordered by StartYear.
	ListRevenuePhases(ctx context.Context, parkID string) ([]entity.RevenuePhase, error)
	ListActiveTurbines(ctx context.Context, parkID string) ([]entity.Turbine, error)
}
