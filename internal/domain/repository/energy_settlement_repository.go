package repository

import (
	"context"

	"github.com/windassist/windpark-api/internal/domain/entity"
)

// EnergySettlementRepository is the persistence port for operator revenue.
type EnergySettlementRepository interface {
	GetByID(ctx context.Context, id string) (*entity.EnergySettlement, error)
	// ListForRevenue returns the rows counting toward revenue aggregation for
	// (park, year): statuses CALCULATED, INVOICED and CLOSED, ordered by month.
	ListForRevenue(ctx context.Context, parkID string, year int) ([]entity.EnergySettlement, error)
	// ListTurbineProductions aggregates per-turbine production for the annex.
	ListTurbineProductions(ctx context.Context, parkID string, year int) ([]entity.TurbineProduction, error)
}
