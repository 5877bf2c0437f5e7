package repository

import (
	"context"

	"github.com/windassist/windpark-api/internal/domain/entity"
)

// LeaseRepository is the persistence port for leases.
type LeaseRepository interface {
	// ListActiveByPark returns ACTIVE leases with the lessor name resolved.
	ListActiveByPark(ctx context.Context, parkID string) ([]entity.Lease, error)
}
