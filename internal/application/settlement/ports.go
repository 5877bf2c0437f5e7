package settlement

import (
	"context"

	"github.com/windassist/windpark-api/internal/domain/repository"
)

// TxRepos are the repositories bound to one settlement transaction.
type TxRepos struct {
	Settlements repository.SettlementRepository
	Parks       repository.ParkRepository
	Plots       repository.PlotRepository
	Leases      repository.LeaseRepository
	Energy      repository.EnergySettlementRepository
}

// TxRunner runs fn inside a single database transaction with the repositories
// bound to it. lockKey serializes concurrent runs for the same settlement
// (advisory lock); the delete-then-recreate item pattern is not safe to
// interleave.
type TxRunner interface {
	RunSettlement(ctx context.Context, lockKey string, fn func(r TxRepos) error) error
}
