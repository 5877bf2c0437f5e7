package postgres

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/windassist/windpark-api/internal/application/archive"
	"github.com/windassist/windpark-api/internal/application/billing"
	"github.com/windassist/windpark-api/internal/application/settlement"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var (
	_ settlement.TxRunner = (*TxRunner)(nil)
	_ billing.TxRunner    = (*TxRunner)(nil)
	_ archive.TxRunner    = (*TxRunner)(nil)
)

// TxRunner runs use-case callbacks inside a PostgreSQL transaction with the
// repositories bound to it. Runs sharing a lock key are serialized via an
// advisory lock held for the duration of the transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constructs the runner on the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSettlement runs fn with the settlement repositories, serialized on the
// settlement ID.
func (r *TxRunner) RunSettlement(ctx context.Context, lockKey string, fn func(tr settlement.TxRepos) error) error {
	return r.run(ctx, "settlement:"+lockKey, func(q Querier) error {
		return fn(settlement.TxRepos{
			Settlements: NewSettlementRepository(q),
			Parks:       NewParkRepository(q),
			Plots:       NewPlotRepository(q),
			Leases:      NewLeaseRepository(q),
			Energy:      NewEnergySettlementRepository(q),
		})
	})
}

// RunBilling runs fn with the billing repositories. Settlement and billing
// runs for the same settlement share the lock namespace: calculating and
// invoicing the same settlement never interleave.
func (r *TxRunner) RunBilling(ctx context.Context, lockKey string, fn func(tr billing.TxRepos) error) error {
	return r.run(ctx, "settlement:"+lockKey, func(q Querier) error {
		return fn(billing.TxRepos{
			Settlements: NewSettlementRepository(q),
			Allocations: NewAllocationRepository(q),
			Invoices:    NewInvoiceRepository(q),
			Numbers:     NewInvoiceNumberRepository(q),
			Energy:      NewEnergySettlementRepository(q),
		})
	})
}

// RunArchive runs fn with a tx-bound archive repository, serialized per
// tenant so chain appends never race.
func (r *TxRunner) RunArchive(ctx context.Context, tenantID string, fn func(docs repository.ArchiveRepository) error) error {
	return r.run(ctx, "archive:"+tenantID, func(q Querier) error {
		return fn(NewArchiveRepository(q))
	})
}

func (r *TxRunner) run(ctx context.Context, lockKey string, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// pg_advisory_xact_lock releases automatically on commit or rollback.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockID(lockKey)); err != nil {
		return fmt.Errorf("acquire advisory lock: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// lockID folds a lock key into the signed 64-bit space of advisory locks.
func lockID(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}
