package billing

import (
	"context"

	"github.com/windassist/windpark-api/internal/domain/repository"
)

// TxRepos are the repositories bound to one billing transaction.
type TxRepos struct {
	Settlements repository.SettlementRepository
	Allocations repository.AllocationRepository
	Invoices    repository.InvoiceRepository
	Numbers     repository.InvoiceNumberRepository
	Energy      repository.EnergySettlementRepository
}

// TxRunner runs fn inside a single database transaction with the billing
// repositories bound to it. lockKey serializes concurrent generation runs per
// settlement or allocation.
type TxRunner interface {
	RunBilling(ctx context.Context, lockKey string, fn func(r TxRepos) error) error
}

// GenerationResult reports the outcome of an invoice-generation run. Skipped
// items (already linked, zero amount) are a normal outcome, not an error.
type GenerationResult struct {
	Created    int      `json:"created"`
	Skipped    int      `json:"skipped"`
	InvoiceIDs []string `json:"invoice_ids"`
}
