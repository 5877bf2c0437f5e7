package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/windassist/windpark-api/internal/application/archive"
	"github.com/windassist/windpark-api/internal/application/billing"
	"github.com/windassist/windpark-api/internal/application/dto"
	appsettlement "github.com/windassist/windpark-api/internal/application/settlement"
	"github.com/windassist/windpark-api/internal/domain"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

// SettlementHandler handles lease-revenue settlement requests.
type SettlementHandler struct {
	calculate   *appsettlement.CalculateUseCase
	advances    *billing.AdvanceInvoiceUseCase
	final       *billing.SettlementInvoiceUseCase
	settlements repository.SettlementRepository
	archiver    *archive.AutoArchiver
}

// NewSettlementHandler constructs the handler. settlements is a pool-bound
// repository for reads.
func NewSettlementHandler(
	calculate *appsettlement.CalculateUseCase,
	advances *billing.AdvanceInvoiceUseCase,
	final *billing.SettlementInvoiceUseCase,
	settlements repository.SettlementRepository,
	archiver *archive.AutoArchiver,
) *SettlementHandler {
	return &SettlementHandler{calculate: calculate, advances: advances, final: final, settlements: settlements, archiver: archiver}
}

// GetByID returns a settlement with its items.
// GET /api/settlements/:id
func (h *SettlementHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.settlements.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if s == nil || s.TenantID != GetTenantID(c) {
		return respondError(c, fmt.Errorf("settlement %s: %w", c.Params("id"), domain.ErrNotFound))
	}
	items, err := h.settlements.ListItems(c.Context(), s.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromSettlement(s, items))
}

// Calculate recalculates a settlement.
// POST /api/settlements/:id/calculate
func (h *SettlementHandler) Calculate(c *fiber.Ctx) error {
	if err := h.requireTenant(c); err != nil {
		return respondError(c, err)
	}
	s, err := h.calculate.Calculate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.settlements.ListItems(c.Context(), s.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromSettlement(s, items))
}

// GenerateAdvanceInvoices creates the advance credit notes.
// POST /api/settlements/:id/advance-invoices
func (h *SettlementHandler) GenerateAdvanceInvoices(c *fiber.Ctx) error {
	if err := h.requireTenant(c); err != nil {
		return respondError(c, err)
	}
	result, err := h.advances.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GenerateSettlementInvoices creates the final settlement credit notes.
// POST /api/settlements/:id/settlement-invoices
func (h *SettlementHandler) GenerateSettlementInvoices(c *fiber.Ctx) error {
	if err := h.requireTenant(c); err != nil {
		return respondError(c, err)
	}
	result, err := h.final.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// ArchiveStatement pushes the finalized settlement statement PDF into the
// GoBD archive. Archiving is best effort, so the trigger is acknowledged
// with 202 regardless of the hook outcome.
// POST /api/settlements/:id/archive-statement
func (h *SettlementHandler) ArchiveStatement(c *fiber.Ctx) error {
	if err := h.requireTenant(c); err != nil {
		return respondError(c, err)
	}
	var in dto.ArchiveTriggerRequest
	if err := c.BodyParser(&in); err != nil || in.PDFKey == "" {
		return respondError(c, fmt.Errorf("pdf_key is required: %w", domain.ErrInvalidInput))
	}

	h.archiver.OnSettlementFinalized(c.Context(), GetTenantID(c), c.Params("id"), in.PDFKey)
	return c.SendStatus(fiber.StatusAccepted)
}

// requireTenant ensures the settlement belongs to the request tenant before
// a mutating use case runs.
func (h *SettlementHandler) requireTenant(c *fiber.Ctx) error {
	s, err := h.settlements.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if s == nil || s.TenantID != GetTenantID(c) {
		return fmt.Errorf("settlement %s: %w", c.Params("id"), domain.ErrNotFound)
	}
	return nil
}

// AllocationHandler handles park-cost-allocation requests.
type AllocationHandler struct {
	invoices    *billing.AllocationInvoiceUseCase
	allocations repository.AllocationRepository
}

// NewAllocationHandler constructs the handler.
func NewAllocationHandler(invoices *billing.AllocationInvoiceUseCase, allocations repository.AllocationRepository) *AllocationHandler {
	return &AllocationHandler{invoices: invoices, allocations: allocations}
}

// GenerateInvoices creates the allocation invoices.
// POST /api/allocations/:id/invoices
func (h *AllocationHandler) GenerateInvoices(c *fiber.Ctx) error {
	a, err := h.allocations.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if a == nil || a.TenantID != GetTenantID(c) {
		return respondError(c, fmt.Errorf("allocation %s: %w", c.Params("id"), domain.ErrNotFound))
	}
	result, err := h.invoices.Generate(c.Context(), a.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
