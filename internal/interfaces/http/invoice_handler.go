package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/windassist/windpark-api/internal/application/archive"
	"github.com/windassist/windpark-api/internal/application/dto"
	"github.com/windassist/windpark-api/internal/domain"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

// InvoiceHandler handles invoice and credit-note requests.
type InvoiceHandler struct {
	invoices repository.InvoiceRepository
	archiver *archive.AutoArchiver
}

// NewInvoiceHandler constructs the handler.
func NewInvoiceHandler(invoices repository.InvoiceRepository, archiver *archive.AutoArchiver) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, archiver: archiver}
}

// GetByID returns an invoice with its lines.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.load(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.invoices.ListItems(c.Context(), inv.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromInvoice(inv, items))
}

// Send marks an invoice as sent and pushes its PDF into the GoBD archive.
// Archiving is best effort; the status transition is the primary operation.
// POST /api/invoices/:id/send
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	inv, err := h.load(c)
	if err != nil {
		return respondError(c, err)
	}
	if inv.Status != entity.InvoiceStatusDraft {
		return respondError(c, fmt.Errorf("invoice %s is %s, only DRAFT can be sent: %w",
			inv.ID, inv.Status, domain.ErrConflict))
	}
	if err := h.invoices.UpdateStatus(c.Context(), inv.ID, entity.InvoiceStatusSent); err != nil {
		return respondError(c, err)
	}

	h.archiver.OnInvoiceSent(c.Context(), inv.TenantID, inv.ID)

	inv.Status = entity.InvoiceStatusSent
	return c.JSON(dto.FromInvoice(inv, nil))
}

func (h *InvoiceHandler) load(c *fiber.Ctx) (*entity.Invoice, error) {
	inv, err := h.invoices.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.TenantID != GetTenantID(c) {
		return nil, fmt.Errorf("invoice %s: %w", c.Params("id"), domain.ErrNotFound)
	}
	return inv, nil
}
