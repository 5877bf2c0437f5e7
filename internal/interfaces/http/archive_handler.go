package http

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/windassist/windpark-api/internal/application/archive"
	"github.com/windassist/windpark-api/internal/application/dto"
	"github.com/windassist/windpark-api/internal/domain"
)

// ArchiveHandler handles GoBD archive requests.
type ArchiveHandler struct {
	svc      *archive.Service
	archiver *archive.AutoArchiver
}

// NewArchiveHandler constructs the handler.
func NewArchiveHandler(svc *archive.Service, archiver *archive.AutoArchiver) *ArchiveHandler {
	return &ArchiveHandler{svc: svc, archiver: archiver}
}

// Archive appends a document to the tenant's chain.
// POST /api/archive
func (h *ArchiveHandler) Archive(c *fiber.Ctx) error {
	var in dto.ArchiveRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fmt.Errorf("invalid body: %w", domain.ErrInvalidInput))
	}
	content, err := base64.StdEncoding.DecodeString(in.Content)
	if err != nil {
		return respondError(c, fmt.Errorf("content must be base64: %w", domain.ErrInvalidInput))
	}

	doc, err := h.svc.Archive(c.Context(), archive.Params{
		TenantID:     GetTenantID(c),
		ReferenceID:  in.ReferenceID,
		DocumentType: in.DocumentType,
		FileName:     in.FileName,
		MimeType:     in.MimeType,
		Content:      content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromArchivedDocument(doc))
}

// GetByID returns a document's chain metadata.
// GET /api/archive/:id
func (h *ArchiveHandler) GetByID(c *fiber.Ctx) error {
	doc, _, err := h.svc.Get(c.Context(), c.Params("id"), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromArchivedDocument(doc))
}

// GetContent streams the verified document content.
// GET /api/archive/:id/content
func (h *ArchiveHandler) GetContent(c *fiber.Ctx) error {
	doc, content, err := h.svc.Get(c.Context(), c.Params("id"), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, doc.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
	return c.Send(content)
}

// VerifyChain walks the tenant's hash chain, optionally windowed by the
// `from` and `to` query parameters (RFC 3339).
// GET /api/archive/verify
func (h *ArchiveHandler) VerifyChain(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return respondError(c, err)
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.svc.VerifyChain(c.Context(), GetTenantID(c), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// ExportYear serves the GDPdU audit index of a calendar year as CSV.
// GET /api/archive/export/:year
func (h *ArchiveHandler) ExportYear(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil || year < 1990 || year > 9999 {
		return respondError(c, fmt.Errorf("invalid year: %w", domain.ErrInvalidInput))
	}

	out, err := h.svc.ExportYear(c.Context(), GetTenantID(c), year)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("gobd-index-%d.csv", year)))
	return c.Send(out)
}

// ArchiveContract pushes a signed lease contract PDF into the archive. Like
// every auto-archive hook the trigger is best effort and acknowledged with
// 202 regardless of the hook outcome.
// POST /api/archive/contracts/:leaseId
func (h *ArchiveHandler) ArchiveContract(c *fiber.Ctx) error {
	var in dto.ArchiveTriggerRequest
	if err := c.BodyParser(&in); err != nil || in.PDFKey == "" {
		return respondError(c, fmt.Errorf("pdf_key is required: %w", domain.ErrInvalidInput))
	}

	h.archiver.OnContractFinalized(c.Context(), GetTenantID(c), c.Params("leaseId"), in.PDFKey)
	return c.SendStatus(fiber.StatusAccepted)
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC 3339: %w", name, domain.ErrInvalidInput)
	}
	return &t, nil
}
