package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/windassist/windpark-api/internal/application/archive"
	"github.com/windassist/windpark-api/internal/application/billing"
	appsettlement "github.com/windassist/windpark-api/internal/application/settlement"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	Calculate          *appsettlement.CalculateUseCase
	AdvanceInvoices    *billing.AdvanceInvoiceUseCase
	SettlementInvoices *billing.SettlementInvoiceUseCase
	AllocationInvoices *billing.AllocationInvoiceUseCase
	ArchiveService     *archive.Service
	AutoArchiver       *archive.AutoArchiver
	Settlements        repository.SettlementRepository
	Allocations        repository.AllocationRepository
	Invoices           repository.InvoiceRepository
}

// Router registers the API routes. Everything under /api is tenant-scoped
// through TenantMiddleware.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", TenantMiddleware())

	// Settlements
	settlements := api.Group("/settlements")
	settlementHandler := NewSettlementHandler(deps.Calculate, deps.AdvanceInvoices, deps.SettlementInvoices, deps.Settlements, deps.AutoArchiver)
	settlements.Get("/:id", settlementHandler.GetByID)
	settlements.Post("/:id/calculate", settlementHandler.Calculate)
	settlements.Post("/:id/advance-invoices", settlementHandler.GenerateAdvanceInvoices)
	settlements.Post("/:id/settlement-invoices", settlementHandler.GenerateSettlementInvoices)
	settlements.Post("/:id/archive-statement", settlementHandler.ArchiveStatement)

	// Park cost allocations
	allocations := api.Group("/allocations")
	allocationHandler := NewAllocationHandler(deps.AllocationInvoices, deps.Allocations)
	allocations.Post("/:id/invoices", allocationHandler.GenerateInvoices)

	// Invoices and credit notes
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.AutoArchiver)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/send", invoiceHandler.Send)

	// GoBD archive
	archiveGroup := api.Group("/archive")
	archiveHandler := NewArchiveHandler(deps.ArchiveService, deps.AutoArchiver)
	archiveGroup.Post("/", archiveHandler.Archive)
	archiveGroup.Post("/contracts/:leaseId", archiveHandler.ArchiveContract)
	archiveGroup.Get("/verify", archiveHandler.VerifyChain)
	archiveGroup.Get("/export/:year", archiveHandler.ExportYear)
	archiveGroup.Get("/:id", archiveHandler.GetByID)
	archiveGroup.Get("/:id/content", archiveHandler.GetContent)
}
