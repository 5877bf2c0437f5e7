package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/windassist/windpark-api/internal/application/archive"
	"github.com/windassist/windpark-api/internal/application/billing"
	appsettlement "github.com/windassist/windpark-api/internal/application/settlement"
	"github.com/windassist/windpark-api/internal/infrastructure/postgres"
	"github.com/windassist/windpark-api/internal/infrastructure/storage"
	httpRouter "github.com/windassist/windpark-api/internal/interfaces/http"
	"github.com/windassist/windpark-api/pkg/config"
	"github.com/windassist/windpark-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	// Pool-bound repositories for reads; writes go through the TxRunner,
	// which hands use cases tx-bound copies.
	settlementRepo := postgres.NewSettlementRepository(pool)
	allocationRepo := postgres.NewAllocationRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	archiveRepo := postgres.NewArchiveRepository(pool)
	taxRateRepo := postgres.NewTaxRateRepository(pool)
	settingsRepo := postgres.NewTenantSettingsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	objectStore := storage.NewPostgresStore(pool)

	calculateUC := appsettlement.NewCalculateUseCase(txRunner, log)
	advanceUC := billing.NewAdvanceInvoiceUseCase(txRunner, taxRateRepo, settingsRepo, log)
	settlementInvUC := billing.NewSettlementInvoiceUseCase(txRunner, taxRateRepo, settingsRepo, log)
	allocationInvUC := billing.NewAllocationInvoiceUseCase(txRunner, taxRateRepo, settingsRepo, log)

	archiveSvc := archive.NewService(txRunner, archiveRepo, objectStore, settingsRepo, archive.Config{
		KeyPrefix:             cfg.Archive.KeyPrefix,
		DefaultRetentionYears: cfg.Archive.DefaultRetentionYears,
	}, log)
	autoArchiver := archive.NewAutoArchiver(archiveSvc, invoiceRepo, objectStore, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Calculate:          calculateUC,
		AdvanceInvoices:    advanceUC,
		SettlementInvoices: settlementInvUC,
		AllocationInvoices: allocationInvUC,
		ArchiveService:     archiveSvc,
		AutoArchiver:       autoArchiver,
		Settlements:        settlementRepo,
		Allocations:        allocationRepo,
		Invoices:           invoiceRepo,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
