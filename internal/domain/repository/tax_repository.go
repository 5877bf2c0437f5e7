package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

// TaxRateRepository resolves tax rates by effective date.
type TaxRateRepository interface {
	// GetRate returns the percentage valid at effectiveDate for the tenant and
	// tax type (most recent ValidFrom on or before the date).
	GetRate(ctx context.Context, tenantID, taxType string, effectiveDate time.Time) (decimal.Decimal, error)
}

// TenantSettingsRepository provides tenant-configurable billing and archive
// settings.
type TenantSettingsRepository interface {
	Get(ctx context.Context, tenantID string) (*entity.TenantSettings, error)
}
