package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain"
	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var (
	_ repository.TaxRateRepository        = (*TaxRateRepo)(nil)
	_ repository.TenantSettingsRepository = (*TenantSettingsRepo)(nil)
)

// TaxRateRepo implements TaxRateRepository on PostgreSQL (usable with pool or
// tx).
type TaxRateRepo struct {
	q Querier
}

// NewTaxRateRepository constructs the adapter. Pass pool or tx (Querier).
func NewTaxRateRepository(q Querier) *TaxRateRepo {
	return &TaxRateRepo{q: q}
}

// GetRate returns the rate valid at effectiveDate: the row with the most
// recent valid_from on or before the date.
func (r *TaxRateRepo) GetRate(ctx context.Context, tenantID, taxType string, effectiveDate time.Time) (decimal.Decimal, error) {
	query := `
		SELECT percent FROM tax_rates
		WHERE tenant_id = $1 AND tax_type = $2 AND valid_from <= $3
		ORDER BY valid_from DESC LIMIT 1`
	var percent decimal.Decimal
	err := r.q.QueryRow(ctx, query, tenantID, taxType, effectiveDate).Scan(&percent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("no %s tax rate valid at %s: %w",
				taxType, effectiveDate.Format("2006-01-02"), domain.ErrMissingConfiguration)
		}
		return decimal.Zero, fmt.Errorf("get tax rate: %w", err)
	}
	return percent, nil
}

// TenantSettingsRepo implements TenantSettingsRepository on PostgreSQL
// (usable with pool or tx). The per-type maps are stored as JSONB.
type TenantSettingsRepo struct {
	q Querier
}

// NewTenantSettingsRepository constructs the adapter. Pass pool or tx
// (Querier).
func NewTenantSettingsRepository(q Querier) *TenantSettingsRepo {
	return &TenantSettingsRepo{q: q}
}

// Get returns the tenant's settings, nil when the tenant has none configured
// (callers fall back to the built-in defaults).
func (r *TenantSettingsRepo) Get(ctx context.Context, tenantID string) (*entity.TenantSettings, error) {
	query := `
		SELECT tenant_id, retention_years, position_tax_types, COALESCE(tax_exempt_note, '')
		FROM tenant_settings WHERE tenant_id = $1`
	var s entity.TenantSettings
	var retention, taxTypes []byte
	err := r.q.QueryRow(ctx, query, tenantID).Scan(&s.TenantID, &retention, &taxTypes, &s.TaxExemptNote)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant settings: %w", err)
	}
	if len(retention) > 0 {
		if err := json.Unmarshal(retention, &s.RetentionYears); err != nil {
			return nil, fmt.Errorf("decode retention years: %w", err)
		}
	}
	if len(taxTypes) > 0 {
		if err := json.Unmarshal(taxTypes, &s.PositionTaxTypes); err != nil {
			return nil, fmt.Errorf("decode position tax types: %w", err)
		}
	}
	return &s, nil
}
