package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenantSettings carries tenant-configurable billing and archive behavior.
// Missing entries fall back to built-in defaults (10-year retention per
// §147 AO, POOL_AREA taxable / everything else exempt).
type TenantSettings struct {
	TenantID         string
	RetentionYears   map[string]int    // per archive document type
	PositionTaxTypes map[string]string // fee position -> tax type
	TaxExemptNote    string            // printed on exempt invoice lines
}

// TaxRate is one validity-dated tax rate of a tenant.
type TaxRate struct {
	ID        string
	TenantID  string
	TaxType   string
	ValidFrom time.Time
	Percent   decimal.Decimal
}
