package entity

import "github.com/shopspring/decimal"

// Plot area types. AUSGLEICH (compensation) areas count toward the pool-area
// total for distribution purposes; that is intentional, not a bug.
const (
	PlotAreaPool        = "POOL"
	PlotAreaWEAStandort = "WEA_STANDORT"
	PlotAreaWeg         = "WEG"
	PlotAreaAusgleich   = "AUSGLEICH"
	PlotAreaKabel       = "KABEL"
)

// Plot is a land parcel belonging to a park. LeaseIDs are the leases linked
// via the plot-lease join table.
type Plot struct {
	ID                string
	ParkID            string
	PlotNumber        string
	CadastralDistrict string // Gemarkung
	FieldNumber       string // Flur
	IsActive          bool
	Areas             []PlotArea
	LeaseIDs          []string
}

// PlotArea is a typed sub-area of a plot. KABEL areas carry a length in
// meters; a zero LengthM falls back to AreaSqm when folding cable routes.
type PlotArea struct {
	ID       string
	PlotID   string
	AreaType string
	AreaSqm  decimal.Decimal
	LengthM  decimal.Decimal
}
