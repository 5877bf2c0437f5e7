package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Park is a wind installation site. The nullable fields are contract terms
// that must be configured before a settlement can be calculated.
type Park struct {
	ID                    string
	TenantID              string
	Name                  string
	CommissioningDate     *time.Time
	MinimumRentPerTurbine *decimal.Decimal // EUR per turbine per year
	WEASharePercentage    *decimal.Decimal // share of the fee going to turbine sites
	PoolSharePercentage   *decimal.Decimal // share of the fee distributed over pool areas
	SealedAreaRate        decimal.Decimal  // EUR per sqm sealed area
	RoadUsageRate         decimal.Decimal  // EUR per sqm road (WEG) area
	CableRate             decimal.Decimal  // EUR per m cable route
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RevenuePhase is one step of the park's revenue-share schedule, keyed by
// years since commissioning. EndYear nil means open-ended.
type RevenuePhase struct {
	ID                     string
	ParkID                 string
	StartYear              int
	EndYear                *int
	RevenueSharePercentage decimal.Decimal
}

// Turbine is a single wind energy converter (WEA) of a park.
type Turbine struct {
	ID             string
	ParkID         string
	Designation    string
	IsActive       bool
	CommissionedAt *time.Time
}
