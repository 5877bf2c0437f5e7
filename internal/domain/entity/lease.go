package entity

import "time"

// Lease statuses. Only ACTIVE leases participate in settlement runs.
const (
	LeaseStatusDraft      = "DRAFT"
	LeaseStatusActive     = "ACTIVE"
	LeaseStatusTerminated = "TERMINATED"
)

// Lessor is the landowner side of a lease, a person or a company.
type Lessor struct {
	ID          string
	TenantID    string
	Name        string
	CompanyName string
	IsCompany   bool
	Email       string
	IBAN        string
}

// Lease is a land-lease contract between the park and one lessor.
// DirectBillingFundID redirects payment away from the park's default billing
// entity when set.
type Lease struct {
	ID                  string
	TenantID            string
	ParkID              string
	LessorID            string
	LessorName          string
	Status              string
	DirectBillingFundID *string
	StartDate           time.Time
	EndDate             *time.Time
}
