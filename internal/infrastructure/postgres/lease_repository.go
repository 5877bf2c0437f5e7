package postgres

import (
	"context"
	"fmt"

	"github.com/windassist/windpark-api/internal/domain/entity"
	"github.com/windassist/windpark-api/internal/domain/repository"
)

var _ repository.LeaseRepository = (*LeaseRepo)(nil)

// LeaseRepo implements LeaseRepository on PostgreSQL (usable with pool or tx).
type LeaseRepo struct {
	q Querier
}

// NewLeaseRepository constructs the adapter. Pass pool or tx (Querier).
func NewLeaseRepository(q Querier) *LeaseRepo {
	return &LeaseRepo{q: q}
}

// ListActiveByPark returns the park's ACTIVE leases with the lessor name
// resolved (company name wins over person name when both are set).
func (r *LeaseRepo) ListActiveByPark(ctx context.Context, parkID string) ([]entity.Lease, error) {
	query := `
		SELECT l.id, l.tenant_id, l.park_id, l.lessor_id,
		       COALESCE(NULLIF(ls.company_name, ''), ls.name),
		       l.status, l.direct_billing_fund_id, l.start_date, l.end_date
		FROM leases l
		JOIN lessors ls ON ls.id = l.lessor_id
		WHERE l.park_id = $1 AND l.status = $2
		ORDER BY l.id`
	rows, err := r.q.Query(ctx, query, parkID, entity.LeaseStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list leases: %w", err)
	}
	defer rows.Close()

	var leases []entity.Lease
	for rows.Next() {
		var l entity.Lease
		if err := rows.Scan(
			&l.ID, &l.TenantID, &l.ParkID, &l.LessorID, &l.LessorName,
			&l.Status, &l.DirectBillingFundID, &l.StartDate, &l.EndDate,
		); err != nil {
			return nil, fmt.Errorf("scan lease: %w", err)
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}
