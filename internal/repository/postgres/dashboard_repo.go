package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

type dashboardRepo struct {
	db *sqlx.DB
}

// NewDashboardRepo creates a new PostgreSQL-backed DashboardRepository.
func NewDashboardRepo(db *sqlx.DB) port.DashboardRepository {
	return &dashboardRepo{db: db}
}

// renewalsDueQuery counts open renewals per due window. $2 is today.
const renewalsDueQuery = `SELECT
	COUNT(CASE WHEN n.due_date < $2 THEN 1 END) AS overdue,
	COUNT(CASE WHEN n.due_date <= $2::date + 30 THEN 1 END) AS within_30,
	COUNT(CASE WHEN n.due_date <= $2::date + 60 THEN 1 END) AS within_60,
	COUNT(CASE WHEN n.due_date <= $2::date + 90 THEN 1 END) AS within_90
FROM renewals n
JOIN registrations r ON r.id = n.registration_id
JOIN products p ON p.id = r.product_id
WHERE n.tenant_id = $1 AND n.deleted_at IS NULL AND r.deleted_at IS NULL AND p.deleted_at IS NULL
  AND n.status IN ('upcoming', 'submitted')`

const registrationsByCountryQuery = `SELECT c.id AS country_id, c.name AS country_name,
	c.code AS country_code, COUNT(*) AS count
FROM registrations r
JOIN countries c ON c.id = r.country_id
JOIN products p ON p.id = r.product_id
WHERE r.tenant_id = $1 AND r.deleted_at IS NULL AND p.deleted_at IS NULL
GROUP BY c.id, c.name, c.code
ORDER BY count DESC, c.name
LIMIT $2`

func (r *dashboardRepo) CountProducts(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM products WHERE tenant_id = $1 AND deleted_at IS NULL", tenantID); err != nil {
		return 0, fmt.Errorf("dashboardRepo.CountProducts: %w", err)
	}
	return n, nil
}

func (r *dashboardRepo) CountCountries(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM countries WHERE tenant_id = $1", tenantID); err != nil {
		return 0, fmt.Errorf("dashboardRepo.CountCountries: %w", err)
	}
	return n, nil
}

func (r *dashboardRepo) RegistrationsByStatus(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error) {
	return r.byStatus(ctx, "registrations", tenantID)
}

func (r *dashboardRepo) RenewalsByStatus(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error) {
	return r.byStatus(ctx, "renewals", tenantID)
}

func (r *dashboardRepo) VariationsByStatus(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error) {
	return r.byStatus(ctx, "variations", tenantID)
}

func (r *dashboardRepo) byStatus(ctx context.Context, table string, tenantID uuid.UUID) ([]domain.StatusCount, error) {
	counts := []domain.StatusCount{}
	err := r.db.SelectContext(ctx, &counts,
		"SELECT status, COUNT(*) AS count FROM "+table+
			" WHERE tenant_id = $1 AND deleted_at IS NULL GROUP BY status ORDER BY status", tenantID)
	if err != nil {
		return nil, fmt.Errorf("dashboardRepo.byStatus %s: %w", table, err)
	}
	return counts, nil
}

func (r *dashboardRepo) RenewalsDue(ctx context.Context, tenantID uuid.UUID, today domain.Date) (*domain.RenewalsDue, error) {
	var row struct {
		Overdue  int `db:"overdue"`
		Within30 int `db:"within_30"`
		Within60 int `db:"within_60"`
		Within90 int `db:"within_90"`
	}
	if err := r.db.GetContext(ctx, &row, renewalsDueQuery, tenantID, today); err != nil {
		return nil, fmt.Errorf("dashboardRepo.RenewalsDue: %w", err)
	}
	return &domain.RenewalsDue{
		Overdue:  row.Overdue,
		Within30: row.Within30,
		Within60: row.Within60,
		Within90: row.Within90,
	}, nil
}

func (r *dashboardRepo) RegistrationsByCountry(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.CountryCount, error) {
	counts := []domain.CountryCount{}
	if err := r.db.SelectContext(ctx, &counts, registrationsByCountryQuery, tenantID, limit); err != nil {
		return nil, fmt.Errorf("dashboardRepo.RegistrationsByCountry: %w", err)
	}
	return counts, nil
}
