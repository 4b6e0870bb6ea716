package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

type countryRepo struct {
	db *sqlx.DB
}

// NewCountryRepo creates a new PostgreSQL-backed CountryRepository.
func NewCountryRepo(db *sqlx.DB) port.CountryRepository {
	return &countryRepo{db: db}
}

func (r *countryRepo) Create(ctx context.Context, c *domain.Country) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO countries (id, tenant_id, name, code, region, regulatory_authority, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.TenantID, c.Name, c.Code, c.Region, c.RegulatoryAuthority, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCountryCode
		}
		return fmt.Errorf("countryRepo.Create: %w", err)
	}
	return nil
}

func (r *countryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Country, error) {
	var c domain.Country
	err := r.db.GetContext(ctx, &c,
		"SELECT * FROM countries WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("countryRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *countryRepo) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Country, int, error) {
	w := newWhere("tenant_id = $%d", tenantID)
	if search != "" {
		w.and("(name ILIKE $%[1]d OR code ILIKE $%[1]d)", "%"+search+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM countries "+w.sql, w.args...); err != nil {
		return nil, 0, fmt.Errorf("countryRepo.List count: %w", err)
	}

	offset, limit = clampPage(offset, limit)
	suffix, args := w.page(offset, limit)
	var countries []domain.Country
	if err := r.db.SelectContext(ctx, &countries,
		"SELECT * FROM countries "+w.sql+" ORDER BY name"+suffix, args...); err != nil {
		return nil, 0, fmt.Errorf("countryRepo.List: %w", err)
	}
	return countries, total, nil
}

func (r *countryRepo) Update(ctx context.Context, c *domain.Country) error {
	c.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE countries SET name = $1, code = $2, region = $3, regulatory_authority = $4, updated_at = $5
		 WHERE id = $6 AND tenant_id = $7`,
		c.Name, c.Code, c.Region, c.RegulatoryAuthority, c.UpdatedAt, c.ID, c.TenantID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCountryCode
		}
		return fmt.Errorf("countryRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *countryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM countries WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCountryInUse
		}
		return fmt.Errorf("countryRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
