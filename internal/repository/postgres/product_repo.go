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

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a new PostgreSQL-backed ProductRepository.
func NewProductRepo(db *sqlx.DB) port.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, tenant_id, name, generic_name, dosage_form, strength,
			therapeutic_area, manufacturer, is_active, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.TenantID, p.Name, p.GenericName, p.DosageForm, p.Strength,
		p.TherapeuticArea, p.Manufacturer, p.IsActive, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("productRepo.Create: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p,
		"SELECT * FROM products WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL", id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("productRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.ProductFilter) ([]domain.Product, int, error) {
	w := newWhere("tenant_id = $%d", tenantID)
	w.andRaw("deleted_at IS NULL")
	if filter.Search != "" {
		w.and("(name ILIKE $%[1]d OR generic_name ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM products "+w.sql, w.args...); err != nil {
		return nil, 0, fmt.Errorf("productRepo.List count: %w", err)
	}

	offset, limit := clampPage(filter.Offset, filter.Limit)
	suffix, args := w.page(offset, limit)
	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products,
		"SELECT * FROM products "+w.sql+" ORDER BY name"+suffix, args...); err != nil {
		return nil, 0, fmt.Errorf("productRepo.List: %w", err)
	}
	return products, total, nil
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $1, generic_name = $2, dosage_form = $3, strength = $4,
			therapeutic_area = $5, manufacturer = $6, is_active = $7, updated_at = $8
		 WHERE id = $9 AND tenant_id = $10 AND deleted_at IS NULL`,
		p.Name, p.GenericName, p.DosageForm, p.Strength,
		p.TherapeuticArea, p.Manufacturer, p.IsActive, p.UpdatedAt, p.ID, p.TenantID)
	if err != nil {
		return fmt.Errorf("productRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error {
	return softDelete(ctx, r.db, domain.EntityProduct, tenantID, id, deletedBy)
}
