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

type variationRepo struct {
	db *sqlx.DB
}

// NewVariationRepo creates a new PostgreSQL-backed VariationRepository.
func NewVariationRepo(db *sqlx.DB) port.VariationRepository {
	return &variationRepo{db: db}
}

const variationSelect = `SELECT v.id, v.tenant_id, v.registration_id, v.variation_type, v.title,
	v.description, v.status, v.submission_date, v.approval_date, v.created_by, v.created_at,
	v.updated_at, v.deleted_at, v.deleted_by,
	r.registration_number, p.name AS product_name, c.name AS country_name
FROM variations v
JOIN registrations r ON r.id = v.registration_id
JOIN products p ON p.id = r.product_id
JOIN countries c ON c.id = r.country_id `

func (r *variationRepo) Create(ctx context.Context, v *domain.Variation) error {
	v.ID = uuid.New()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO variations (id, tenant_id, registration_id, variation_type, title, description,
			status, submission_date, approval_date, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		v.ID, v.TenantID, v.RegistrationID, v.VariationType, v.Title, v.Description,
		v.Status, v.SubmissionDate, v.ApprovalDate, v.CreatedBy, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("variationRepo.Create: %w", err)
	}
	return nil
}

func (r *variationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Variation, error) {
	var v domain.Variation
	err := r.db.GetContext(ctx, &v,
		variationSelect+"WHERE v.id = $1 AND v.tenant_id = $2 AND v.deleted_at IS NULL"+
			" AND r.deleted_at IS NULL AND p.deleted_at IS NULL", id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("variationRepo.GetByID: %w", err)
	}
	return &v, nil
}

func (r *variationRepo) List(ctx context.Context, tenantID uuid.UUID, f domain.VariationFilter) ([]domain.Variation, int, error) {
	w := newWhere("v.tenant_id = $%d", tenantID)
	w.andRaw("v.deleted_at IS NULL")
	w.andRaw("r.deleted_at IS NULL")
	w.andRaw("p.deleted_at IS NULL")
	if f.RegistrationID != nil {
		w.and("v.registration_id = $%d", *f.RegistrationID)
	}
	if f.Status != "" {
		w.and("v.status = $%d", f.Status)
	}
	if f.VariationType != "" {
		w.and("v.variation_type = $%d", f.VariationType)
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM variations v JOIN registrations r ON r.id = v.registration_id "+
			"JOIN products p ON p.id = r.product_id "+w.sql, w.args...); err != nil {
		return nil, 0, fmt.Errorf("variationRepo.List count: %w", err)
	}

	offset, limit := clampPage(f.Offset, f.Limit)
	suffix, args := w.page(offset, limit)
	var variations []domain.Variation
	if err := r.db.SelectContext(ctx, &variations,
		variationSelect+w.sql+" ORDER BY v.updated_at DESC"+suffix, args...); err != nil {
		return nil, 0, fmt.Errorf("variationRepo.List: %w", err)
	}
	return variations, total, nil
}

func (r *variationRepo) Update(ctx context.Context, v *domain.Variation) error {
	v.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE variations SET variation_type = $1, title = $2, description = $3, status = $4,
			submission_date = $5, approval_date = $6, updated_at = $7
		 WHERE id = $8 AND tenant_id = $9 AND deleted_at IS NULL`,
		v.VariationType, v.Title, v.Description, v.Status,
		v.SubmissionDate, v.ApprovalDate, v.UpdatedAt, v.ID, v.TenantID)
	if err != nil {
		return fmt.Errorf("variationRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *variationRepo) SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error {
	return softDelete(ctx, r.db, domain.EntityVariation, tenantID, id, deletedBy)
}
