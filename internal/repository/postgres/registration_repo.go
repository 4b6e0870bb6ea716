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

type registrationRepo struct {
	db *sqlx.DB
}

// NewRegistrationRepo creates a new PostgreSQL-backed RegistrationRepository.
func NewRegistrationRepo(db *sqlx.DB) port.RegistrationRepository {
	return &registrationRepo{db: db}
}

const registrationSelect = `SELECT r.id, r.tenant_id, r.product_id, r.country_id, r.registration_number,
	r.status, r.submission_date, r.approval_date, r.expiry_date, r.notes, r.created_by,
	r.created_at, r.updated_at, r.deleted_at, r.deleted_by,
	p.name AS product_name, c.name AS country_name, c.code AS country_code
FROM registrations r
JOIN products p ON p.id = r.product_id
JOIN countries c ON c.id = r.country_id `

func (r *registrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	reg.ID = uuid.New()
	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO registrations (id, tenant_id, product_id, country_id, registration_number, status,
			submission_date, approval_date, expiry_date, notes, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		reg.ID, reg.TenantID, reg.ProductID, reg.CountryID, reg.RegistrationNumber, reg.Status,
		reg.SubmissionDate, reg.ApprovalDate, reg.ExpiryDate, reg.Notes, reg.CreatedBy,
		reg.CreatedAt, reg.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRegistration
		}
		return fmt.Errorf("registrationRepo.Create: %w", err)
	}
	return nil
}

func (r *registrationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Registration, error) {
	var reg domain.Registration
	err := r.db.GetContext(ctx, &reg,
		registrationSelect+"WHERE r.id = $1 AND r.tenant_id = $2 AND r.deleted_at IS NULL AND p.deleted_at IS NULL", id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("registrationRepo.GetByID: %w", err)
	}
	return &reg, nil
}

func (r *registrationRepo) List(ctx context.Context, tenantID uuid.UUID, f domain.RegistrationFilter) ([]domain.Registration, int, error) {
	w := newWhere("r.tenant_id = $%d", tenantID)
	w.andRaw("r.deleted_at IS NULL")
	w.andRaw("p.deleted_at IS NULL")
	if f.ProductID != nil {
		w.and("r.product_id = $%d", *f.ProductID)
	}
	if f.CountryID != nil {
		w.and("r.country_id = $%d", *f.CountryID)
	}
	if f.Status != "" {
		w.and("r.status = $%d", f.Status)
	}
	if f.Search != "" {
		w.and("(r.registration_number ILIKE $%[1]d OR p.name ILIKE $%[1]d)", "%"+f.Search+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM registrations r JOIN products p ON p.id = r.product_id `+w.sql, w.args...); err != nil {
		return nil, 0, fmt.Errorf("registrationRepo.List count: %w", err)
	}

	offset, limit := clampPage(f.Offset, f.Limit)
	suffix, args := w.page(offset, limit)
	var regs []domain.Registration
	if err := r.db.SelectContext(ctx, &regs,
		registrationSelect+w.sql+" ORDER BY r.updated_at DESC"+suffix, args...); err != nil {
		return nil, 0, fmt.Errorf("registrationRepo.List: %w", err)
	}
	return regs, total, nil
}

func (r *registrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	return updateRegistration(ctx, r.db, reg)
}

func (r *registrationRepo) UpdateAndScheduleRenewal(ctx context.Context, reg *domain.Registration, renewal *domain.Renewal) error {
	return withTx(ctx, r.db, "registrationRepo.UpdateAndScheduleRenewal", func(tx *sqlx.Tx) error {
		if err := updateRegistration(ctx, tx, reg); err != nil {
			return err
		}
		return insertRenewal(ctx, tx, renewal)
	})
}

func (r *registrationRepo) SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error {
	return softDelete(ctx, r.db, domain.EntityRegistration, tenantID, id, deletedBy)
}

func updateRegistration(ctx context.Context, db sqlx.ExecerContext, reg *domain.Registration) error {
	reg.UpdatedAt = time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`UPDATE registrations SET registration_number = $1, status = $2, submission_date = $3,
			approval_date = $4, expiry_date = $5, notes = $6, updated_at = $7
		 WHERE id = $8 AND tenant_id = $9 AND deleted_at IS NULL`,
		reg.RegistrationNumber, reg.Status, reg.SubmissionDate,
		reg.ApprovalDate, reg.ExpiryDate, reg.Notes, reg.UpdatedAt, reg.ID, reg.TenantID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRegistration
		}
		return fmt.Errorf("registrationRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
