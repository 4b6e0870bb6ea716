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

type renewalRepo struct {
	db *sqlx.DB
}

// NewRenewalRepo creates a new PostgreSQL-backed RenewalRepository.
func NewRenewalRepo(db *sqlx.DB) port.RenewalRepository {
	return &renewalRepo{db: db}
}

const renewalSelect = `SELECT n.id, n.tenant_id, n.registration_id, n.due_date, n.submission_date,
	n.approval_date, n.new_expiry_date, n.status, n.notes, n.created_by, n.created_at, n.updated_at,
	n.deleted_at, n.deleted_by,
	r.registration_number, p.name AS product_name, c.name AS country_name
FROM renewals n
JOIN registrations r ON r.id = n.registration_id
JOIN products p ON p.id = r.product_id
JOIN countries c ON c.id = r.country_id `

func (r *renewalRepo) Create(ctx context.Context, renewal *domain.Renewal) error {
	return insertRenewal(ctx, r.db, renewal)
}

func (r *renewalRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Renewal, error) {
	var renewal domain.Renewal
	err := r.db.GetContext(ctx, &renewal,
		renewalSelect+"WHERE n.id = $1 AND n.tenant_id = $2 AND n.deleted_at IS NULL"+
			" AND r.deleted_at IS NULL AND p.deleted_at IS NULL", id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("renewalRepo.GetByID: %w", err)
	}
	return &renewal, nil
}

func (r *renewalRepo) List(ctx context.Context, tenantID uuid.UUID, f domain.RenewalFilter) ([]domain.Renewal, int, error) {
	w := newWhere("n.tenant_id = $%d", tenantID)
	w.andRaw("n.deleted_at IS NULL")
	w.andRaw("r.deleted_at IS NULL")
	w.andRaw("p.deleted_at IS NULL")
	if f.RegistrationID != nil {
		w.and("n.registration_id = $%d", *f.RegistrationID)
	}
	if f.Status != "" {
		w.and("n.status = $%d", f.Status)
	}
	if f.DueBefore != nil {
		w.and("n.due_date <= $%d", *f.DueBefore)
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM renewals n JOIN registrations r ON r.id = n.registration_id "+
			"JOIN products p ON p.id = r.product_id "+w.sql, w.args...); err != nil {
		return nil, 0, fmt.Errorf("renewalRepo.List count: %w", err)
	}

	offset, limit := clampPage(f.Offset, f.Limit)
	suffix, args := w.page(offset, limit)
	var renewals []domain.Renewal
	if err := r.db.SelectContext(ctx, &renewals,
		renewalSelect+w.sql+" ORDER BY n.due_date ASC"+suffix, args...); err != nil {
		return nil, 0, fmt.Errorf("renewalRepo.List: %w", err)
	}
	return renewals, total, nil
}

func (r *renewalRepo) Update(ctx context.Context, renewal *domain.Renewal) error {
	return updateRenewal(ctx, r.db, renewal)
}

func (r *renewalRepo) UpdateAndExtendRegistration(ctx context.Context, renewal *domain.Renewal, reg *domain.Registration) error {
	return withTx(ctx, r.db, "renewalRepo.UpdateAndExtendRegistration", func(tx *sqlx.Tx) error {
		if err := updateRenewal(ctx, tx, renewal); err != nil {
			return err
		}
		return updateRegistration(ctx, tx, reg)
	})
}

func (r *renewalRepo) SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error {
	return softDelete(ctx, r.db, domain.EntityRenewal, tenantID, id, deletedBy)
}

func insertRenewal(ctx context.Context, db sqlx.ExecerContext, renewal *domain.Renewal) error {
	renewal.ID = uuid.New()
	now := time.Now().UTC()
	renewal.CreatedAt = now
	renewal.UpdatedAt = now

	_, err := db.ExecContext(ctx,
		`INSERT INTO renewals (id, tenant_id, registration_id, due_date, submission_date, approval_date,
			new_expiry_date, status, notes, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		renewal.ID, renewal.TenantID, renewal.RegistrationID, renewal.DueDate, renewal.SubmissionDate,
		renewal.ApprovalDate, renewal.NewExpiryDate, renewal.Status, renewal.Notes, renewal.CreatedBy,
		renewal.CreatedAt, renewal.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("renewalRepo.Create: %w", err)
	}
	return nil
}

func updateRenewal(ctx context.Context, db sqlx.ExecerContext, renewal *domain.Renewal) error {
	renewal.UpdatedAt = time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`UPDATE renewals SET due_date = $1, submission_date = $2, approval_date = $3,
			new_expiry_date = $4, status = $5, notes = $6, updated_at = $7
		 WHERE id = $8 AND tenant_id = $9 AND deleted_at IS NULL`,
		renewal.DueDate, renewal.SubmissionDate, renewal.ApprovalDate,
		renewal.NewExpiryDate, renewal.Status, renewal.Notes, renewal.UpdatedAt,
		renewal.ID, renewal.TenantID)
	if err != nil {
		return fmt.Errorf("renewalRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
