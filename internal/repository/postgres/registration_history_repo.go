package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

type registrationHistoryRepo struct {
	db *sqlx.DB
}

// NewRegistrationHistoryRepo creates a new PostgreSQL-backed RegistrationHistoryRepository.
func NewRegistrationHistoryRepo(db *sqlx.DB) port.RegistrationHistoryRepository {
	return &registrationHistoryRepo{db: db}
}

func (r *registrationHistoryRepo) Create(ctx context.Context, entry *domain.RegistrationStatusChange) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO registration_status_history
		 (id, tenant_id, registration_id, from_status, to_status, changed_by, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.TenantID, entry.RegistrationID, entry.FromStatus, entry.ToStatus,
		entry.ChangedBy, entry.Notes, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("registrationHistoryRepo.Create: %w", err)
	}
	return nil
}

func (r *registrationHistoryRepo) ListByRegistration(ctx context.Context, tenantID, registrationID uuid.UUID, offset, limit int) ([]domain.RegistrationStatusChange, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM registration_status_history WHERE tenant_id = $1 AND registration_id = $2`,
		tenantID, registrationID)
	if err != nil {
		return nil, 0, fmt.Errorf("registrationHistoryRepo.ListByRegistration count: %w", err)
	}

	entries := []domain.RegistrationStatusChange{}
	err = r.db.SelectContext(ctx, &entries,
		`SELECT * FROM registration_status_history
		 WHERE tenant_id = $1 AND registration_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		tenantID, registrationID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("registrationHistoryRepo.ListByRegistration: %w", err)
	}
	return entries, total, nil
}
