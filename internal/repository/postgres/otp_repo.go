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

type otpRepo struct {
	db *sqlx.DB
}

// NewOTPRepo creates a new PostgreSQL-backed OTPRepository.
func NewOTPRepo(db *sqlx.DB) port.OTPRepository {
	return &otpRepo{db: db}
}

func (r *otpRepo) Create(ctx context.Context, c *domain.OTPChallenge) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO otp_challenges (id, tenant_id, user_id, code_hash, attempts, max_attempts, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.TenantID, c.UserID, c.CodeHash, c.Attempts, c.MaxAttempts, c.ExpiresAt, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("otpRepo.Create: %w", err)
	}
	return nil
}

func (r *otpRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.OTPChallenge, error) {
	var c domain.OTPChallenge
	err := r.db.GetContext(ctx, &c, "SELECT * FROM otp_challenges WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("otpRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *otpRepo) ReserveAttempt(ctx context.Context, id uuid.UUID) (int, error) {
	var attempts int
	err := r.db.GetContext(ctx, &attempts,
		`UPDATE otp_challenges SET attempts = attempts + 1
		 WHERE id = $1 AND consumed_at IS NULL AND attempts < max_attempts AND expires_at > now()
		 RETURNING attempts`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("otpRepo.ReserveAttempt: %w", err)
	}
	return attempts, nil
}

// Consume marks the challenge used. It fails with ErrOTPInvalid if another
// request consumed it first.
func (r *otpRepo) Consume(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE otp_challenges SET consumed_at = $1 WHERE id = $2 AND consumed_at IS NULL",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("otpRepo.Consume: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrOTPInvalid
	}
	return nil
}

func (r *otpRepo) ReplaceCode(ctx context.Context, c *domain.OTPChallenge, maxResends int) error {
	err := r.db.GetContext(ctx, &c.Resends,
		`UPDATE otp_challenges SET code_hash = $1, expires_at = $2, resends = resends + 1
		 WHERE id = $3 AND consumed_at IS NULL AND attempts < max_attempts
		   AND expires_at > now() AND resends < $4
		 RETURNING resends`,
		c.CodeHash, c.ExpiresAt, c.ID, maxResends)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("otpRepo.ReplaceCode: %w", err)
	}
	return nil
}
