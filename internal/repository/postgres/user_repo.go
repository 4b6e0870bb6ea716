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

const userColumns = `id, tenant_id, email, password_hash, full_name, role, is_active, is_platform_admin, created_at, updated_at`

type userRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new PostgreSQL-backed UserRepository.
func NewUserRepo(db *sqlx.DB) port.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (:id, :tenant_id, :email, :password_hash, :full_name, :role, :is_active, :is_platform_admin, :created_at, :updated_at)`,
		user)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, "userRepo.GetByID",
		"SELECT "+userColumns+" FROM users WHERE id = $1 AND tenant_id = $2", userID, tenantID)
}

func (r *userRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error) {
	return r.getOne(ctx, "userRepo.GetByEmail",
		"SELECT "+userColumns+" FROM users WHERE tenant_id = $1 AND lower(email) = lower($2)", tenantID, email)
}

func (r *userRepo) getOne(ctx context.Context, op, query string, args ...interface{}) (*domain.User, error) {
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.UserFilter) ([]domain.User, int, error) {
	w := newWhere("tenant_id = $%d", tenantID)
	if filter.Role != "" {
		w.and("role = $%d", filter.Role)
	}
	if filter.IsActive != nil {
		w.and("is_active = $%d", *filter.IsActive)
	}
	if filter.Search != "" {
		w.and("(full_name ILIKE $%[1]d OR email ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users "+w.sql, w.args...); err != nil {
		return nil, 0, fmt.Errorf("userRepo.List count: %w", err)
	}

	offset, limit := clampPage(filter.Offset, filter.Limit)
	suffix, args := w.page(offset, limit)
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users,
		"SELECT "+userColumns+" FROM users "+w.sql+" ORDER BY full_name, email"+suffix, args...); err != nil {
		return nil, 0, fmt.Errorf("userRepo.List: %w", err)
	}
	return users, total, nil
}

func (r *userRepo) CountActiveAdmins(ctx context.Context, tenantID, excludeID uuid.UUID) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM users
		 WHERE tenant_id = $1 AND role = $2 AND is_active AND id <> $3`,
		tenantID, domain.RoleAdmin, excludeID)
	if err != nil {
		return 0, fmt.Errorf("userRepo.CountActiveAdmins: %w", err)
	}
	return n, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	result, err := r.db.NamedExecContext(ctx,
		`UPDATE users SET email = :email, password_hash = :password_hash, full_name = :full_name,
		 role = :role, is_active = :is_active, updated_at = :updated_at
		 WHERE id = :id AND tenant_id = :tenant_id`,
		user)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("userRepo.Update: %w", err)
	}
	return expectOneRow(result)
}

func (r *userRepo) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM users WHERE id = $1 AND tenant_id = $2", userID, tenantID)
	if err != nil {
		return fmt.Errorf("userRepo.Delete: %w", err)
	}
	return expectOneRow(result)
}
