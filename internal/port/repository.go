package port

import (
	"context"

	"github.com/google/uuid"

	"regtrack/internal/domain"
)

// CompanyRepository defines the contract for company (tenant) persistence.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Company, error)
	List(ctx context.Context, offset, limit int) ([]domain.Company, int, error)
	Update(ctx context.Context, company *domain.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the contract for user persistence.
// All query methods include tenantID to enforce tenant isolation at the data layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.UserFilter) ([]domain.User, int, error)
	// CountActiveAdmins counts active admins, excluding excludeID when set.
	CountActiveAdmins(ctx context.Context, tenantID, excludeID uuid.UUID) (int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, tenantID, userID uuid.UUID) error
}

// OTPRepository persists login one-time-code challenges.
type OTPRepository interface {
	Create(ctx context.Context, challenge *domain.OTPChallenge) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.OTPChallenge, error)
	// ReserveAttempt counts one verification attempt and returns the new
	// total. It returns ErrNotFound when the challenge is consumed, expired
	// or out of attempts.
	ReserveAttempt(ctx context.Context, id uuid.UUID) (int, error)
	Consume(ctx context.Context, id uuid.UUID) error
	// ReplaceCode swaps in a new code for a live challenge that has been
	// resent fewer than maxResends times. Attempts carry over. It returns
	// ErrNotFound when no such challenge exists.
	ReplaceCode(ctx context.Context, challenge *domain.OTPChallenge, maxResends int) error
}
