package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

const passwordHashCost = 12

// CreateUserInput is the DTO for creating a user.
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"full_name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required"`

	// PlatformAdmin is never bound from a request body.
	PlatformAdmin bool `json:"-"`
}

// UpdateUserInput is the DTO for updating a user.
type UpdateUserInput struct {
	Email    *string          `json:"email" binding:"omitempty,email"`
	FullName *string          `json:"full_name"`
	Role     *domain.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
	Password *string          `json:"password" binding:"omitempty,min=8"`
}

// UserService manages the users of one company. Every company keeps at
// least one active admin.
type UserService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.UserFilter) ([]domain.User, int, error)
	Update(ctx context.Context, tenantID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, tenantID, userID uuid.UUID) error
}

type userService struct {
	repo port.UserRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*domain.User, error) {
	if !domain.ValidUserRoles[input.Role] {
		return nil, domain.ErrInvalidRole
	}
	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		TenantID:     tenantID,
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         input.Role,
		IsActive:     true,
		// Set by the bootstrap command only.
		IsPlatformAdmin: input.PlatformAdmin,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, tenantID, userID)
}

func (s *userService) List(ctx context.Context, tenantID uuid.UUID, filter domain.UserFilter) ([]domain.User, int, error) {
	if filter.Role != "" && !domain.ValidUserRoles[filter.Role] {
		return nil, 0, domain.ErrInvalidRole
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, tenantID, filter)
}

func (s *userService) Update(ctx context.Context, tenantID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	if input.Role != nil && !domain.ValidUserRoles[*input.Role] {
		return nil, domain.ErrInvalidRole
	}
	user, err := s.repo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	losesAdmin := (input.Role != nil && *input.Role != domain.RoleAdmin) ||
		(input.IsActive != nil && !*input.IsActive)
	if losesAdmin {
		if err := s.ensureOtherAdmin(ctx, user); err != nil {
			return nil, err
		}
	}

	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		if user.PasswordHash, err = hashPassword(*input.Password); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	user, err := s.repo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if err := s.ensureOtherAdmin(ctx, user); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, userID)
}

// ensureOtherAdmin returns ErrLastAdmin when user is the company's only
// active admin.
func (s *userService) ensureOtherAdmin(ctx context.Context, user *domain.User) error {
	if user.Role != domain.RoleAdmin || !user.IsActive {
		return nil
	}
	others, err := s.repo.CountActiveAdmins(ctx, user.TenantID, user.ID)
	if err != nil {
		return err
	}
	if others == 0 {
		return domain.ErrLastAdmin
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
