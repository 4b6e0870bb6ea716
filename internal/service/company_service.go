package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// CreateCompanyInput is the DTO for creating a company.
type CreateCompanyInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// UpdateCompanyInput is the DTO for updating a company.
type UpdateCompanyInput struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	IsActive *bool   `json:"is_active"`
}

// CompanyService defines the company management contract.
type CompanyService interface {
	Create(ctx context.Context, input CreateCompanyInput) (*domain.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	List(ctx context.Context, offset, limit int) ([]domain.Company, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCompanyInput) (*domain.Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type companyService struct {
	repo port.CompanyRepository
}

// NewCompanyService creates a new CompanyService implementation.
func NewCompanyService(repo port.CompanyRepository) CompanyService {
	return &companyService{repo: repo}
}

func (s *companyService) Create(ctx context.Context, input CreateCompanyInput) (*domain.Company, error) {
	company := &domain.Company{
		Name:     strings.TrimSpace(input.Name),
		Slug:     strings.ToLower(strings.TrimSpace(input.Slug)),
		IsActive: true,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *companyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *companyService) List(ctx context.Context, offset, limit int) ([]domain.Company, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *companyService) Update(ctx context.Context, id uuid.UUID, input UpdateCompanyInput) (*domain.Company, error) {
	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		company.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		company.Slug = strings.ToLower(strings.TrimSpace(*input.Slug))
	}
	if input.IsActive != nil {
		company.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *companyService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
