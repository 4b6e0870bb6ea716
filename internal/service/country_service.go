package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// CountryInput is the DTO for creating a country.
type CountryInput struct {
	Name                string `json:"name" binding:"required"`
	Code                string `json:"code" binding:"required"`
	Region              string `json:"region"`
	RegulatoryAuthority string `json:"regulatory_authority"`
}

// UpdateCountryInput is the DTO for updating a country.
type UpdateCountryInput struct {
	Name                *string `json:"name"`
	Code                *string `json:"code"`
	Region              *string `json:"region"`
	RegulatoryAuthority *string `json:"regulatory_authority"`
}

// CountryService defines the country management contract.
type CountryService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CountryInput) (*domain.Country, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Country, error)
	List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Country, int, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateCountryInput) (*domain.Country, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type countryService struct {
	repo port.CountryRepository
}

// NewCountryService creates a new CountryService implementation.
func NewCountryService(repo port.CountryRepository) CountryService {
	return &countryService{repo: repo}
}

// NormalizeCountryCode upper-cases an ISO 3166-1 alpha-2 code and checks
// that it is two ASCII letters.
func NormalizeCountryCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return "", domain.ErrInvalidCountryCode
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", domain.ErrInvalidCountryCode
		}
	}
	return code, nil
}

func (s *countryService) Create(ctx context.Context, tenantID uuid.UUID, input CountryInput) (*domain.Country, error) {
	code, err := NormalizeCountryCode(input.Code)
	if err != nil {
		return nil, err
	}
	country := &domain.Country{
		TenantID:            tenantID,
		Name:                strings.TrimSpace(input.Name),
		Code:                code,
		Region:              input.Region,
		RegulatoryAuthority: input.RegulatoryAuthority,
	}
	if err := s.repo.Create(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}

func (s *countryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Country, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

func (s *countryService) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Country, int, error) {
	return s.repo.List(ctx, tenantID, strings.TrimSpace(search), offset, limit)
}

func (s *countryService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateCountryInput) (*domain.Country, error) {
	country, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		country.Name = strings.TrimSpace(*input.Name)
	}
	if input.Code != nil {
		code, err := NormalizeCountryCode(*input.Code)
		if err != nil {
			return nil, err
		}
		country.Code = code
	}
	if input.Region != nil {
		country.Region = *input.Region
	}
	if input.RegulatoryAuthority != nil {
		country.RegulatoryAuthority = *input.RegulatoryAuthority
	}

	if err := s.repo.Update(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}

func (s *countryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}
