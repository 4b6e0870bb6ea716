package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
)

// MockCountryRepo is a mock implementation of port.CountryRepository.
type MockCountryRepo struct {
	mock.Mock
}

func (m *MockCountryRepo) Create(ctx context.Context, country *domain.Country) error {
	args := m.Called(ctx, country)
	return args.Error(0)
}

func (m *MockCountryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Country, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Country), args.Error(1)
}

func (m *MockCountryRepo) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Country, int, error) {
	args := m.Called(ctx, tenantID, search, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Country), args.Int(1), args.Error(2)
}

func (m *MockCountryRepo) Update(ctx context.Context, country *domain.Country) error {
	args := m.Called(ctx, country)
	return args.Error(0)
}

func (m *MockCountryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}
