package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
	"regtrack/internal/service"
)

// MockCountryService is a mock implementation of service.CountryService.
type MockCountryService struct {
	mock.Mock
}

func (m *MockCountryService) Create(ctx context.Context, tenantID uuid.UUID, input service.CountryInput) (*domain.Country, error) {
	args := m.Called(ctx, tenantID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Country), args.Error(1)
}

func (m *MockCountryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Country, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Country), args.Error(1)
}

func (m *MockCountryService) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Country, int, error) {
	args := m.Called(ctx, tenantID, search, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Country), args.Int(1), args.Error(2)
}

func (m *MockCountryService) Update(ctx context.Context, tenantID, id uuid.UUID, input service.UpdateCountryInput) (*domain.Country, error) {
	args := m.Called(ctx, tenantID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Country), args.Error(1)
}

func (m *MockCountryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}
