package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
	"regtrack/internal/service"
)

// MockVariationService is a mock implementation of service.VariationService.
type MockVariationService struct {
	mock.Mock
}

func (m *MockVariationService) Create(ctx context.Context, tenantID, userID uuid.UUID, input service.CreateVariationInput) (*domain.Variation, error) {
	args := m.Called(ctx, tenantID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Variation), args.Error(1)
}

func (m *MockVariationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Variation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Variation), args.Error(1)
}

func (m *MockVariationService) List(ctx context.Context, tenantID uuid.UUID, filter domain.VariationFilter) ([]domain.Variation, int, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Variation), args.Int(1), args.Error(2)
}

func (m *MockVariationService) Update(ctx context.Context, tenantID, id uuid.UUID, input service.UpdateVariationInput) (*domain.Variation, error) {
	args := m.Called(ctx, tenantID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Variation), args.Error(1)
}

func (m *MockVariationService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, input service.VariationStatusInput) (*domain.Variation, error) {
	args := m.Called(ctx, tenantID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Variation), args.Error(1)
}

func (m *MockVariationService) Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error {
	args := m.Called(ctx, tenantID, id, userID)
	return args.Error(0)
}
