package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
)

// MockVariationRepo is a mock implementation of port.VariationRepository.
type MockVariationRepo struct {
	mock.Mock
}

func (m *MockVariationRepo) Create(ctx context.Context, variation *domain.Variation) error {
	args := m.Called(ctx, variation)
	return args.Error(0)
}

func (m *MockVariationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Variation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Variation), args.Error(1)
}

func (m *MockVariationRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.VariationFilter) ([]domain.Variation, int, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Variation), args.Int(1), args.Error(2)
}

func (m *MockVariationRepo) Update(ctx context.Context, variation *domain.Variation) error {
	args := m.Called(ctx, variation)
	return args.Error(0)
}

func (m *MockVariationRepo) SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error {
	args := m.Called(ctx, tenantID, id, deletedBy)
	return args.Error(0)
}
