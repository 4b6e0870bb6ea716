package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
)

// MockRenewalRepo is a mock implementation of port.RenewalRepository.
type MockRenewalRepo struct {
	mock.Mock
}

func (m *MockRenewalRepo) Create(ctx context.Context, renewal *domain.Renewal) error {
	args := m.Called(ctx, renewal)
	return args.Error(0)
}

func (m *MockRenewalRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Renewal, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renewal), args.Error(1)
}

func (m *MockRenewalRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.RenewalFilter) ([]domain.Renewal, int, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Renewal), args.Int(1), args.Error(2)
}

func (m *MockRenewalRepo) Update(ctx context.Context, renewal *domain.Renewal) error {
	args := m.Called(ctx, renewal)
	return args.Error(0)
}

func (m *MockRenewalRepo) UpdateAndExtendRegistration(ctx context.Context, renewal *domain.Renewal, reg *domain.Registration) error {
	args := m.Called(ctx, renewal, reg)
	return args.Error(0)
}

func (m *MockRenewalRepo) SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error {
	args := m.Called(ctx, tenantID, id, deletedBy)
	return args.Error(0)
}
