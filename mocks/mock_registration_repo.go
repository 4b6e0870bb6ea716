package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
)

// MockRegistrationRepo is a mock implementation of port.RegistrationRepository.
type MockRegistrationRepo struct {
	mock.Mock
}

func (m *MockRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockRegistrationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Registration, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.RegistrationFilter) ([]domain.Registration, int, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Registration), args.Int(1), args.Error(2)
}

func (m *MockRegistrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockRegistrationRepo) UpdateAndScheduleRenewal(ctx context.Context, reg *domain.Registration, renewal *domain.Renewal) error {
	args := m.Called(ctx, reg, renewal)
	return args.Error(0)
}

func (m *MockRegistrationRepo) SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error {
	args := m.Called(ctx, tenantID, id, deletedBy)
	return args.Error(0)
}
