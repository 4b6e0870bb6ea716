package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
	"regtrack/internal/service"
)

// MockRenewalService is a mock implementation of service.RenewalService.
type MockRenewalService struct {
	mock.Mock
}

func (m *MockRenewalService) Create(ctx context.Context, tenantID, userID uuid.UUID, input service.CreateRenewalInput) (*domain.Renewal, error) {
	args := m.Called(ctx, tenantID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renewal), args.Error(1)
}

func (m *MockRenewalService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Renewal, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renewal), args.Error(1)
}

func (m *MockRenewalService) List(ctx context.Context, tenantID uuid.UUID, filter domain.RenewalFilter) ([]domain.Renewal, int, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Renewal), args.Int(1), args.Error(2)
}

func (m *MockRenewalService) ListDue(ctx context.Context, tenantID uuid.UUID, withinDays int, page domain.Page) ([]domain.Renewal, int, error) {
	args := m.Called(ctx, tenantID, withinDays, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Renewal), args.Int(1), args.Error(2)
}

func (m *MockRenewalService) Update(ctx context.Context, tenantID, id uuid.UUID, input service.UpdateRenewalInput) (*domain.Renewal, error) {
	args := m.Called(ctx, tenantID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renewal), args.Error(1)
}

func (m *MockRenewalService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, input service.RenewalStatusInput) (*domain.Renewal, error) {
	args := m.Called(ctx, tenantID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renewal), args.Error(1)
}

func (m *MockRenewalService) Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error {
	args := m.Called(ctx, tenantID, id, userID)
	return args.Error(0)
}
