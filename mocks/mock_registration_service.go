package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
	"regtrack/internal/service"
)

// MockRegistrationService is a mock implementation of service.RegistrationService.
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) Create(ctx context.Context, tenantID, userID uuid.UUID, input service.CreateRegistrationInput) (*domain.Registration, error) {
	args := m.Called(ctx, tenantID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Registration, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationService) List(ctx context.Context, tenantID uuid.UUID, filter domain.RegistrationFilter) ([]domain.Registration, int, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Registration), args.Int(1), args.Error(2)
}

func (m *MockRegistrationService) Update(ctx context.Context, tenantID, id uuid.UUID, input service.UpdateRegistrationInput) (*domain.Registration, error) {
	args := m.Called(ctx, tenantID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationService) ChangeStatus(ctx context.Context, tenantID, id, userID uuid.UUID, input service.RegistrationStatusInput) (*domain.Registration, error) {
	args := m.Called(ctx, tenantID, id, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationService) Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error {
	args := m.Called(ctx, tenantID, id, userID)
	return args.Error(0)
}

func (m *MockRegistrationService) History(ctx context.Context, tenantID, id uuid.UUID, page domain.Page) ([]domain.RegistrationStatusChange, int, error) {
	args := m.Called(ctx, tenantID, id, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RegistrationStatusChange), args.Int(1), args.Error(2)
}
