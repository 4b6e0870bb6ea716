package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
)

// MockRegistrationHistoryRepo is a mock implementation of port.RegistrationHistoryRepository.
type MockRegistrationHistoryRepo struct {
	mock.Mock
}

func (m *MockRegistrationHistoryRepo) Create(ctx context.Context, entry *domain.RegistrationStatusChange) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRegistrationHistoryRepo) ListByRegistration(ctx context.Context, tenantID, registrationID uuid.UUID, offset, limit int) ([]domain.RegistrationStatusChange, int, error) {
	args := m.Called(ctx, tenantID, registrationID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RegistrationStatusChange), args.Int(1), args.Error(2)
}
