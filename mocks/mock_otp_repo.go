package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
)

// MockOTPRepo is a mock implementation of port.OTPRepository.
type MockOTPRepo struct {
	mock.Mock
}

func (m *MockOTPRepo) Create(ctx context.Context, challenge *domain.OTPChallenge) error {
	args := m.Called(ctx, challenge)
	return args.Error(0)
}

func (m *MockOTPRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.OTPChallenge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OTPChallenge), args.Error(1)
}

func (m *MockOTPRepo) ReserveAttempt(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockOTPRepo) Consume(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOTPRepo) ReplaceCode(ctx context.Context, challenge *domain.OTPChallenge, maxResends int) error {
	args := m.Called(ctx, challenge, maxResends)
	return args.Error(0)
}
