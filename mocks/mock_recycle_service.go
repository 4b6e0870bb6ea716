package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
)

// MockRecycleService is a mock implementation of service.RecycleService.
type MockRecycleService struct {
	mock.Mock
}

func (m *MockRecycleService) List(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, offset, limit int) ([]domain.RecycleItem, int, error) {
	args := m.Called(ctx, tenantID, entityType, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RecycleItem), args.Int(1), args.Error(2)
}

func (m *MockRecycleService) Restore(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, entityType, id)
	return args.Error(0)
}

func (m *MockRecycleService) Purge(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, entityType, id)
	return args.Error(0)
}

func (m *MockRecycleService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
