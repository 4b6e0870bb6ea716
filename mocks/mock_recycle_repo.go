package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
)

// MockRecycleRepo is a mock implementation of port.RecycleRepository.
type MockRecycleRepo struct {
	mock.Mock
}

func (m *MockRecycleRepo) List(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, offset, limit int) ([]domain.RecycleItem, int, error) {
	args := m.Called(ctx, tenantID, entityType, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RecycleItem), args.Int(1), args.Error(2)
}

func (m *MockRecycleRepo) ParentDeleted(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, entityType, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecycleRepo) HasLiveChildren(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, entityType, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecycleRepo) Restore(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, entityType, id)
	return args.Error(0)
}

func (m *MockRecycleRepo) Purge(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, entityType, id)
	return args.Error(0)
}

func (m *MockRecycleRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
