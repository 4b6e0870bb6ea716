package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// RecycleService manages soft-deleted records.
type RecycleService interface {
	List(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, offset, limit int) ([]domain.RecycleItem, int, error)
	Restore(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error
	Purge(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type recycleService struct {
	repo      port.RecycleRepository
	retention time.Duration
	now       func() time.Time
}

// NewRecycleService creates a new RecycleService implementation.
func NewRecycleService(repo port.RecycleRepository, retention time.Duration) RecycleService {
	return &recycleService{repo: repo, retention: retention, now: time.Now}
}

func checkRecyclable(entityType domain.EntityType) error {
	if !domain.RecyclableEntities[entityType] {
		return domain.ErrInvalidEntityType
	}
	return nil
}

func (s *recycleService) List(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, offset, limit int) ([]domain.RecycleItem, int, error) {
	if entityType != "" {
		if err := checkRecyclable(entityType); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(ctx, tenantID, entityType, offset, limit)
}

func (s *recycleService) Restore(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error {
	if err := checkRecyclable(entityType); err != nil {
		return err
	}
	parentDeleted, err := s.repo.ParentDeleted(ctx, tenantID, entityType, id)
	if err != nil {
		return err
	}
	if parentDeleted {
		return domain.ErrParentDeleted
	}
	return s.repo.Restore(ctx, tenantID, entityType, id)
}

func (s *recycleService) Purge(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error {
	if err := checkRecyclable(entityType); err != nil {
		return err
	}
	live, err := s.repo.HasLiveChildren(ctx, tenantID, entityType, id)
	if err != nil {
		return err
	}
	if live {
		return domain.ErrHasLiveChildren
	}
	return s.repo.Purge(ctx, tenantID, entityType, id)
}

// PurgeExpired hard-deletes everything deleted longer than the retention.
// A zero retention disables the sweep.
func (s *recycleService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	return s.repo.PurgeDeletedBefore(ctx, s.now().UTC().Add(-s.retention))
}
