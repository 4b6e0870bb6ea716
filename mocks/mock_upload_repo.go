package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
)

// MockUploadRepo is a mock implementation of port.UploadRepository.
type MockUploadRepo struct {
	mock.Mock
}

func (m *MockUploadRepo) CreateSession(ctx context.Context, session *domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUploadRepo) GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadRepo) TransitionSession(ctx context.Context, sessionID uuid.UUID, from []domain.UploadSessionStatus, to domain.UploadSessionStatus) error {
	args := m.Called(ctx, sessionID, from, to)
	return args.Error(0)
}

func (m *MockUploadRepo) ListExpiredSessions(ctx context.Context, now time.Time, limit int) ([]domain.UploadSession, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UploadSession), args.Error(1)
}

func (m *MockUploadRepo) UpsertPart(ctx context.Context, part *domain.UploadPart) error {
	args := m.Called(ctx, part)
	return args.Error(0)
}

func (m *MockUploadRepo) ListParts(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadPart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UploadPart), args.Error(1)
}

func (m *MockUploadRepo) EnqueueCompletion(ctx context.Context, session *domain.UploadSession, parts []domain.UploadPart) (*domain.UploadJob, error) {
	args := m.Called(ctx, session, parts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadJob), args.Error(1)
}

func (m *MockUploadRepo) GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*domain.UploadJob, error) {
	args := m.Called(ctx, tenantID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadJob), args.Error(1)
}

func (m *MockUploadRepo) GetJobBySession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.UploadJob, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadJob), args.Error(1)
}

func (m *MockUploadRepo) ClaimQueuedJobs(ctx context.Context, limit int) ([]domain.UploadJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UploadJob), args.Error(1)
}

func (m *MockUploadRepo) FinishJob(ctx context.Context, job *domain.UploadJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockUploadRepo) ListStalledJobs(ctx context.Context, startedBefore time.Time, limit int) ([]domain.UploadJob, error) {
	args := m.Called(ctx, startedBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UploadJob), args.Error(1)
}

func (m *MockUploadRepo) RequeueJob(ctx context.Context, job *domain.UploadJob, lastError string) error {
	args := m.Called(ctx, job, lastError)
	return args.Error(0)
}
