package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/domain"
	"regtrack/internal/service"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Initiate(ctx context.Context, tenantID, userID uuid.UUID, input service.InitiateUploadInput) (*service.InitiateUploadOutput, error) {
	args := m.Called(ctx, tenantID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InitiateUploadOutput), args.Error(1)
}

func (m *MockUploadService) GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockUploadService) PartURL(ctx context.Context, tenantID, sessionID uuid.UUID, partNumber int) (*service.PartURLOutput, error) {
	args := m.Called(ctx, tenantID, sessionID, partNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PartURLOutput), args.Error(1)
}

func (m *MockUploadService) RecordPart(ctx context.Context, tenantID, sessionID uuid.UUID, input service.PartInput) error {
	args := m.Called(ctx, tenantID, sessionID, input)
	return args.Error(0)
}

func (m *MockUploadService) Complete(ctx context.Context, tenantID, sessionID uuid.UUID, input service.CompleteUploadInput) (*domain.UploadJob, error) {
	args := m.Called(ctx, tenantID, sessionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadJob), args.Error(1)
}

func (m *MockUploadService) Abort(ctx context.Context, tenantID, sessionID uuid.UUID) error {
	args := m.Called(ctx, tenantID, sessionID)
	return args.Error(0)
}

func (m *MockUploadService) JobStatus(ctx context.Context, tenantID, jobID uuid.UUID) (*domain.UploadJob, error) {
	args := m.Called(ctx, tenantID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadJob), args.Error(1)
}

func (m *MockUploadService) ObjectSize(ctx context.Context, tenantID, fileID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, fileID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUploadService) ProcessJob(ctx context.Context, job *domain.UploadJob) {
	m.Called(ctx, job)
}

func (m *MockUploadService) AbortExpired(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockUploadService) ReclaimStalledJobs(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}
