package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"regtrack/internal/domain"
	"regtrack/internal/service"
	"regtrack/mocks"
)

func TestUploadWorker_ProcessesClaimedJobsAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	uploadRepo := new(mocks.MockUploadRepo)
	uploads := new(mocks.MockUploadService)

	job := domain.UploadJob{ID: uuid.New(), SessionID: uuid.New(), Status: domain.UploadJobRunning, Attempts: 1}
	processed := make(chan uuid.UUID, 1)

	uploadRepo.On("ClaimQueuedJobs", mock.Anything, mock.AnythingOfType("int")).Return([]domain.UploadJob{job}, nil).Once()
	uploadRepo.On("ClaimQueuedJobs", mock.Anything, mock.AnythingOfType("int")).Return([]domain.UploadJob{}, nil)
	uploads.On("ProcessJob", mock.Anything, mock.AnythingOfType("*domain.UploadJob")).Run(func(args mock.Arguments) {
		processed <- args.Get(1).(*domain.UploadJob).ID
	}).Return()

	w := service.NewUploadWorker(uploadRepo, uploads, service.UploadWorkerConfig{
		PollInterval: 5 * time.Millisecond,
		Concurrency:  2,
		JobTimeout:   time.Second,
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case id := <-processed:
		assert.Equal(t, job.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	uploads.AssertNumberOfCalls(t, "ProcessJob", 1)
}

func TestUploadWorker_WaitsForInFlightJobOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	uploadRepo := new(mocks.MockUploadRepo)
	uploads := new(mocks.MockUploadService)

	started := make(chan struct{})
	release := make(chan struct{})
	var finished bool

	uploadRepo.On("ClaimQueuedJobs", mock.Anything, mock.Anything).Return([]domain.UploadJob{{ID: uuid.New()}}, nil).Once()
	uploadRepo.On("ClaimQueuedJobs", mock.Anything, mock.Anything).Return([]domain.UploadJob{}, nil)
	uploads.On("ProcessJob", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		jobCtx := args.Get(0).(context.Context)
		close(started)
		<-release
		// The job context is independent of the worker context.
		assert.NoError(t, jobCtx.Err())
		finished = true
	}).Return()

	w := service.NewUploadWorker(uploadRepo, uploads, service.UploadWorkerConfig{
		PollInterval: 5 * time.Millisecond,
		Concurrency:  1,
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	<-started
	cancel()

	select {
	case <-done:
		t.Fatal("worker returned before the in-flight job finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-done
	assert.True(t, finished)
}

func TestUploadWorker_ClaimErrorKeepsPolling(t *testing.T) {
	defer goleak.VerifyNone(t)

	uploadRepo := new(mocks.MockUploadRepo)
	uploads := new(mocks.MockUploadService)

	polled := make(chan struct{}, 10)
	uploadRepo.On("ClaimQueuedJobs", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Run(func(mock.Arguments) {
		select {
		case polled <- struct{}{}:
		default:
		}
	})

	w := service.NewUploadWorker(uploadRepo, uploads, service.UploadWorkerConfig{
		PollInterval: 5 * time.Millisecond,
		Concurrency:  1,
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-polled:
		case <-time.After(2 * time.Second):
			t.Fatal("worker stopped polling after an error")
		}
	}
	cancel()
	<-done
	uploads.AssertNotCalled(t, "ProcessJob", mock.Anything, mock.Anything)
}

func TestSweeper_Sweep(t *testing.T) {
	uploads := new(mocks.MockUploadService)
	recycle := new(mocks.MockRecycleService)

	uploads.On("AbortExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(2, nil)
	uploads.On("ReclaimStalledJobs", mock.Anything, mock.AnythingOfType("time.Time")).Return(1, nil)
	recycle.On("PurgeExpired", mock.Anything).Return(int64(0), errors.New("db down"))

	s := service.NewSweeper(uploads, recycle, time.Hour, zap.NewNop())
	s.Sweep(context.Background())

	uploads.AssertExpectations(t)
	recycle.AssertExpectations(t)
}

func TestSweeper_StartStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	uploads := new(mocks.MockUploadService)
	recycle := new(mocks.MockRecycleService)

	swept := make(chan struct{}, 1)
	uploads.On("AbortExpired", mock.Anything, mock.Anything).Return(0, nil)
	uploads.On("ReclaimStalledJobs", mock.Anything, mock.Anything).Return(0, nil)
	recycle.On("PurgeExpired", mock.Anything).Return(int64(0), nil).Run(func(mock.Arguments) {
		select {
		case swept <- struct{}{}:
		default:
		}
	})

	s := service.NewSweeper(uploads, recycle, time.Hour, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	<-swept
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
