package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"regtrack/internal/port"
)

// UploadWorkerConfig holds settings for the upload completion worker.
type UploadWorkerConfig struct {
	PollInterval time.Duration
	Concurrency  int
	JobTimeout   time.Duration
}

// UploadWorker polls for queued completion jobs and finishes them.
type UploadWorker struct {
	uploadRepo port.UploadRepository
	uploads    UploadService
	cfg        UploadWorkerConfig
	log        *zap.Logger
	wg         sync.WaitGroup
}

// NewUploadWorker creates a new UploadWorker.
func NewUploadWorker(uploadRepo port.UploadRepository, uploads UploadService, cfg UploadWorkerConfig, log *zap.Logger) *UploadWorker {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}
	return &UploadWorker{
		uploadRepo: uploadRepo,
		uploads:    uploads,
		cfg:        cfg,
		log:        log.Named("upload_worker"),
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight jobs have finished.
func (w *UploadWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	w.log.Info("started",
		zap.Duration("poll", w.cfg.PollInterval), zap.Int("concurrency", w.cfg.Concurrency))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("shutting down, waiting for in-flight jobs")
			w.wg.Wait()
			w.log.Info("shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			jobs, err := w.uploadRepo.ClaimQueuedJobs(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				w.log.Error("claiming jobs failed", zap.Error(err))
				continue
			}

			for i := range jobs {
				job := jobs[i]

				sem <- struct{}{}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()

					// In-flight jobs outlive the poll context so shutdown
					// never leaves a claimed job half done.
					jobCtx, cancel := context.WithTimeout(context.Background(), w.cfg.JobTimeout)
					defer cancel()

					w.uploads.ProcessJob(jobCtx, &job)
				}()
			}
		}
	}
}
