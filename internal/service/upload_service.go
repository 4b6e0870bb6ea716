package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"regtrack/internal/config"
	"regtrack/internal/domain"
	"regtrack/internal/port"
)

const (
	mib = 1024 * 1024
	// S3 rejects non-final parts under 5 MiB and uploads over 10000 parts.
	minPartSize  = 5 * mib
	maxPartCount = 10000

	// bookkeepingTimeout bounds the status writes after a job attempt.
	bookkeepingTimeout = 30 * time.Second
)

var (
	openSessionStates       = []domain.UploadSessionStatus{domain.UploadSessionInitiated, domain.UploadSessionUploading}
	completingSessionStates = []domain.UploadSessionStatus{domain.UploadSessionCompleting}

	errJobStalled = errors.New("job exceeded its timeout without finishing")
)

// InitiateUploadInput is the DTO for starting a multipart upload.
type InitiateUploadInput struct {
	FileName    string     `json:"file_name" binding:"required"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size" binding:"required,gt=0"`
	Entity      *EntityRef `json:"entity"`
}

// InitiateUploadOutput tells the client how to split the file.
type InitiateUploadOutput struct {
	SessionID uuid.UUID `json:"session_id"`
	FileID    uuid.UUID `json:"file_id"`
	Key       string    `json:"key"`
	PartSize  int64     `json:"part_size"`
	PartCount int       `json:"part_count"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PartURLOutput is a presigned URL for uploading one part.
type PartURLOutput struct {
	PartNumber int       `json:"part_number"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// PartInput reports one uploaded part.
type PartInput struct {
	PartNumber int    `json:"part_number" binding:"required,min=1"`
	ETag       string `json:"etag" binding:"required"`
	Size       int64  `json:"size"`
}

// CompleteUploadInput optionally carries the final part list.
type CompleteUploadInput struct {
	Parts []PartInput `json:"parts"`
}

// SessionView is a session with the parts recorded so far.
type SessionView struct {
	domain.UploadSession
	Parts []domain.UploadPart `json:"parts"`
	Job   *domain.UploadJob   `json:"job,omitempty"`
}

// UploadService defines the multipart upload pipeline.
type UploadService interface {
	Initiate(ctx context.Context, tenantID, userID uuid.UUID, input InitiateUploadInput) (*InitiateUploadOutput, error)
	GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error)
	PartURL(ctx context.Context, tenantID, sessionID uuid.UUID, partNumber int) (*PartURLOutput, error)
	RecordPart(ctx context.Context, tenantID, sessionID uuid.UUID, input PartInput) error
	Complete(ctx context.Context, tenantID, sessionID uuid.UUID, input CompleteUploadInput) (*domain.UploadJob, error)
	Abort(ctx context.Context, tenantID, sessionID uuid.UUID) error
	JobStatus(ctx context.Context, tenantID, jobID uuid.UUID) (*domain.UploadJob, error)
	ObjectSize(ctx context.Context, tenantID, fileID uuid.UUID) (int64, error)

	// ProcessJob finishes the multipart upload behind a claimed job.
	ProcessJob(ctx context.Context, job *domain.UploadJob)
	// AbortExpired aborts sessions that were never completed before expiry.
	AbortExpired(ctx context.Context, now time.Time) (int, error)
	// ReclaimStalledJobs requeues or fails running jobs whose worker is gone.
	ReclaimStalledJobs(ctx context.Context, now time.Time) (int, error)
}

type uploadService struct {
	uploadRepo port.UploadRepository
	fileRepo   port.FileMetaRepository
	storage    port.ObjectStorage
	linker     *entityLinker
	s3Cfg      *config.S3Config
	cfg        config.UploadConfig
	log        *zap.Logger
}

// NewUploadService creates a new UploadService implementation.
func NewUploadService(
	uploadRepo port.UploadRepository,
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	regRepo port.RegistrationRepository,
	renewalRepo port.RenewalRepository,
	variationRepo port.VariationRepository,
	s3Cfg *config.S3Config,
	cfg config.UploadConfig,
	log *zap.Logger,
) UploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		fileRepo:   fileRepo,
		storage:    storage,
		linker:     newEntityLinker(regRepo, renewalRepo, variationRepo),
		s3Cfg:      s3Cfg,
		cfg:        cfg,
		log:        log,
	}
}

// PlanParts picks the part size and count for an object of size bytes.
// The preferred size is used unless the upload would need more than 10000
// parts, in which case the part size grows in whole MiB.
func PlanParts(size, preferred int64) (partSize int64, partCount int) {
	partSize = preferred
	if partSize < minPartSize {
		partSize = minPartSize
	}
	if size > partSize*maxPartCount {
		partSize = (size + maxPartCount - 1) / maxPartCount
		partSize = (partSize + mib - 1) / mib * mib
	}
	partCount = int((size + partSize - 1) / partSize)
	if partCount < 1 {
		partCount = 1
	}
	return partSize, partCount
}

func (s *uploadService) Initiate(ctx context.Context, tenantID, userID uuid.UUID, input InitiateUploadInput) (*InitiateUploadOutput, error) {
	fileType, ext, err := fileTypeFor(input.FileName)
	if err != nil {
		return nil, err
	}
	if input.Size <= 0 || input.Size > s.s3Cfg.MaxMultipartSizeMB*mib {
		return nil, domain.ErrFileTooLarge
	}
	entityType, entityID, err := s.linker.resolve(ctx, tenantID, input.Entity)
	if err != nil {
		return nil, err
	}

	partSize, partCount := PlanParts(input.Size, s.s3Cfg.PartSizeMB*mib)
	contentType := domain.AllowedFileTypes[fileType]
	fileID := uuid.New()
	key := objectKey(tenantID, fileID, input.FileName)

	uploadID, err := s.storage.CreateMultipartUpload(ctx, s.s3Cfg.Bucket, key, contentType)
	if err != nil {
		s.log.Error("uploadService.Initiate: create multipart failed", zap.String("key", key), zap.Error(err))
		return nil, domain.ErrUploadFailed
	}

	meta := &domain.FileMeta{
		ID:           fileID,
		TenantID:     tenantID,
		UploadedBy:   userID,
		FileName:     fileID.String() + "." + ext,
		OriginalName: input.FileName,
		FileType:     fileType,
		FileSize:     input.Size,
		S3Bucket:     s.s3Cfg.Bucket,
		S3Key:        key,
		ContentType:  contentType,
		Status:       domain.FileStatusPending,
		EntityType:   entityType,
		EntityID:     entityID,
	}
	if err := s.fileRepo.Create(ctx, meta); err != nil {
		s.abortQuietly(meta.S3Bucket, key, uploadID)
		return nil, fmt.Errorf("creating file metadata: %w", err)
	}

	session := &domain.UploadSession{
		ID:           uuid.New(),
		TenantID:     tenantID,
		FileID:       fileID,
		CreatedBy:    userID,
		S3Bucket:     meta.S3Bucket,
		S3Key:        key,
		UploadID:     uploadID,
		ContentType:  contentType,
		DeclaredSize: input.Size,
		PartSize:     partSize,
		PartCount:    partCount,
		Status:       domain.UploadSessionInitiated,
		ExpiresAt:    time.Now().UTC().Add(s.cfg.SessionTTL),
	}
	if err := s.uploadRepo.CreateSession(ctx, session); err != nil {
		s.abortQuietly(meta.S3Bucket, key, uploadID)
		_ = s.fileRepo.UpdateStatus(ctx, tenantID, fileID, domain.FileStatusFailed)
		return nil, fmt.Errorf("creating upload session: %w", err)
	}

	s.log.Info("uploadService.Initiate: session created",
		zap.String("session_id", session.ID.String()),
		zap.String("file_id", fileID.String()),
		zap.Int64("size", input.Size),
		zap.Int64("part_size", partSize),
		zap.Int("part_count", partCount))

	return &InitiateUploadOutput{
		SessionID: session.ID,
		FileID:    fileID,
		Key:       key,
		PartSize:  partSize,
		PartCount: partCount,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *uploadService) GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error) {
	session, err := s.uploadRepo.GetSession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	parts, err := s.uploadRepo.ListParts(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := &SessionView{UploadSession: *session, Parts: parts}
	job, err := s.uploadRepo.GetJobBySession(ctx, tenantID, sessionID)
	switch {
	case err == nil:
		view.Job = job
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return view, nil
}

// openSession loads a session that still accepts parts.
func (s *uploadService) openSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.UploadSession, error) {
	session, err := s.uploadRepo.GetSession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.AcceptsParts() {
		return nil, domain.ErrUploadSessionClosed
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, domain.ErrUploadSessionExpired
	}
	return session, nil
}

func (s *uploadService) PartURL(ctx context.Context, tenantID, sessionID uuid.UUID, partNumber int) (*PartURLOutput, error) {
	session, err := s.openSession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if partNumber < 1 || partNumber > session.PartCount {
		return nil, domain.ErrInvalidPartNumber
	}

	// Fails if a concurrent Complete or Abort closed the session.
	if err := s.uploadRepo.TransitionSession(ctx, session.ID, openSessionStates, domain.UploadSessionUploading); err != nil {
		return nil, err
	}

	url, err := s.storage.PresignUploadPart(ctx, session.S3Bucket, session.S3Key, session.UploadID,
		int32(partNumber), s.s3Cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning part %d: %w", partNumber, err)
	}

	return &PartURLOutput{
		PartNumber: partNumber,
		URL:        url,
		ExpiresAt:  time.Now().UTC().Add(time.Duration(s.s3Cfg.PresignExpiry) * time.Second),
	}, nil
}

func (s *uploadService) RecordPart(ctx context.Context, tenantID, sessionID uuid.UUID, input PartInput) error {
	session, err := s.openSession(ctx, tenantID, sessionID)
	if err != nil {
		return err
	}
	if input.PartNumber < 1 || input.PartNumber > session.PartCount {
		return domain.ErrInvalidPartNumber
	}
	return s.uploadRepo.UpsertPart(ctx, &domain.UploadPart{
		SessionID:  session.ID,
		PartNumber: input.PartNumber,
		ETag:       input.ETag,
		Size:       input.Size,
	})
}

// MergeParts combines recorded parts with parts supplied at completion,
// preferring supplied etags, and checks that exactly parts 1..partCount are
// present. The result is sorted by part number.
func MergeParts(sessionID uuid.UUID, partCount int, recorded []domain.UploadPart, supplied []PartInput) ([]domain.UploadPart, error) {
	byNumber := make(map[int]domain.UploadPart, partCount)
	for _, p := range recorded {
		byNumber[p.PartNumber] = p
	}
	for _, p := range supplied {
		if p.PartNumber < 1 || p.PartNumber > partCount {
			return nil, domain.ErrInvalidPartNumber
		}
		byNumber[p.PartNumber] = domain.UploadPart{
			SessionID:  sessionID,
			PartNumber: p.PartNumber,
			ETag:       p.ETag,
			Size:       p.Size,
		}
	}

	var missing []int
	parts := make([]domain.UploadPart, 0, partCount)
	for n := 1; n <= partCount; n++ {
		p, ok := byNumber[n]
		if !ok || p.ETag == "" {
			missing = append(missing, n)
			continue
		}
		parts = append(parts, p)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrMissingParts, missing)
	}
	if len(byNumber) != partCount {
		return nil, domain.ErrInvalidPartNumber
	}
	return parts, nil
}

func (s *uploadService) Complete(ctx context.Context, tenantID, sessionID uuid.UUID, input CompleteUploadInput) (*domain.UploadJob, error) {
	session, err := s.uploadRepo.GetSession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	switch session.Status {
	case domain.UploadSessionCompleting, domain.UploadSessionCompleted:
		return s.uploadRepo.GetJobBySession(ctx, tenantID, sessionID)
	case domain.UploadSessionAborted, domain.UploadSessionFailed:
		return nil, domain.ErrUploadSessionClosed
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, domain.ErrUploadSessionExpired
	}

	recorded, err := s.uploadRepo.ListParts(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	parts, err := MergeParts(session.ID, session.PartCount, recorded, input.Parts)
	if err != nil {
		return nil, err
	}

	job, err := s.uploadRepo.EnqueueCompletion(ctx, session, parts)
	if err != nil {
		return nil, err
	}
	s.log.Info("uploadService.Complete: completion queued",
		zap.String("session_id", sessionID.String()), zap.String("job_id", job.ID.String()))
	return job, nil
}

func (s *uploadService) Abort(ctx context.Context, tenantID, sessionID uuid.UUID) error {
	session, err := s.uploadRepo.GetSession(ctx, tenantID, sessionID)
	if err != nil {
		return err
	}
	switch session.Status {
	case domain.UploadSessionAborted:
		return nil
	case domain.UploadSessionCompleting, domain.UploadSessionCompleted, domain.UploadSessionFailed:
		return domain.ErrUploadSessionClosed
	}

	err = s.abortSession(ctx, session)
	if errors.Is(err, domain.ErrUploadSessionClosed) {
		// Lost a race. Another abort still counts as success.
		if current, getErr := s.uploadRepo.GetSession(ctx, tenantID, sessionID); getErr == nil &&
			current.Status == domain.UploadSessionAborted {
			return nil
		}
	}
	return err
}

// abortSession closes an open session and then releases its multipart
// upload. The status write comes first so a session that reached
// completing is never aborted underneath its job.
func (s *uploadService) abortSession(ctx context.Context, session *domain.UploadSession) error {
	if err := s.uploadRepo.TransitionSession(ctx, session.ID, openSessionStates, domain.UploadSessionAborted); err != nil {
		return err
	}
	if err := s.storage.AbortMultipartUpload(ctx, session.S3Bucket, session.S3Key, session.UploadID); err != nil {
		s.log.Error("uploadService.Abort: releasing multipart upload failed",
			zap.String("session_id", session.ID.String()), zap.Error(err))
	}
	if err := s.fileRepo.UpdateStatus(ctx, session.TenantID, session.FileID, domain.FileStatusFailed); err != nil &&
		!errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.log.Info("uploadService.Abort: session aborted", zap.String("session_id", session.ID.String()))
	return nil
}

func (s *uploadService) JobStatus(ctx context.Context, tenantID, jobID uuid.UUID) (*domain.UploadJob, error) {
	return s.uploadRepo.GetJob(ctx, tenantID, jobID)
}

func (s *uploadService) ObjectSize(ctx context.Context, tenantID, fileID uuid.UUID) (int64, error) {
	meta, err := s.fileRepo.GetByID(ctx, tenantID, fileID)
	if err != nil {
		return 0, err
	}
	if meta.Status != domain.FileStatusUploaded {
		return 0, domain.ErrNotFound
	}
	return s.storage.HeadObjectSize(ctx, meta.S3Bucket, meta.S3Key)
}

func (s *uploadService) ProcessJob(ctx context.Context, job *domain.UploadJob) {
	logger := s.log.With(
		zap.String("job_id", job.ID.String()),
		zap.String("session_id", job.SessionID.String()),
		zap.Int("attempt", job.Attempts))

	session, err := s.uploadRepo.GetSession(ctx, job.TenantID, job.SessionID)
	if err != nil {
		s.failJob(ctx, logger, job, nil, err)
		return
	}

	size, err := s.assemble(ctx, session)
	if err != nil {
		s.failJob(ctx, logger, job, session, err)
		return
	}
	if size != session.DeclaredSize {
		logger.Warn("uploadService.ProcessJob: size differs from declared",
			zap.Int64("declared", session.DeclaredSize), zap.Int64("actual", size))
	}

	// The object is in place; record it even if the attempt ran out of time.
	bctx, cancel := detach(ctx)
	defer cancel()

	if err := s.fileRepo.MarkUploaded(bctx, job.TenantID, job.FileID, size); err != nil {
		s.failJob(bctx, logger, job, session, err)
		return
	}
	if err := s.uploadRepo.TransitionSession(bctx, session.ID, completingSessionStates, domain.UploadSessionCompleted); err != nil {
		s.failJob(bctx, logger, job, session, err)
		return
	}
	job.Status = domain.UploadJobSucceeded
	job.LastError = ""
	if err := s.uploadRepo.FinishJob(bctx, job); err != nil {
		logger.Error("uploadService.ProcessJob: finishing job failed", zap.Error(err))
		return
	}
	logger.Info("uploadService.ProcessJob: upload completed", zap.Int64("size", size))
}

// detach keeps the values of ctx but drops its deadline and cancellation,
// so an attempt that timed out can still record its outcome.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
}

// assemble completes the multipart upload and returns the object size. A
// retry after a completed upload finds the object already in place.
func (s *uploadService) assemble(ctx context.Context, session *domain.UploadSession) (int64, error) {
	if size, err := s.storage.HeadObjectSize(ctx, session.S3Bucket, session.S3Key); err == nil {
		return size, nil
	}

	parts, err := s.uploadRepo.ListParts(ctx, session.ID)
	if err != nil {
		return 0, err
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })
	completed := make([]port.CompletedPart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, port.CompletedPart{PartNumber: int32(p.PartNumber), ETag: p.ETag})
	}

	if err := s.storage.CompleteMultipartUpload(ctx, session.S3Bucket, session.S3Key, session.UploadID, completed); err != nil {
		return 0, err
	}
	return s.storage.HeadObjectSize(ctx, session.S3Bucket, session.S3Key)
}

// failJob requeues job or, once attempts are exhausted, fails it together
// with its session and file and releases the multipart upload. It returns
// the error of the requeue or finish write.
func (s *uploadService) failJob(ctx context.Context, logger *zap.Logger, job *domain.UploadJob, session *domain.UploadSession, cause error) error {
	ctx, cancel := detach(ctx)
	defer cancel()

	if job.Attempts < s.cfg.MaxAttempts {
		logger.Warn("uploadService.ProcessJob: attempt failed, requeueing", zap.Error(cause))
		if err := s.uploadRepo.RequeueJob(ctx, job, cause.Error()); err != nil {
			logger.Error("uploadService.ProcessJob: requeue failed", zap.Error(err))
			return err
		}
		return nil
	}

	logger.Error("uploadService.ProcessJob: giving up", zap.Error(cause))
	job.Status = domain.UploadJobFailed
	job.LastError = cause.Error()
	if err := s.uploadRepo.FinishJob(ctx, job); err != nil {
		// Another claim owns the job now and will settle the session.
		logger.Error("uploadService.ProcessJob: finishing job failed", zap.Error(err))
		return err
	}
	if err := s.fileRepo.UpdateStatus(ctx, job.TenantID, job.FileID, domain.FileStatusFailed); err != nil {
		logger.Error("uploadService.ProcessJob: marking file failed", zap.Error(err))
	}
	if session == nil {
		return nil
	}
	if err := s.uploadRepo.TransitionSession(ctx, session.ID, completingSessionStates, domain.UploadSessionFailed); err != nil {
		logger.Error("uploadService.ProcessJob: marking session failed", zap.Error(err))
	}
	if err := s.storage.AbortMultipartUpload(ctx, session.S3Bucket, session.S3Key, session.UploadID); err != nil {
		logger.Error("uploadService.ProcessJob: abort failed", zap.Error(err))
	}
	return nil
}

// ReclaimStalledJobs settles jobs still running long after the worker
// timeout, which means their worker crashed or could not record the
// outcome. Each one counts as a failed attempt.
func (s *uploadService) ReclaimStalledJobs(ctx context.Context, now time.Time) (int, error) {
	jobs, err := s.uploadRepo.ListStalledJobs(ctx, now.Add(-2*s.jobTimeout()), 100)
	if err != nil {
		return 0, err
	}
	reclaimed := 0
	for i := range jobs {
		job := &jobs[i]
		logger := s.log.With(
			zap.String("job_id", job.ID.String()),
			zap.String("session_id", job.SessionID.String()),
			zap.Int("attempt", job.Attempts))

		session, err := s.uploadRepo.GetSession(ctx, job.TenantID, job.SessionID)
		if err != nil {
			logger.Warn("uploadService.ReclaimStalledJobs: session lookup failed", zap.Error(err))
		}
		if err := s.failJob(ctx, logger, job, session, errJobStalled); err != nil {
			continue
		}
		reclaimed++
	}
	return reclaimed, nil
}

func (s *uploadService) jobTimeout() time.Duration {
	if s.cfg.JobTimeout > 0 {
		return s.cfg.JobTimeout
	}
	return 5 * time.Minute
}

func (s *uploadService) AbortExpired(ctx context.Context, now time.Time) (int, error) {
	sessions, err := s.uploadRepo.ListExpiredSessions(ctx, now, 100)
	if err != nil {
		return 0, err
	}
	aborted := 0
	for i := range sessions {
		if err := s.abortSession(ctx, &sessions[i]); err != nil {
			s.log.Error("uploadService.AbortExpired: abort failed",
				zap.String("session_id", sessions[i].ID.String()), zap.Error(err))
			continue
		}
		aborted++
	}
	return aborted, nil
}

// abortQuietly releases a multipart upload that never got a session row.
func (s *uploadService) abortQuietly(bucket, key, uploadID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.storage.AbortMultipartUpload(ctx, bucket, key, uploadID); err != nil {
		s.log.Warn("uploadService: abort after failed initiate", zap.String("key", key), zap.Error(err))
	}
}
