package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"regtrack/internal/domain"
)

// FileMetaRepository defines the contract for file metadata persistence.
// All query methods include tenantID for tenant isolation.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.FileMeta, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
	ListByEntity(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, entityID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
	UpdateStatus(ctx context.Context, tenantID, fileID uuid.UUID, status domain.FileStatus) error
	MarkUploaded(ctx context.Context, tenantID, fileID uuid.UUID, size int64) error
	Delete(ctx context.Context, tenantID, fileID uuid.UUID) error
}

// UploadRepository persists multipart upload sessions, their parts and
// completion jobs.
type UploadRepository interface {
	CreateSession(ctx context.Context, session *domain.UploadSession) error
	GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.UploadSession, error)
	// TransitionSession moves a session to status "to" only while its status
	// is one of from. It returns ErrUploadSessionClosed when the session has
	// already moved on.
	TransitionSession(ctx context.Context, sessionID uuid.UUID, from []domain.UploadSessionStatus, to domain.UploadSessionStatus) error
	ListExpiredSessions(ctx context.Context, now time.Time, limit int) ([]domain.UploadSession, error)

	UpsertPart(ctx context.Context, part *domain.UploadPart) error
	ListParts(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadPart, error)

	// EnqueueCompletion stores the final part list, moves the session to
	// completing and inserts a queued job, atomically. If a job already
	// exists for the session it is returned unchanged.
	EnqueueCompletion(ctx context.Context, session *domain.UploadSession, parts []domain.UploadPart) (*domain.UploadJob, error)
	GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*domain.UploadJob, error)
	GetJobBySession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.UploadJob, error)
	// ClaimQueuedJobs marks up to limit queued jobs running and returns them.
	ClaimQueuedJobs(ctx context.Context, limit int) ([]domain.UploadJob, error)
	// ListStalledJobs returns running jobs claimed before startedBefore.
	ListStalledJobs(ctx context.Context, startedBefore time.Time, limit int) ([]domain.UploadJob, error)
	// FinishJob and RequeueJob only apply to the claim that job holds: the
	// row must still be running with the same attempt count. Otherwise they
	// return ErrUploadJobSuperseded.
	FinishJob(ctx context.Context, job *domain.UploadJob) error
	RequeueJob(ctx context.Context, job *domain.UploadJob, lastError string) error
}
