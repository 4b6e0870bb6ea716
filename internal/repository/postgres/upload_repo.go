package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

type uploadRepo struct {
	db *sqlx.DB
}

// NewUploadRepo creates a new PostgreSQL-backed UploadRepository.
func NewUploadRepo(db *sqlx.DB) port.UploadRepository {
	return &uploadRepo{db: db}
}

func (r *uploadRepo) CreateSession(ctx context.Context, s *domain.UploadSession) error {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO upload_sessions (id, tenant_id, file_id, created_by, s3_bucket, s3_key, upload_id,
			content_type, declared_size, part_size, part_count, status, expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		s.ID, s.TenantID, s.FileID, s.CreatedBy, s.S3Bucket, s.S3Key, s.UploadID,
		s.ContentType, s.DeclaredSize, s.PartSize, s.PartCount, s.Status, s.ExpiresAt,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("uploadRepo.CreateSession: %w", err)
	}
	return nil
}

func (r *uploadRepo) GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.UploadSession, error) {
	var s domain.UploadSession
	err := r.db.GetContext(ctx, &s,
		"SELECT * FROM upload_sessions WHERE id = $1 AND tenant_id = $2", sessionID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("uploadRepo.GetSession: %w", err)
	}
	return &s, nil
}

func (r *uploadRepo) TransitionSession(ctx context.Context, sessionID uuid.UUID, from []domain.UploadSessionStatus, to domain.UploadSessionStatus) error {
	query, args, err := sqlx.In(
		"UPDATE upload_sessions SET status = ?, updated_at = ? WHERE id = ? AND status IN (?)",
		to, time.Now().UTC(), sessionID, from)
	if err != nil {
		return fmt.Errorf("uploadRepo.TransitionSession: %w", err)
	}
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("uploadRepo.TransitionSession: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUploadSessionClosed
	}
	return nil
}

func (r *uploadRepo) ListExpiredSessions(ctx context.Context, now time.Time, limit int) ([]domain.UploadSession, error) {
	var sessions []domain.UploadSession
	err := r.db.SelectContext(ctx, &sessions,
		`SELECT * FROM upload_sessions
		 WHERE status IN ($1, $2) AND expires_at < $3
		 ORDER BY expires_at LIMIT $4`,
		domain.UploadSessionInitiated, domain.UploadSessionUploading, now, limit)
	if err != nil {
		return nil, fmt.Errorf("uploadRepo.ListExpiredSessions: %w", err)
	}
	return sessions, nil
}

const upsertPartQuery = `INSERT INTO upload_parts (session_id, part_number, etag, size, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (session_id, part_number) DO UPDATE SET etag = EXCLUDED.etag, size = EXCLUDED.size`

func (r *uploadRepo) UpsertPart(ctx context.Context, part *domain.UploadPart) error {
	return upsertPart(ctx, r.db, part)
}

func upsertPart(ctx context.Context, db sqlx.ExecerContext, part *domain.UploadPart) error {
	if part.CreatedAt.IsZero() {
		part.CreatedAt = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx, upsertPartQuery,
		part.SessionID, part.PartNumber, part.ETag, part.Size, part.CreatedAt)
	if err != nil {
		return fmt.Errorf("uploadRepo.UpsertPart: %w", err)
	}
	return nil
}

func (r *uploadRepo) ListParts(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadPart, error) {
	var parts []domain.UploadPart
	err := r.db.SelectContext(ctx, &parts,
		"SELECT * FROM upload_parts WHERE session_id = $1 ORDER BY part_number", sessionID)
	if err != nil {
		return nil, fmt.Errorf("uploadRepo.ListParts: %w", err)
	}
	return parts, nil
}

func (r *uploadRepo) EnqueueCompletion(ctx context.Context, session *domain.UploadSession, parts []domain.UploadPart) (*domain.UploadJob, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("uploadRepo.EnqueueCompletion begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the session so concurrent completes serialize here.
	var status domain.UploadSessionStatus
	if err := tx.GetContext(ctx, &status,
		"SELECT status FROM upload_sessions WHERE id = $1 FOR UPDATE", session.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("uploadRepo.EnqueueCompletion lock: %w", err)
	}

	var existing domain.UploadJob
	err = tx.GetContext(ctx, &existing, "SELECT * FROM upload_jobs WHERE session_id = $1", session.ID)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("uploadRepo.EnqueueCompletion existing: %w", err)
	}
	if !status.AcceptsParts() {
		return nil, domain.ErrUploadSessionClosed
	}

	for i := range parts {
		parts[i].SessionID = session.ID
		if err := upsertPart(ctx, tx, &parts[i]); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		"UPDATE upload_sessions SET status = $1, updated_at = $2 WHERE id = $3",
		domain.UploadSessionCompleting, now, session.ID); err != nil {
		return nil, fmt.Errorf("uploadRepo.EnqueueCompletion session: %w", err)
	}

	job := &domain.UploadJob{
		ID:        uuid.New(),
		TenantID:  session.TenantID,
		SessionID: session.ID,
		FileID:    session.FileID,
		Status:    domain.UploadJobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO upload_jobs (id, tenant_id, session_id, file_id, status, attempts, last_error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, 0, '', $6, $7)`,
		job.ID, job.TenantID, job.SessionID, job.FileID, job.Status, job.CreatedAt, job.UpdatedAt); err != nil {
		return nil, fmt.Errorf("uploadRepo.EnqueueCompletion job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("uploadRepo.EnqueueCompletion commit: %w", err)
	}
	session.Status = domain.UploadSessionCompleting
	session.UpdatedAt = now
	return job, nil
}

func (r *uploadRepo) GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*domain.UploadJob, error) {
	var job domain.UploadJob
	err := r.db.GetContext(ctx, &job,
		"SELECT * FROM upload_jobs WHERE id = $1 AND tenant_id = $2", jobID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("uploadRepo.GetJob: %w", err)
	}
	return &job, nil
}

func (r *uploadRepo) GetJobBySession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.UploadJob, error) {
	var job domain.UploadJob
	err := r.db.GetContext(ctx, &job,
		"SELECT * FROM upload_jobs WHERE session_id = $1 AND tenant_id = $2", sessionID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("uploadRepo.GetJobBySession: %w", err)
	}
	return &job, nil
}

const claimJobsQuery = `UPDATE upload_jobs SET status = $1, attempts = attempts + 1, started_at = $2, updated_at = $2
	WHERE id IN (
		SELECT id FROM upload_jobs WHERE status = $3
		ORDER BY created_at
		LIMIT $4
		FOR UPDATE SKIP LOCKED
	)
	RETURNING *`

func (r *uploadRepo) ClaimQueuedJobs(ctx context.Context, limit int) ([]domain.UploadJob, error) {
	var jobs []domain.UploadJob
	err := r.db.SelectContext(ctx, &jobs, claimJobsQuery,
		domain.UploadJobRunning, time.Now().UTC(), domain.UploadJobQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("uploadRepo.ClaimQueuedJobs: %w", err)
	}
	return jobs, nil
}

func (r *uploadRepo) ListStalledJobs(ctx context.Context, startedBefore time.Time, limit int) ([]domain.UploadJob, error) {
	var jobs []domain.UploadJob
	err := r.db.SelectContext(ctx, &jobs,
		`SELECT * FROM upload_jobs
		 WHERE status = $1 AND started_at < $2
		 ORDER BY started_at LIMIT $3`,
		domain.UploadJobRunning, startedBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("uploadRepo.ListStalledJobs: %w", err)
	}
	return jobs, nil
}

func (r *uploadRepo) FinishJob(ctx context.Context, job *domain.UploadJob) error {
	now := time.Now().UTC()
	job.UpdatedAt = now
	if job.FinishedAt == nil {
		job.FinishedAt = &now
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE upload_jobs SET status = $1, last_error = $2, finished_at = $3, updated_at = $4
		 WHERE id = $5 AND status = $6 AND attempts = $7`,
		job.Status, job.LastError, job.FinishedAt, job.UpdatedAt, job.ID, domain.UploadJobRunning, job.Attempts)
	if err != nil {
		return fmt.Errorf("uploadRepo.FinishJob: %w", err)
	}
	return expectCurrentClaim(result)
}

func (r *uploadRepo) RequeueJob(ctx context.Context, job *domain.UploadJob, lastError string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE upload_jobs SET status = $1, last_error = $2, updated_at = $3
		 WHERE id = $4 AND status = $5 AND attempts = $6`,
		domain.UploadJobQueued, lastError, time.Now().UTC(), job.ID, domain.UploadJobRunning, job.Attempts)
	if err != nil {
		return fmt.Errorf("uploadRepo.RequeueJob: %w", err)
	}
	return expectCurrentClaim(result)
}

func expectCurrentClaim(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrUploadJobSuperseded
	}
	return nil
}
