package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"regtrack/internal/config"
	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// FileUploadInput is the DTO for file upload requests.
type FileUploadInput struct {
	TenantID   uuid.UUID
	UploadedBy uuid.UUID
	File       multipart.File
	Header     *multipart.FileHeader
	Entity     *EntityRef
}

// FileWithURL is a file plus a presigned download link.
type FileWithURL struct {
	domain.FileMeta
	DownloadURL string `json:"download_url"`
}

// FileService defines the direct file upload contract.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error)
	GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*FileWithURL, error)
	List(ctx context.Context, tenantID uuid.UUID, entity *EntityRef, offset, limit int) ([]domain.FileMeta, int, error)
	Delete(ctx context.Context, tenantID, fileID uuid.UUID) error
}

type fileService struct {
	fileRepo port.FileMetaRepository
	storage  port.ObjectStorage
	linker   *entityLinker
	cfg      *config.S3Config
	log      *zap.Logger
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	regRepo port.RegistrationRepository,
	renewalRepo port.RenewalRepository,
	variationRepo port.VariationRepository,
	cfg *config.S3Config,
	log *zap.Logger,
) FileService {
	return &fileService{
		fileRepo: fileRepo,
		storage:  storage,
		linker:   newEntityLinker(regRepo, renewalRepo, variationRepo),
		cfg:      cfg,
		log:      log,
	}
}

// fileTypeFor validates a file name's extension.
func fileTypeFor(name string) (domain.FileType, string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", "", domain.ErrUnsupportedFileType
	}
	return fileType, ext, nil
}

// objectKey is the storage key of a tenant's file.
func objectKey(tenantID, fileID uuid.UUID, name string) string {
	return fmt.Sprintf("tenants/%s/files/%s/%s", tenantID, fileID, filepath.Base(name))
}

// sniffMatches reports whether the magic bytes in head fit fileType.
func sniffMatches(head []byte, fileType domain.FileType) bool {
	detected := http.DetectContentType(head)
	for _, t := range domain.DetectedContentTypes[detected] {
		if t == fileType {
			return true
		}
	}
	return false
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error) {
	fileType, ext, err := fileTypeFor(input.Header.Filename)
	if err != nil {
		return nil, err
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	if !sniffMatches(buf[:n], fileType) {
		return nil, domain.ErrUnsupportedFileType
	}
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	entityType, entityID, err := s.linker.resolve(ctx, input.TenantID, input.Entity)
	if err != nil {
		return nil, err
	}

	fileID := uuid.New()
	contentType := domain.AllowedFileTypes[fileType]
	meta := &domain.FileMeta{
		ID:           fileID,
		TenantID:     input.TenantID,
		UploadedBy:   input.UploadedBy,
		FileName:     fileID.String() + "." + ext,
		OriginalName: input.Header.Filename,
		FileType:     fileType,
		FileSize:     input.Header.Size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        objectKey(input.TenantID, fileID, input.Header.Filename),
		ContentType:  contentType,
		Status:       domain.FileStatusPending,
		EntityType:   entityType,
		EntityID:     entityID,
	}

	s.log.Info("fileService.Upload: uploading file",
		zap.String("file_id", fileID.String()),
		zap.String("name", input.Header.Filename),
		zap.Int64("size", input.Header.Size),
		zap.String("tenant_id", input.TenantID.String()))

	if err := s.fileRepo.Create(ctx, meta); err != nil {
		return nil, fmt.Errorf("creating file metadata: %w", err)
	}

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      meta.S3Bucket,
		Key:         meta.S3Key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		s.log.Error("fileService.Upload: storage upload failed",
			zap.String("file_id", fileID.String()), zap.Error(err))
		_ = s.fileRepo.UpdateStatus(ctx, meta.TenantID, meta.ID, domain.FileStatusFailed)
		return nil, domain.ErrUploadFailed
	}

	if err := s.fileRepo.UpdateStatus(ctx, meta.TenantID, meta.ID, domain.FileStatusUploaded); err != nil {
		return nil, fmt.Errorf("updating file status: %w", err)
	}
	meta.Status = domain.FileStatusUploaded
	return meta, nil
}

func (s *fileService) GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*FileWithURL, error) {
	meta, err := s.fileRepo.GetByID(ctx, tenantID, fileID)
	if err != nil {
		return nil, err
	}
	out := &FileWithURL{FileMeta: *meta}
	if meta.Status == domain.FileStatusUploaded {
		url, err := s.storage.GetPresignedURL(ctx, meta.S3Bucket, meta.S3Key, s.cfg.PresignExpiry)
		if err != nil {
			return nil, fmt.Errorf("presigning download: %w", err)
		}
		out.DownloadURL = url
	}
	return out, nil
}

func (s *fileService) List(ctx context.Context, tenantID uuid.UUID, entity *EntityRef, offset, limit int) ([]domain.FileMeta, int, error) {
	if entity != nil && entity.Type != "" {
		return s.fileRepo.ListByEntity(ctx, tenantID, entity.Type, entity.ID, offset, limit)
	}
	return s.fileRepo.ListByTenant(ctx, tenantID, offset, limit)
}

func (s *fileService) Delete(ctx context.Context, tenantID, fileID uuid.UUID) error {
	meta, err := s.fileRepo.GetByID(ctx, tenantID, fileID)
	if err != nil {
		return err
	}

	if meta.Status == domain.FileStatusUploaded {
		if err := s.storage.Delete(ctx, meta.S3Bucket, meta.S3Key); err != nil {
			s.log.Error("fileService.Delete: storage delete failed",
				zap.String("file_id", fileID.String()), zap.Error(err))
			return fmt.Errorf("deleting from storage: %w", err)
		}
	}

	s.log.Info("fileService.Delete: file deleted",
		zap.String("file_id", fileID.String()), zap.String("tenant_id", tenantID.String()))
	return s.fileRepo.Delete(ctx, tenantID, fileID)
}
