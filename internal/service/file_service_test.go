package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"regtrack/internal/domain"
	"regtrack/internal/export"
	"regtrack/internal/port"
	"regtrack/internal/service"
	"regtrack/mocks"
)

type fileDeps struct {
	fileRepo    *mocks.MockFileMetaRepo
	storage     *mocks.MockObjectStorage
	regRepo     *mocks.MockRegistrationRepo
	renewalRepo *mocks.MockRenewalRepo
}

func setupFileService() (service.FileService, *fileDeps) {
	d := &fileDeps{
		fileRepo:    new(mocks.MockFileMetaRepo),
		storage:     new(mocks.MockObjectStorage),
		regRepo:     new(mocks.MockRegistrationRepo),
		renewalRepo: new(mocks.MockRenewalRepo),
	}
	cfg := testS3Cfg
	svc := service.NewFileService(d.fileRepo, d.storage, d.regRepo, d.renewalRepo, new(mocks.MockVariationRepo), &cfg, zap.NewNop())
	return svc, d
}

// createMultipartFile creates a fake multipart file header and content for testing.
func createMultipartFile(filename string, content []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content) + 1024))
	file, _ := form.File["file"][0].Open()
	return file, form.File["file"][0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4 certificate of pharmaceutical product, scanned copy")
}

func TestFileService_Upload_AttachedToRegistration(t *testing.T) {
	svc, d := setupFileService()
	ctx := context.Background()
	tenantID, userID, regID := uuid.New(), uuid.New(), uuid.New()

	file, header := createMultipartFile("approval letter.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	d.regRepo.On("GetByID", ctx, tenantID, regID).Return(&domain.Registration{ID: regID}, nil)
	d.fileRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.FileMeta) bool {
		return m.EntityType != nil && *m.EntityType == domain.EntityRegistration &&
			m.EntityID != nil && *m.EntityID == regID &&
			strings.HasPrefix(m.S3Key, "tenants/"+tenantID.String()+"/files/") &&
			m.Status == domain.FileStatusPending
	})).Return(nil)
	d.storage.On("Upload", ctx, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{ETag: "abc"}, nil)
	d.fileRepo.On("UpdateStatus", ctx, tenantID, mock.AnythingOfType("uuid.UUID"), domain.FileStatusUploaded).Return(nil)

	meta, err := svc.Upload(ctx, service.FileUploadInput{
		TenantID:   tenantID,
		UploadedBy: userID,
		File:       file,
		Header:     header,
		Entity:     &service.EntityRef{Type: domain.EntityRegistration, ID: regID},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FileStatusUploaded, meta.Status)
	assert.Equal(t, "approval letter.pdf", meta.OriginalName)
	assert.Equal(t, domain.FileTypePDF, meta.FileType)
	d.fileRepo.AssertExpectations(t)
}

func TestFileService_Upload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		entity   *service.EntityRef
		wantErr  error
	}{
		{"unsupported extension", "malware.exe", []byte("MZ"), nil, domain.ErrUnsupportedFileType},
		{"content does not match extension", "fake.pdf", []byte("plain text pretending to be a pdf"), nil, domain.ErrUnsupportedFileType},
		{"png bytes named docx", "dossier.docx", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}, nil, domain.ErrUnsupportedFileType},
		{"unknown entity type", "doc.pdf", pdfContent(), &service.EntityRef{Type: "product", ID: uuid.New()}, domain.ErrInvalidEntityType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := setupFileService()
			file, header := createMultipartFile(tt.filename, tt.content, "application/octet-stream")
			defer file.Close()

			_, err := svc.Upload(context.Background(), service.FileUploadInput{
				TenantID: uuid.New(),
				File:     file,
				Header:   header,
				Entity:   tt.entity,
			})

			assert.ErrorIs(t, err, tt.wantErr)
			d.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestFileService_Upload_TooLarge(t *testing.T) {
	svc, d := setupFileService()
	file, header := createMultipartFile("big.pdf", pdfContent(), "application/pdf")
	defer file.Close()
	header.Size = (testS3Cfg.MaxFileSizeMB << 20) + 1

	_, err := svc.Upload(context.Background(), service.FileUploadInput{TenantID: uuid.New(), File: file, Header: header})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	d.fileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFileService_Upload_MissingEntity(t *testing.T) {
	svc, d := setupFileService()
	ctx := context.Background()
	tenantID, renewalID := uuid.New(), uuid.New()
	file, header := createMultipartFile("doc.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	d.renewalRepo.On("GetByID", ctx, tenantID, renewalID).Return(nil, domain.ErrNotFound)

	_, err := svc.Upload(ctx, service.FileUploadInput{
		TenantID: tenantID,
		File:     file,
		Header:   header,
		Entity:   &service.EntityRef{Type: domain.EntityRenewal, ID: renewalID},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileService_Upload_StorageFailure(t *testing.T) {
	svc, d := setupFileService()
	ctx := context.Background()
	tenantID := uuid.New()
	file, header := createMultipartFile("doc.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	d.fileRepo.On("Create", ctx, mock.Anything).Return(nil)
	d.storage.On("Upload", ctx, mock.Anything).Return(nil, errors.New("s3 unavailable"))
	d.fileRepo.On("UpdateStatus", ctx, tenantID, mock.AnythingOfType("uuid.UUID"), domain.FileStatusFailed).Return(nil)

	_, err := svc.Upload(ctx, service.FileUploadInput{TenantID: tenantID, File: file, Header: header})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	d.fileRepo.AssertExpectations(t)
}

func TestFileService_GetByID_PresignsUploadedFiles(t *testing.T) {
	svc, d := setupFileService()
	ctx := context.Background()
	tenantID := uuid.New()
	uploaded := &domain.FileMeta{ID: uuid.New(), S3Bucket: "test-bucket", S3Key: "k", Status: domain.FileStatusUploaded}
	pending := &domain.FileMeta{ID: uuid.New(), Status: domain.FileStatusPending}

	d.fileRepo.On("GetByID", ctx, tenantID, uploaded.ID).Return(uploaded, nil)
	d.fileRepo.On("GetByID", ctx, tenantID, pending.ID).Return(pending, nil)
	d.storage.On("GetPresignedURL", ctx, "test-bucket", "k", int64(900)).Return("https://signed", nil)

	got, err := svc.GetByID(ctx, tenantID, uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed", got.DownloadURL)

	got, err = svc.GetByID(ctx, tenantID, pending.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DownloadURL)
	d.storage.AssertNumberOfCalls(t, "GetPresignedURL", 1)
}

func TestFileService_Delete(t *testing.T) {
	svc, d := setupFileService()
	ctx := context.Background()
	tenantID := uuid.New()
	meta := &domain.FileMeta{ID: uuid.New(), S3Bucket: "test-bucket", S3Key: "k", Status: domain.FileStatusUploaded}

	d.fileRepo.On("GetByID", ctx, tenantID, meta.ID).Return(meta, nil)
	d.storage.On("Delete", ctx, "test-bucket", "k").Return(nil)
	d.fileRepo.On("Delete", ctx, tenantID, meta.ID).Return(nil)

	require.NoError(t, svc.Delete(ctx, tenantID, meta.ID))
	d.storage.AssertExpectations(t)
}

func TestFileService_List_ByEntity(t *testing.T) {
	svc, d := setupFileService()
	ctx := context.Background()
	tenantID, regID := uuid.New(), uuid.New()

	d.fileRepo.On("ListByEntity", ctx, tenantID, domain.EntityRegistration, regID, 0, 20).Return([]domain.FileMeta{{}}, 1, nil)
	d.fileRepo.On("ListByTenant", ctx, tenantID, 0, 20).Return([]domain.FileMeta{}, 0, nil)

	files, total, err := svc.List(ctx, tenantID, &service.EntityRef{Type: domain.EntityRegistration, ID: regID}, 0, 20)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, 1, total)

	_, _, err = svc.List(ctx, tenantID, nil, 0, 20)
	require.NoError(t, err)
	d.fileRepo.AssertExpectations(t)
}

// --- Export ---

func TestExportService_Registrations_PagesThroughAllRows(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	svc := service.NewExportService(regRepo, new(mocks.MockRenewalRepo), new(mocks.MockVariationRepo))
	ctx := context.Background()
	tenantID := uuid.New()

	firstPage := make([]domain.Registration, 500)
	for i := range firstPage {
		firstPage[i] = domain.Registration{ProductName: "Amoxil", CountryName: "Germany", Status: domain.RegistrationApproved}
	}
	secondPage := []domain.Registration{{ProductName: "Zyrtec", CountryName: "Spain", Status: domain.RegistrationPlanned}}

	regRepo.On("List", ctx, tenantID, mock.MatchedBy(func(f domain.RegistrationFilter) bool {
		return f.Offset == 0 && f.Limit == 500 && f.Status == domain.RegistrationApproved
	})).Return(firstPage, 501, nil)
	regRepo.On("List", ctx, tenantID, mock.MatchedBy(func(f domain.RegistrationFilter) bool {
		return f.Offset == 500
	})).Return(secondPage, 501, nil)

	var buf bytes.Buffer
	err := svc.Export(ctx, tenantID, service.ExportRequest{
		Entity:       service.ExportRegistrations,
		Format:       domain.ExportCSV,
		Registration: domain.RegistrationFilter{Status: domain.RegistrationApproved, Page: domain.Page{Offset: 40, Limit: 10}},
	}, &buf)

	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(buf.Bytes(), export.BOM))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 502)
	assert.Equal(t, export.RegistrationColumns, records[0])
	assert.Equal(t, "Zyrtec", records[501][0])
	regRepo.AssertNumberOfCalls(t, "List", 2)
}

func TestExportService_Rejections(t *testing.T) {
	svc := service.NewExportService(new(mocks.MockRegistrationRepo), new(mocks.MockRenewalRepo), new(mocks.MockVariationRepo))
	var buf bytes.Buffer

	err := svc.Export(context.Background(), uuid.New(), service.ExportRequest{Entity: "products", Format: domain.ExportCSV}, &buf)
	assert.ErrorIs(t, err, domain.ErrInvalidEntityType)

	err = svc.Export(context.Background(), uuid.New(), service.ExportRequest{Entity: service.ExportRenewals, Format: "pdf"}, &buf)
	assert.ErrorIs(t, err, domain.ErrInvalidExportFormat)
}

func TestExportService_RepositoryError(t *testing.T) {
	variationRepo := new(mocks.MockVariationRepo)
	svc := service.NewExportService(new(mocks.MockRegistrationRepo), new(mocks.MockRenewalRepo), variationRepo)
	ctx := context.Background()
	tenantID := uuid.New()

	variationRepo.On("List", ctx, tenantID, mock.Anything).Return(nil, 0, errors.New("db down"))

	var buf bytes.Buffer
	err := svc.Export(ctx, tenantID, service.ExportRequest{Entity: service.ExportVariations, Format: domain.ExportXLSX}, &buf)
	assert.ErrorContains(t, err, "db down")
}
