package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"regtrack/internal/domain"
	"regtrack/internal/service"
)

// FileHandler handles file upload and management endpoints.
type FileHandler struct {
	fileService service.FileService
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// entityRef reads an optional entity_type/entity_id pair from lookup. Both
// or neither must be present.
func entityRef(c *gin.Context, lookup func(string) string) (*service.EntityRef, bool) {
	rawType, rawID := lookup("entity_type"), lookup("entity_id")
	if rawType == "" && rawID == "" {
		return nil, true
	}
	if rawType == "" || rawID == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "entity_type and entity_id must be given together")
		return nil, false
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid entity_id")
		return nil, false
	}
	return &service.EntityRef{Type: domain.EntityType(rawType), ID: id}, true
}

// Upload handles POST /api/v1/files/upload
// @Summary Upload a file
// @Description Upload a file (PDF, JPG, PNG, DOCX, XLSX or ZIP) and optionally attach it to a registration, renewal or variation. Use the multipart upload endpoints for large files.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param entity_type formData string false "registration, renewal or variation"
// @Param entity_id formData string false "ID of the record to attach to"
// @Success 201 {object} Response{data=domain.FileMeta} "File uploaded successfully"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /files/upload [post]
func (h *FileHandler) Upload(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	entity, ok := entityRef(c, c.PostForm)
	if !ok {
		return
	}

	meta, err := h.fileService.Upload(c.Request.Context(), service.FileUploadInput{
		TenantID:   tenantID,
		UploadedBy: userID,
		File:       file,
		Header:     header,
		Entity:     entity,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, meta)
}

// List handles GET /api/v1/files
// @Summary List files
// @Description List files for the company, or only those attached to one record.
// @Tags files
// @Produce json
// @Param entity_type query string false "registration, renewal or variation"
// @Param entity_id query string false "Record ID"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.FileMeta,meta=PagMeta} "List of files"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /files [get]
func (h *FileHandler) List(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	entity, ok := entityRef(c, c.Query)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	files, total, err := h.fileService.List(c.Request.Context(), tenantID, entity, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, files, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/files/:id
// @Summary Get file by ID
// @Description Get file metadata and, once uploaded, a presigned download URL
// @Tags files
// @Produce json
// @Param id path string true "File ID (UUID)"
// @Success 200 {object} Response{data=service.FileWithURL} "File metadata with download URL"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "File not found"
// @Security BearerAuth
// @Router /files/{id} [get]
func (h *FileHandler) GetByID(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "id", "file")
	if !ok {
		return
	}

	file, err := h.fileService.GetByID(c.Request.Context(), tenantID, fileID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, file)
}

// Delete handles DELETE /api/v1/files/:id
// @Summary Delete a file
// @Description Delete a file (admin or manager)
// @Tags files
// @Produce json
// @Param id path string true "File ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "File deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 403 {object} ErrorResponseBody "Forbidden"
// @Failure 404 {object} ErrorResponseBody "File not found"
// @Security BearerAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "id", "file")
	if !ok {
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), tenantID, fileID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "file deleted"})
}
