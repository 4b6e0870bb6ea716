package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"regtrack/internal/service"
)

// UploadHandler handles the multipart upload endpoints.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

func partNumberParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("part_number"))
	if err != nil || n < 1 {
		RespondError(c, http.StatusBadRequest, "INVALID_PART_NUMBER", "part number must be a positive integer")
		return 0, false
	}
	return n, true
}

// Initiate handles POST /api/v1/uploads
// @Summary Start a multipart upload
// @Description Creates the upload session and a pending file record. The client then uploads parts 1..part_count to presigned URLs.
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body InitiateUploadRequest true "File details"
// @Success 201 {object} Response{data=service.InitiateUploadOutput} "Session created"
// @Failure 400 {object} ErrorResponseBody "Unsupported type or invalid entity"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /uploads [post]
func (h *UploadHandler) Initiate(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.InitiateUploadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	out, err := h.uploadService.Initiate(c.Request.Context(), tenantID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, out)
}

// GetSession handles GET /api/v1/uploads/:id
// @Summary Get an upload session
// @Description Session state with the parts recorded so far and the completion job, if any.
// @Tags uploads
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} Response{data=service.SessionView} "Session"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Security BearerAuth
// @Router /uploads/{id} [get]
func (h *UploadHandler) GetSession(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id", "session")
	if !ok {
		return
	}

	view, err := h.uploadService.GetSession(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// PartURL handles GET /api/v1/uploads/:id/parts/:part_number/url
// @Summary Presign one part upload
// @Tags uploads
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param part_number path int true "Part number (1-based)"
// @Success 200 {object} Response{data=service.PartURLOutput} "Presigned PUT URL"
// @Failure 400 {object} ErrorResponseBody "Part number out of range"
// @Failure 409 {object} ErrorResponseBody "Session closed"
// @Failure 410 {object} ErrorResponseBody "Session expired"
// @Security BearerAuth
// @Router /uploads/{id}/parts/{part_number}/url [get]
func (h *UploadHandler) PartURL(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id", "session")
	if !ok {
		return
	}
	partNumber, ok := partNumberParam(c)
	if !ok {
		return
	}

	out, err := h.uploadService.PartURL(c.Request.Context(), tenantID, sessionID, partNumber)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, out)
}

// RecordPart handles PUT /api/v1/uploads/:id/parts/:part_number
// @Summary Record an uploaded part
// @Description Stores the ETag S3 returned for a part. Repeating the call replaces the stored ETag.
// @Tags uploads
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param part_number path int true "Part number (1-based)"
// @Param request body RecordPartRequest true "Part ETag and size"
// @Success 200 {object} Response{data=MessageResponse} "Part recorded"
// @Failure 400 {object} ErrorResponseBody "Part number out of range"
// @Failure 409 {object} ErrorResponseBody "Session closed"
// @Security BearerAuth
// @Router /uploads/{id}/parts/{part_number} [put]
func (h *UploadHandler) RecordPart(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id", "session")
	if !ok {
		return
	}
	partNumber, ok := partNumberParam(c)
	if !ok {
		return
	}

	var body RecordPartRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	input := service.PartInput{PartNumber: partNumber, ETag: body.ETag, Size: body.Size}
	if err := h.uploadService.RecordPart(c.Request.Context(), tenantID, sessionID, input); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "part recorded"})
}

// Complete handles POST /api/v1/uploads/:id/complete
// @Summary Complete a multipart upload
// @Description Merges the supplied parts with the recorded ones and queues the completion job. Calling it again returns the same job.
// @Tags uploads
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param request body CompleteUploadRequest false "Parts not yet recorded"
// @Success 202 {object} Response{data=domain.UploadJob} "Completion job"
// @Failure 400 {object} ErrorResponseBody "Missing parts"
// @Failure 409 {object} ErrorResponseBody "Session closed"
// @Security BearerAuth
// @Router /uploads/{id}/complete [post]
func (h *UploadHandler) Complete(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id", "session")
	if !ok {
		return
	}

	var input service.CompleteUploadInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}

	job, err := h.uploadService.Complete(c.Request.Context(), tenantID, sessionID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, job)
}

// Abort handles DELETE /api/v1/uploads/:id
// @Summary Abort a multipart upload
// @Tags uploads
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Upload aborted"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 409 {object} ErrorResponseBody "Session already completing or completed"
// @Security BearerAuth
// @Router /uploads/{id} [delete]
func (h *UploadHandler) Abort(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id", "session")
	if !ok {
		return
	}

	if err := h.uploadService.Abort(c.Request.Context(), tenantID, sessionID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "upload aborted"})
}

// JobStatus handles GET /api/v1/upload-jobs/:id
// @Summary Get completion job status
// @Tags uploads
// @Produce json
// @Param id path string true "Job ID (UUID)"
// @Success 200 {object} Response{data=domain.UploadJob} "Job"
// @Failure 404 {object} ErrorResponseBody "Job not found"
// @Security BearerAuth
// @Router /upload-jobs/{id} [get]
func (h *UploadHandler) JobStatus(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.uploadService.JobStatus(c.Request.Context(), tenantID, jobID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, job)
}

// ObjectSize handles GET /api/v1/files/:id/size
// @Summary Get the stored size of a file
// @Description Reads the content length from object storage.
// @Tags files
// @Produce json
// @Param id path string true "File ID (UUID)"
// @Success 200 {object} Response{data=ObjectSizeResponse} "Stored size"
// @Failure 404 {object} ErrorResponseBody "File not found or not uploaded"
// @Security BearerAuth
// @Router /files/{id}/size [get]
func (h *UploadHandler) ObjectSize(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "id", "file")
	if !ok {
		return
	}

	size, err := h.uploadService.ObjectSize(c.Request.Context(), tenantID, fileID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ObjectSizeResponse{FileID: fileID, Size: size})
}
