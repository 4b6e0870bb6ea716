package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"regtrack/internal/domain"
	"regtrack/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 success response.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrCompanyInactive):
		return http.StatusForbidden, "COMPANY_INACTIVE", "company is inactive"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "INVALID_ROLE", "invalid role; allowed: admin, manager, member, viewer"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists for this company"
	case errors.Is(err, domain.ErrDuplicateCompanySlug):
		return http.StatusConflict, "DUPLICATE_SLUG", "company slug already exists"
	case errors.Is(err, domain.ErrLastAdmin):
		return http.StatusConflict, "LAST_ADMIN", err.Error()
	case errors.Is(err, domain.ErrOTPInvalid):
		return http.StatusUnauthorized, "OTP_INVALID", "one-time code is invalid"
	case errors.Is(err, domain.ErrOTPExpired):
		return http.StatusUnauthorized, "OTP_EXPIRED", "one-time code has expired; sign in again"
	case errors.Is(err, domain.ErrOTPAttemptsExceeded):
		return http.StatusTooManyRequests, "OTP_ATTEMPTS_EXCEEDED", "too many attempts; sign in again"
	case errors.Is(err, domain.ErrOTPResendLimit):
		return http.StatusTooManyRequests, "OTP_RESEND_LIMIT", "too many codes sent; sign in again"
	case errors.Is(err, domain.ErrPasswordResetTokenInvalid):
		return http.StatusUnauthorized, "INVALID_RESET_TOKEN", "password reset token is invalid or has already been used"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png, docx, xlsx, zip"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrInvalidPartNumber):
		return http.StatusBadRequest, "INVALID_PART_NUMBER", "part number out of range"
	case errors.Is(err, domain.ErrMissingParts):
		return http.StatusBadRequest, "MISSING_PARTS", err.Error()
	case errors.Is(err, domain.ErrUploadSessionClosed):
		return http.StatusConflict, "UPLOAD_SESSION_CLOSED", "upload session no longer accepts changes"
	case errors.Is(err, domain.ErrUploadSessionExpired):
		return http.StatusGone, "UPLOAD_SESSION_EXPIRED", "upload session has expired"
	case errors.Is(err, domain.ErrDuplicateCountryCode):
		return http.StatusConflict, "DUPLICATE_COUNTRY_CODE", "country code already exists for this company"
	case errors.Is(err, domain.ErrInvalidCountryCode):
		return http.StatusBadRequest, "INVALID_COUNTRY_CODE", "country code must be two letters (ISO 3166-1 alpha-2)"
	case errors.Is(err, domain.ErrCountryInUse):
		return http.StatusConflict, "COUNTRY_IN_USE", "country is referenced by registrations"
	case errors.Is(err, domain.ErrDuplicateRegistration):
		return http.StatusConflict, "DUPLICATE_REGISTRATION", "product already has a live registration in this country"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "INVALID_STATUS", "invalid status"
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict, "INVALID_STATUS_TRANSITION", "status transition not allowed"
	case errors.Is(err, domain.ErrInvalidVariationType):
		return http.StatusBadRequest, "INVALID_VARIATION_TYPE", "invalid variation type; allowed: type_ia, type_ib, type_ii, administrative"
	case errors.Is(err, domain.ErrRegistrationNotApproved):
		return http.StatusConflict, "REGISTRATION_NOT_APPROVED", "registration is not approved"
	case errors.Is(err, domain.ErrParentDeleted):
		return http.StatusConflict, "PARENT_DELETED", "restore the parent record first"
	case errors.Is(err, domain.ErrHasLiveChildren):
		return http.StatusConflict, "HAS_LIVE_CHILDREN", "delete the child records first"
	case errors.Is(err, domain.ErrInvalidEntityType):
		return http.StatusBadRequest, "INVALID_ENTITY_TYPE", "invalid entity type"
	case errors.Is(err, domain.ErrInvalidExportFormat):
		return http.StatusBadRequest, "INVALID_EXPORT_FORMAT", "invalid export format; allowed: csv, xlsx"
	case errors.Is(err, domain.ErrInvalidImport):
		return http.StatusBadRequest, "INVALID_IMPORT", err.Error()
	case errors.Is(err, domain.ErrMissingDate):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts tenant ID, user ID, and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (tenantID, userID uuid.UUID, role domain.UserRole, ok bool) {
	var err error
	tenantID, err = middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return uuid.Nil, uuid.Nil, "", false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, "", false
	}
	role = domain.UserRole(middleware.GetRole(c))
	return tenantID, userID, role, true
}

// tenantFromContext is extractAuthContext for handlers that only need the tenant.
func tenantFromContext(c *gin.Context) (uuid.UUID, bool) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return uuid.Nil, false
	}
	return tenantID, true
}

// parseIDParam parses the :id path parameter, writing a 400 on failure.
func parseIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUID parses an optional UUID query parameter.
func parseOptionalUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return nil, false
	}
	return &id, true
}

// pagination reads offset and limit query parameters. Limit defaults to 20
// and is capped at 100.
func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		middleware.GetLogger(c).Error("internal error", zap.Error(err))
	}
	RespondError(c, status, code, msg)
}
