package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrCompanyInactive      = errors.New("company is inactive")
	ErrUserInactive         = errors.New("user is inactive")
	ErrInvalidRole          = errors.New("invalid user role")
	ErrDuplicateEmail       = errors.New("email already exists for this company")
	ErrDuplicateCompanySlug = errors.New("company slug already exists")
	ErrLastAdmin            = errors.New("company must keep at least one active admin")

	ErrOTPInvalid          = errors.New("one-time code is invalid")
	ErrOTPExpired          = errors.New("one-time code has expired")
	ErrOTPAttemptsExceeded = errors.New("too many one-time code attempts")
	ErrOTPResendLimit      = errors.New("one-time code resend limit reached")

	ErrPasswordResetTokenInvalid = errors.New("password reset token is invalid or expired")

	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrInvalidPartNumber    = errors.New("part number out of range")
	ErrMissingParts         = errors.New("multipart upload is missing parts")
	ErrUploadSessionClosed  = errors.New("upload session no longer accepts changes")
	ErrUploadSessionExpired = errors.New("upload session has expired")
	ErrUploadJobSuperseded  = errors.New("upload job claim is no longer current")

	ErrDuplicateCountryCode    = errors.New("country code already exists for this company")
	ErrInvalidCountryCode      = errors.New("country code must be two letters")
	ErrCountryInUse            = errors.New("country is referenced by registrations")
	ErrDuplicateRegistration   = errors.New("product already has a live registration in this country")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrInvalidVariationType    = errors.New("invalid variation type")
	ErrRegistrationNotApproved = errors.New("registration is not approved")
	ErrParentDeleted           = errors.New("parent record is in the recycle bin")
	ErrHasLiveChildren         = errors.New("record still has live child records")
	ErrInvalidEntityType       = errors.New("invalid entity type")
	ErrInvalidExportFormat     = errors.New("invalid export format")
	ErrInvalidImport           = errors.New("import file is malformed")
	ErrMissingDate             = errors.New("date is required")
)
