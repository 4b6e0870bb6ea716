package handler

import (
	"time"

	"github.com/google/uuid"

	"regtrack/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	TenantSlug string `json:"tenant_slug" binding:"required" example:"acme-pharma"`
	Email      string `json:"email" binding:"required" example:"ra.lead@acme-pharma.com"`
	Password   string `json:"password" binding:"required" example:"securepassword123"`
}

// VerifyOTPRequest represents the OTP verification request body.
type VerifyOTPRequest struct {
	ChallengeID uuid.UUID `json:"challenge_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Code        string    `json:"code" binding:"required" example:"042917"`
}

// ResendOTPRequest represents the OTP resend request body.
type ResendOTPRequest struct {
	ChallengeID uuid.UUID `json:"challenge_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// ForgotPasswordRequest represents the forgot-password request body.
type ForgotPasswordRequest struct {
	TenantSlug string `json:"tenant_slug" binding:"required" example:"acme-pharma"`
	Email      string `json:"email" binding:"required" example:"ra.lead@acme-pharma.com"`
}

// ResetPasswordRequest represents the reset-password request body.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	NewPassword string `json:"new_password" binding:"required" example:"newsecurepassword456"`
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Email    string          `json:"email" binding:"required" example:"jane.doe@acme-pharma.com"`
	Password string          `json:"password" binding:"required" example:"securepassword123"`
	FullName string          `json:"full_name" example:"Jane Doe"`
	Role     domain.UserRole `json:"role" binding:"required" example:"member"`
}

// UpdateUserRequest represents the update user request body.
type UpdateUserRequest struct {
	Email    *string          `json:"email" example:"jane.smith@acme-pharma.com"`
	FullName *string          `json:"full_name" example:"Jane Smith"`
	Role     *domain.UserRole `json:"role" example:"manager"`
	IsActive *bool            `json:"is_active" example:"true"`
	Password *string          `json:"password" example:"newsecurepassword456"`
}

// CreateCompanyRequest represents the create company request body.
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required" example:"Acme Pharma"`
	Slug string `json:"slug" binding:"required" example:"acme-pharma"`
}

// UpdateCompanyRequest represents the update company request body.
type UpdateCompanyRequest struct {
	Name     *string `json:"name" example:"Acme Pharmaceuticals"`
	Slug     *string `json:"slug" example:"acme-pharmaceuticals"`
	IsActive *bool   `json:"is_active" example:"false"`
}

// CountryRequest represents the create country request body.
type CountryRequest struct {
	Name                string `json:"name" binding:"required" example:"Germany"`
	Code                string `json:"code" binding:"required" example:"DE"`
	Region              string `json:"region" example:"EU"`
	RegulatoryAuthority string `json:"regulatory_authority" example:"BfArM"`
}

// UpdateCountryRequest represents the update country request body.
type UpdateCountryRequest struct {
	Name                *string `json:"name" example:"Germany"`
	Code                *string `json:"code" example:"DE"`
	Region              *string `json:"region" example:"EU"`
	RegulatoryAuthority *string `json:"regulatory_authority" example:"BfArM"`
}

// ProductRequest represents the create product request body.
type ProductRequest struct {
	Name            string `json:"name" binding:"required" example:"Amoxil"`
	GenericName     string `json:"generic_name" example:"amoxicillin"`
	DosageForm      string `json:"dosage_form" example:"capsule"`
	Strength        string `json:"strength" example:"500 mg"`
	TherapeuticArea string `json:"therapeutic_area" example:"anti-infectives"`
	Manufacturer    string `json:"manufacturer" example:"Acme Pharma GmbH"`
}

// UpdateProductRequest represents the update product request body.
type UpdateProductRequest struct {
	Name            *string `json:"name" example:"Amoxil"`
	GenericName     *string `json:"generic_name" example:"amoxicillin"`
	DosageForm      *string `json:"dosage_form" example:"capsule"`
	Strength        *string `json:"strength" example:"250 mg"`
	TherapeuticArea *string `json:"therapeutic_area" example:"anti-infectives"`
	Manufacturer    *string `json:"manufacturer" example:"Acme Pharma GmbH"`
	IsActive        *bool   `json:"is_active" example:"true"`
}

// CreateRegistrationRequest represents the create registration request body.
type CreateRegistrationRequest struct {
	ProductID          uuid.UUID `json:"product_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	CountryID          uuid.UUID `json:"country_id" binding:"required" example:"660e8400-e29b-41d4-a716-446655440001"`
	RegistrationNumber string    `json:"registration_number" example:"DE-2024-00123"`
	Status             string    `json:"status" example:"planned"`
	SubmissionDate     string    `json:"submission_date" example:"2024-03-01"`
	ApprovalDate       string    `json:"approval_date" example:"2024-11-15"`
	ExpiryDate         string    `json:"expiry_date" example:"2029-11-15"`
	Notes              string    `json:"notes" example:"Decentralised procedure, RMS NL"`
}

// UpdateRegistrationRequest represents the update registration request body.
type UpdateRegistrationRequest struct {
	RegistrationNumber *string `json:"registration_number" example:"DE-2024-00123"`
	SubmissionDate     *string `json:"submission_date" example:"2024-03-01"`
	ApprovalDate       *string `json:"approval_date" example:"2024-11-15"`
	ExpiryDate         *string `json:"expiry_date" example:"2029-11-15"`
	Notes              *string `json:"notes" example:"Variation pending"`
}

// RegistrationStatusRequest represents the registration status change body.
type RegistrationStatusRequest struct {
	Status     string  `json:"status" binding:"required" example:"approved"`
	Date       string  `json:"date" example:"2024-11-15"`
	ExpiryDate string  `json:"expiry_date" example:"2029-11-15"`
	Notes      *string `json:"notes" example:"Approval letter received"`
}

// CreateRenewalRequest represents the create renewal request body.
type CreateRenewalRequest struct {
	RegistrationID uuid.UUID `json:"registration_id" binding:"required" example:"770e8400-e29b-41d4-a716-446655440002"`
	DueDate        string    `json:"due_date" binding:"required" example:"2029-05-15"`
	NewExpiryDate  string    `json:"new_expiry_date" example:"2034-11-15"`
	Notes          string    `json:"notes" example:"Five-year renewal"`
}

// UpdateRenewalRequest represents the update renewal request body.
type UpdateRenewalRequest struct {
	DueDate        *string `json:"due_date" example:"2029-05-15"`
	SubmissionDate *string `json:"submission_date" example:"2029-04-01"`
	ApprovalDate   *string `json:"approval_date" example:"2029-10-01"`
	NewExpiryDate  *string `json:"new_expiry_date" example:"2034-11-15"`
	Notes          *string `json:"notes" example:"Dossier submitted"`
}

// RenewalStatusRequest represents the renewal status change body.
type RenewalStatusRequest struct {
	Status        string  `json:"status" binding:"required" example:"approved"`
	Date          string  `json:"date" example:"2029-10-01"`
	NewExpiryDate string  `json:"new_expiry_date" example:"2034-11-15"`
	Notes         *string `json:"notes" example:"Renewed unconditionally"`
}

// CreateVariationRequest represents the create variation request body.
type CreateVariationRequest struct {
	RegistrationID uuid.UUID `json:"registration_id" binding:"required" example:"770e8400-e29b-41d4-a716-446655440002"`
	VariationType  string    `json:"variation_type" binding:"required" example:"type_ib"`
	Title          string    `json:"title" binding:"required" example:"Change of batch size"`
	Description    string    `json:"description" example:"Scale-up to 500 kg"`
}

// UpdateVariationRequest represents the update variation request body.
type UpdateVariationRequest struct {
	VariationType  *string `json:"variation_type" example:"type_ii"`
	Title          *string `json:"title" example:"Change of batch size"`
	Description    *string `json:"description" example:"Scale-up to 750 kg"`
	SubmissionDate *string `json:"submission_date" example:"2025-02-01"`
	ApprovalDate   *string `json:"approval_date" example:"2025-06-01"`
}

// VariationStatusRequest represents the variation status change body.
type VariationStatusRequest struct {
	Status string `json:"status" binding:"required" example:"submitted"`
	Date   string `json:"date" example:"2025-02-01"`
}

// EntityRefRequest names the record a file is attached to.
type EntityRefRequest struct {
	EntityType string    `json:"entity_type" example:"registration"`
	EntityID   uuid.UUID `json:"entity_id" example:"770e8400-e29b-41d4-a716-446655440002"`
}

// InitiateUploadRequest represents the multipart upload initiation body.
type InitiateUploadRequest struct {
	FileName    string            `json:"file_name" binding:"required" example:"dossier-module3.zip"`
	ContentType string            `json:"content_type" example:"application/zip"`
	Size        int64             `json:"size" binding:"required" example:"2147483648"`
	Entity      *EntityRefRequest `json:"entity"`
}

// RecordPartRequest is the body of the record-part endpoint.
type RecordPartRequest struct {
	ETag string `json:"etag" binding:"required" example:"\"9b2cf535f27731c974343645a3985328\""`
	Size int64  `json:"size" example:"10485760"`
}

// CompletePartRequest is one entry of a completion request.
type CompletePartRequest struct {
	PartNumber int    `json:"part_number" example:"1"`
	ETag       string `json:"etag" example:"\"9b2cf535f27731c974343645a3985328\""`
	Size       int64  `json:"size" example:"10485760"`
}

// CompleteUploadRequest represents the completion request body.
type CompleteUploadRequest struct {
	Parts []CompletePartRequest `json:"parts"`
}

// --- Response Types ---

// TokenResponse represents the authentication token response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2025-01-15T10:30:00Z"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// ObjectSizeResponse is the stored size of a file.
type ObjectSizeResponse struct {
	FileID uuid.UUID `json:"file_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Size   int64     `json:"size" example:"2147483648"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
