package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company represents an isolated tenant: one pharmaceutical company.
type Company struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a company.
type User struct {
	ID              uuid.UUID `db:"id" json:"id"`
	TenantID        uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Email           string    `db:"email" json:"email"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	FullName        string    `db:"full_name" json:"full_name"`
	Role            UserRole  `db:"role" json:"role"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	IsPlatformAdmin bool      `db:"is_platform_admin" json:"is_platform_admin"` // set only by the bootstrap command
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// OTPChallenge is a pending second login step.
type OTPChallenge struct {
	ID          uuid.UUID  `db:"id"`
	TenantID    uuid.UUID  `db:"tenant_id"`
	UserID      uuid.UUID  `db:"user_id"`
	CodeHash    string     `db:"code_hash"`
	Attempts    int        `db:"attempts"`
	MaxAttempts int        `db:"max_attempts"`
	Resends     int        `db:"resends"`
	ExpiresAt   time.Time  `db:"expires_at"`
	ConsumedAt  *time.Time `db:"consumed_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// Country is a regulatory jurisdiction tracked by a company.
type Country struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	TenantID            uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name                string    `db:"name" json:"name"`
	Code                string    `db:"code" json:"code"`
	Region              string    `db:"region" json:"region"`
	RegulatoryAuthority string    `db:"regulatory_authority" json:"regulatory_authority"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// SoftDelete carries recycle bin bookkeeping.
type SoftDelete struct {
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	DeletedBy *uuid.UUID `db:"deleted_by" json:"deleted_by,omitempty"`
}

// Product is a medicinal product in a company's portfolio.
type Product struct {
	ID              uuid.UUID `db:"id" json:"id"`
	TenantID        uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name            string    `db:"name" json:"name"`
	GenericName     string    `db:"generic_name" json:"generic_name"`
	DosageForm      string    `db:"dosage_form" json:"dosage_form"`
	Strength        string    `db:"strength" json:"strength"`
	TherapeuticArea string    `db:"therapeutic_area" json:"therapeutic_area"`
	Manufacturer    string    `db:"manufacturer" json:"manufacturer"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedBy       uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
	SoftDelete
}

// Registration is a product's marketing authorization in one country.
type Registration struct {
	ID                 uuid.UUID          `db:"id" json:"id"`
	TenantID           uuid.UUID          `db:"tenant_id" json:"tenant_id"`
	ProductID          uuid.UUID          `db:"product_id" json:"product_id"`
	CountryID          uuid.UUID          `db:"country_id" json:"country_id"`
	RegistrationNumber string             `db:"registration_number" json:"registration_number"`
	Status             RegistrationStatus `db:"status" json:"status"`
	SubmissionDate     *Date              `db:"submission_date" json:"submission_date"`
	ApprovalDate       *Date              `db:"approval_date" json:"approval_date"`
	ExpiryDate         *Date              `db:"expiry_date" json:"expiry_date"`
	Notes              string             `db:"notes" json:"notes"`
	CreatedBy          uuid.UUID          `db:"created_by" json:"created_by"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
	SoftDelete

	// Joined for display; not written.
	ProductName string `db:"product_name" json:"product_name"`
	CountryName string `db:"country_name" json:"country_name"`
	CountryCode string `db:"country_code" json:"country_code"`
}

// Renewal is a filing that extends a registration's validity.
type Renewal struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	TenantID       uuid.UUID     `db:"tenant_id" json:"tenant_id"`
	RegistrationID uuid.UUID     `db:"registration_id" json:"registration_id"`
	DueDate        Date          `db:"due_date" json:"due_date"`
	SubmissionDate *Date         `db:"submission_date" json:"submission_date"`
	ApprovalDate   *Date         `db:"approval_date" json:"approval_date"`
	NewExpiryDate  *Date         `db:"new_expiry_date" json:"new_expiry_date"`
	Status         RenewalStatus `db:"status" json:"status"`
	Notes          string        `db:"notes" json:"notes"`
	CreatedBy      uuid.UUID     `db:"created_by" json:"created_by"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
	SoftDelete

	RegistrationNumber string `db:"registration_number" json:"registration_number"`
	ProductName        string `db:"product_name" json:"product_name"`
	CountryName        string `db:"country_name" json:"country_name"`
}

// Variation is a post-approval change filed against a registration.
type Variation struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	TenantID       uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	RegistrationID uuid.UUID       `db:"registration_id" json:"registration_id"`
	VariationType  VariationType   `db:"variation_type" json:"variation_type"`
	Title          string          `db:"title" json:"title"`
	Description    string          `db:"description" json:"description"`
	Status         VariationStatus `db:"status" json:"status"`
	SubmissionDate *Date           `db:"submission_date" json:"submission_date"`
	ApprovalDate   *Date           `db:"approval_date" json:"approval_date"`
	CreatedBy      uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
	SoftDelete

	RegistrationNumber string `db:"registration_number" json:"registration_number"`
	ProductName        string `db:"product_name" json:"product_name"`
	CountryName        string `db:"country_name" json:"country_name"`
}

// RecycleItem is one soft-deleted record as shown in the recycle bin.
type RecycleItem struct {
	EntityType EntityType `db:"entity_type" json:"entity_type"`
	ID         uuid.UUID  `db:"id" json:"id"`
	Label      string     `db:"label" json:"label"`
	DeletedAt  time.Time  `db:"deleted_at" json:"deleted_at"`
	DeletedBy  *uuid.UUID `db:"deleted_by" json:"deleted_by"`
}

// FileMeta stores metadata about an uploaded file.
type FileMeta struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	TenantID     uuid.UUID   `db:"tenant_id" json:"tenant_id"`
	UploadedBy   uuid.UUID   `db:"uploaded_by" json:"uploaded_by"`
	FileName     string      `db:"file_name" json:"file_name"`
	OriginalName string      `db:"original_name" json:"original_name"`
	FileType     FileType    `db:"file_type" json:"file_type"`
	FileSize     int64       `db:"file_size" json:"file_size"`
	S3Bucket     string      `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string      `db:"s3_key" json:"s3_key"`
	ContentType  string      `db:"content_type" json:"content_type"`
	Status       FileStatus  `db:"status" json:"status"`
	EntityType   *EntityType `db:"entity_type" json:"entity_type"`
	EntityID     *uuid.UUID  `db:"entity_id" json:"entity_id"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// UploadSession tracks one S3 multipart upload.
type UploadSession struct {
	ID           uuid.UUID           `db:"id" json:"id"`
	TenantID     uuid.UUID           `db:"tenant_id" json:"tenant_id"`
	FileID       uuid.UUID           `db:"file_id" json:"file_id"`
	CreatedBy    uuid.UUID           `db:"created_by" json:"created_by"`
	S3Bucket     string              `db:"s3_bucket" json:"-"`
	S3Key        string              `db:"s3_key" json:"key"`
	UploadID     string              `db:"upload_id" json:"-"`
	ContentType  string              `db:"content_type" json:"content_type"`
	DeclaredSize int64               `db:"declared_size" json:"declared_size"`
	PartSize     int64               `db:"part_size" json:"part_size"`
	PartCount    int                 `db:"part_count" json:"part_count"`
	Status       UploadSessionStatus `db:"status" json:"status"`
	ExpiresAt    time.Time           `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// UploadPart is one uploaded part of a multipart upload.
type UploadPart struct {
	SessionID  uuid.UUID `db:"session_id" json:"-"`
	PartNumber int       `db:"part_number" json:"part_number"`
	ETag       string    `db:"etag" json:"etag"`
	Size       int64     `db:"size" json:"size"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// UploadJob is the asynchronous completion of a multipart upload.
type UploadJob struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	TenantID   uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	SessionID  uuid.UUID       `db:"session_id" json:"session_id"`
	FileID     uuid.UUID       `db:"file_id" json:"file_id"`
	Status     UploadJobStatus `db:"status" json:"status"`
	Attempts   int             `db:"attempts" json:"attempts"`
	LastError  string          `db:"last_error" json:"last_error,omitempty"`
	StartedAt  *time.Time      `db:"started_at" json:"started_at"`
	FinishedAt *time.Time      `db:"finished_at" json:"finished_at"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// RegistrationStatusChange is one entry in a registration's status history.
type RegistrationStatusChange struct {
	ID             uuid.UUID          `db:"id" json:"id"`
	TenantID       uuid.UUID          `db:"tenant_id" json:"tenant_id"`
	RegistrationID uuid.UUID          `db:"registration_id" json:"registration_id"`
	FromStatus     RegistrationStatus `db:"from_status" json:"from_status"`
	ToStatus       RegistrationStatus `db:"to_status" json:"to_status"`
	ChangedBy      *uuid.UUID         `db:"changed_by" json:"changed_by"`
	Notes          string             `db:"notes" json:"notes"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
}
