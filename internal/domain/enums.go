package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeDOCX FileType = "docx"
	FileTypeXLSX FileType = "xlsx"
	FileTypeZIP  FileType = "zip"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FileTypeXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FileTypeZIP:  "application/zip",
}

// DetectedContentTypes maps the content type reported by magic-byte sniffing
// to the file types it may legitimately carry. Office documents are zip
// containers, so they sniff as application/zip.
var DetectedContentTypes = map[string][]FileType{
	"application/pdf": {FileTypePDF},
	"image/jpeg":      {FileTypeJPG},
	"image/png":       {FileTypePNG},
	"application/zip": {FileTypeDOCX, FileTypeXLSX, FileTypeZIP},
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"docx": FileTypeDOCX,
	"xlsx": FileTypeXLSX,
	"zip":  FileTypeZIP,
}

// UserRole defines the role hierarchy within a company.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleMember  UserRole = "member"
	RoleViewer  UserRole = "viewer"
)

// ValidUserRoles is the set of assignable roles.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleMember:  true,
	RoleViewer:  true,
}

// WriterRoles may create and edit registry records.
var WriterRoles = []UserRole{RoleAdmin, RoleManager, RoleMember}

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// EntityType names the registry records that files attach to and that
// the recycle bin manages.
type EntityType string

const (
	EntityProduct      EntityType = "product"
	EntityRegistration EntityType = "registration"
	EntityRenewal      EntityType = "renewal"
	EntityVariation    EntityType = "variation"
)

// RecyclableEntities lists entity types that are soft deleted.
var RecyclableEntities = map[EntityType]bool{
	EntityProduct:      true,
	EntityRegistration: true,
	EntityRenewal:      true,
	EntityVariation:    true,
}

// UploadSessionStatus tracks a multipart upload from creation to completion.
type UploadSessionStatus string

const (
	UploadSessionInitiated  UploadSessionStatus = "initiated"
	UploadSessionUploading  UploadSessionStatus = "uploading"
	UploadSessionCompleting UploadSessionStatus = "completing"
	UploadSessionCompleted  UploadSessionStatus = "completed"
	UploadSessionAborted    UploadSessionStatus = "aborted"
	UploadSessionFailed     UploadSessionStatus = "failed"
)

// AcceptsParts reports whether clients may still upload parts.
func (s UploadSessionStatus) AcceptsParts() bool {
	return s == UploadSessionInitiated || s == UploadSessionUploading
}

// UploadJobStatus tracks the asynchronous completion of a multipart upload.
type UploadJobStatus string

const (
	UploadJobQueued    UploadJobStatus = "queued"
	UploadJobRunning   UploadJobStatus = "running"
	UploadJobSucceeded UploadJobStatus = "succeeded"
	UploadJobFailed    UploadJobStatus = "failed"
)

// VariationType classifies a post-approval change.
type VariationType string

const (
	VariationTypeIA             VariationType = "type_ia"
	VariationTypeIB             VariationType = "type_ib"
	VariationTypeII             VariationType = "type_ii"
	VariationTypeAdministrative VariationType = "administrative"
)

// ValidVariationTypes is the set of accepted variation types.
var ValidVariationTypes = map[VariationType]bool{
	VariationTypeIA:             true,
	VariationTypeIB:             true,
	VariationTypeII:             true,
	VariationTypeAdministrative: true,
}

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)
