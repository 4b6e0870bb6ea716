package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"regtrack/internal/domain"
)

// CountryRepository defines the contract for country persistence.
type CountryRepository interface {
	Create(ctx context.Context, country *domain.Country) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Country, error)
	List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Country, int, error)
	Update(ctx context.Context, country *domain.Country) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ProductRepository defines the contract for product persistence.
// Reads exclude soft-deleted rows.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error
	SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error
}

// RegistrationRepository defines the contract for registration persistence.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.Registration) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Registration, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.RegistrationFilter) ([]domain.Registration, int, error)
	Update(ctx context.Context, reg *domain.Registration) error
	// UpdateAndScheduleRenewal writes reg and inserts renewal in one transaction.
	UpdateAndScheduleRenewal(ctx context.Context, reg *domain.Registration, renewal *domain.Renewal) error
	SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error
}

// RegistrationHistoryRepository records registration status changes.
type RegistrationHistoryRepository interface {
	Create(ctx context.Context, entry *domain.RegistrationStatusChange) error
	ListByRegistration(ctx context.Context, tenantID, registrationID uuid.UUID, offset, limit int) ([]domain.RegistrationStatusChange, int, error)
}

// RenewalRepository defines the contract for renewal persistence.
type RenewalRepository interface {
	Create(ctx context.Context, renewal *domain.Renewal) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Renewal, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.RenewalFilter) ([]domain.Renewal, int, error)
	Update(ctx context.Context, renewal *domain.Renewal) error
	// UpdateAndExtendRegistration writes renewal and reg in one transaction.
	UpdateAndExtendRegistration(ctx context.Context, renewal *domain.Renewal, reg *domain.Registration) error
	SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error
}

// VariationRepository defines the contract for variation persistence.
type VariationRepository interface {
	Create(ctx context.Context, variation *domain.Variation) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Variation, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.VariationFilter) ([]domain.Variation, int, error)
	Update(ctx context.Context, variation *domain.Variation) error
	SoftDelete(ctx context.Context, tenantID, id, deletedBy uuid.UUID) error
}

// RecycleRepository operates on soft-deleted rows across entity types.
type RecycleRepository interface {
	List(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, offset, limit int) ([]domain.RecycleItem, int, error)
	// ParentDeleted reports whether the record's parent is itself soft deleted.
	ParentDeleted(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) (bool, error)
	// HasLiveChildren reports whether any child of the record is outside the bin.
	HasLiveChildren(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) (bool, error)
	Restore(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error
	Purge(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DashboardRepository computes tenant-wide aggregates.
type DashboardRepository interface {
	CountProducts(ctx context.Context, tenantID uuid.UUID) (int, error)
	CountCountries(ctx context.Context, tenantID uuid.UUID) (int, error)
	RegistrationsByStatus(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error)
	RenewalsByStatus(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error)
	VariationsByStatus(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error)
	RenewalsDue(ctx context.Context, tenantID uuid.UUID, today domain.Date) (*domain.RenewalsDue, error)
	RegistrationsByCountry(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.CountryCount, error)
}
