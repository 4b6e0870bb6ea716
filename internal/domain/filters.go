package domain

import "github.com/google/uuid"

// Page holds offset pagination parameters.
type Page struct {
	Offset int
	Limit  int
}

// UserFilter narrows user listings. Search matches name or email.
type UserFilter struct {
	Role     UserRole
	IsActive *bool
	Search   string
	Page
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search string
	Page
}

// RegistrationFilter narrows registration listings and exports.
type RegistrationFilter struct {
	ProductID *uuid.UUID
	CountryID *uuid.UUID
	Status    RegistrationStatus
	Search    string
	Page
}

// RenewalFilter narrows renewal listings and exports.
type RenewalFilter struct {
	RegistrationID *uuid.UUID
	Status         RenewalStatus
	DueBefore      *Date
	Page
}

// VariationFilter narrows variation listings and exports.
type VariationFilter struct {
	RegistrationID *uuid.UUID
	Status         VariationStatus
	VariationType  VariationType
	Page
}

// StatusCount is one bucket of a GROUP BY status aggregate.
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

// CountryCount is the number of live registrations in one country.
type CountryCount struct {
	CountryID   uuid.UUID `db:"country_id" json:"country_id"`
	CountryName string    `db:"country_name" json:"country_name"`
	CountryCode string    `db:"country_code" json:"country_code"`
	Count       int       `db:"count" json:"count"`
}

// RenewalsDue buckets upcoming renewals by due window. Overdue renewals
// count in every bucket.
type RenewalsDue struct {
	Overdue  int `json:"overdue"`
	Within30 int `json:"within_30_days"`
	Within60 int `json:"within_60_days"`
	Within90 int `json:"within_90_days"`
}

// Dashboard aggregates the metrics shown on the landing page.
type Dashboard struct {
	TotalProducts          int            `json:"total_products"`
	TotalCountries         int            `json:"total_countries"`
	RegistrationsByStatus  []StatusCount  `json:"registrations_by_status"`
	RenewalsByStatus       []StatusCount  `json:"renewals_by_status"`
	VariationsByStatus     []StatusCount  `json:"variations_by_status"`
	RenewalsDue            RenewalsDue    `json:"renewals_due"`
	RegistrationsByCountry []CountryCount `json:"registrations_by_country"`
}
