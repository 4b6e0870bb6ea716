package export

import (
	"time"

	"regtrack/internal/domain"
)

// RegistrationColumns is the header row of registration exports.
var RegistrationColumns = []string{
	"Product",
	"Country",
	"Country Code",
	"Registration Number",
	"Status",
	"Submission Date",
	"Approval Date",
	"Expiry Date",
	"Notes",
	"Created At",
}

// RenewalColumns is the header row of renewal exports.
var RenewalColumns = []string{
	"Product",
	"Country",
	"Registration Number",
	"Status",
	"Due Date",
	"Submission Date",
	"Approval Date",
	"New Expiry Date",
	"Notes",
	"Created At",
}

// VariationColumns is the header row of variation exports.
var VariationColumns = []string{
	"Product",
	"Country",
	"Registration Number",
	"Type",
	"Title",
	"Status",
	"Submission Date",
	"Approval Date",
	"Description",
	"Created At",
}

// RegistrationRow converts a registration to a row matching RegistrationColumns.
func RegistrationRow(r *domain.Registration) []string {
	return []string{
		r.ProductName,
		r.CountryName,
		r.CountryCode,
		r.RegistrationNumber,
		string(r.Status),
		formatDate(r.SubmissionDate),
		formatDate(r.ApprovalDate),
		formatDate(r.ExpiryDate),
		r.Notes,
		r.CreatedAt.Format(time.RFC3339),
	}
}

// RenewalRow converts a renewal to a row matching RenewalColumns.
func RenewalRow(r *domain.Renewal) []string {
	return []string{
		r.ProductName,
		r.CountryName,
		r.RegistrationNumber,
		string(r.Status),
		r.DueDate.String(),
		formatDate(r.SubmissionDate),
		formatDate(r.ApprovalDate),
		formatDate(r.NewExpiryDate),
		r.Notes,
		r.CreatedAt.Format(time.RFC3339),
	}
}

// VariationRow converts a variation to a row matching VariationColumns.
func VariationRow(v *domain.Variation) []string {
	return []string{
		v.ProductName,
		v.CountryName,
		v.RegistrationNumber,
		string(v.VariationType),
		v.Title,
		string(v.Status),
		formatDate(v.SubmissionDate),
		formatDate(v.ApprovalDate),
		v.Description,
		v.CreatedAt.Format(time.RFC3339),
	}
}

func formatDate(d *domain.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
