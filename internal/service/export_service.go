package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"regtrack/internal/domain"
	"regtrack/internal/export"
	"regtrack/internal/port"
)

// exportBatchSize is the number of rows fetched per query while exporting.
const exportBatchSize = 500

// Exportable entity names, as used in export URLs and filenames.
const (
	ExportRegistrations = "registrations"
	ExportRenewals      = "renewals"
	ExportVariations    = "variations"
)

// ExportRequest selects what to export. Only the filter matching Entity is
// used; its Page is ignored.
type ExportRequest struct {
	Entity       string
	Format       domain.ExportFormat
	Registration domain.RegistrationFilter
	Renewal      domain.RenewalFilter
	Variation    domain.VariationFilter
}

// ExportService renders registry lists as spreadsheets.
type ExportService interface {
	Export(ctx context.Context, tenantID uuid.UUID, req ExportRequest, w io.Writer) error
}

type exportService struct {
	regRepo       port.RegistrationRepository
	renewalRepo   port.RenewalRepository
	variationRepo port.VariationRepository
}

// NewExportService creates a new ExportService implementation.
func NewExportService(
	regRepo port.RegistrationRepository,
	renewalRepo port.RenewalRepository,
	variationRepo port.VariationRepository,
) ExportService {
	return &exportService{regRepo: regRepo, renewalRepo: renewalRepo, variationRepo: variationRepo}
}

func (s *exportService) Export(ctx context.Context, tenantID uuid.UUID, req ExportRequest, w io.Writer) error {
	var write func(export.RowWriter) error
	switch req.Entity {
	case ExportRegistrations:
		write = func(rw export.RowWriter) error { return s.registrations(ctx, tenantID, req.Registration, rw) }
	case ExportRenewals:
		write = func(rw export.RowWriter) error { return s.renewals(ctx, tenantID, req.Renewal, rw) }
	case ExportVariations:
		write = func(rw export.RowWriter) error { return s.variations(ctx, tenantID, req.Variation, rw) }
	default:
		return domain.ErrInvalidEntityType
	}

	rw, err := export.NewWriter(req.Format, w)
	if err != nil {
		return err
	}
	if err := write(rw); err != nil {
		_ = rw.Close()
		return err
	}
	return rw.Close()
}

func (s *exportService) registrations(ctx context.Context, tenantID uuid.UUID, f domain.RegistrationFilter, rw export.RowWriter) error {
	if err := rw.WriteHeader(export.RegistrationColumns); err != nil {
		return err
	}
	f.Page = domain.Page{Limit: exportBatchSize}
	for {
		regs, total, err := s.regRepo.List(ctx, tenantID, f)
		if err != nil {
			return err
		}
		for i := range regs {
			if err := rw.WriteRow(export.RegistrationRow(&regs[i])); err != nil {
				return err
			}
		}
		f.Offset += exportBatchSize
		if len(regs) == 0 || f.Offset >= total {
			return nil
		}
	}
}

func (s *exportService) renewals(ctx context.Context, tenantID uuid.UUID, f domain.RenewalFilter, rw export.RowWriter) error {
	if err := rw.WriteHeader(export.RenewalColumns); err != nil {
		return err
	}
	f.Page = domain.Page{Limit: exportBatchSize}
	for {
		renewals, total, err := s.renewalRepo.List(ctx, tenantID, f)
		if err != nil {
			return err
		}
		for i := range renewals {
			if err := rw.WriteRow(export.RenewalRow(&renewals[i])); err != nil {
				return err
			}
		}
		f.Offset += exportBatchSize
		if len(renewals) == 0 || f.Offset >= total {
			return nil
		}
	}
}

func (s *exportService) variations(ctx context.Context, tenantID uuid.UUID, f domain.VariationFilter, rw export.RowWriter) error {
	if err := rw.WriteHeader(export.VariationColumns); err != nil {
		return err
	}
	f.Page = domain.Page{Limit: exportBatchSize}
	for {
		variations, total, err := s.variationRepo.List(ctx, tenantID, f)
		if err != nil {
			return err
		}
		for i := range variations {
			if err := rw.WriteRow(export.VariationRow(&variations[i])); err != nil {
				return err
			}
		}
		f.Offset += exportBatchSize
		if len(variations) == 0 || f.Offset >= total {
			return nil
		}
	}
}
