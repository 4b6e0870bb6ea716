package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// ProductInput is the DTO for creating a product.
type ProductInput struct {
	Name            string `json:"name" binding:"required"`
	GenericName     string `json:"generic_name"`
	DosageForm      string `json:"dosage_form"`
	Strength        string `json:"strength"`
	TherapeuticArea string `json:"therapeutic_area"`
	Manufacturer    string `json:"manufacturer"`
}

// UpdateProductInput is the DTO for updating a product.
type UpdateProductInput struct {
	Name            *string `json:"name"`
	GenericName     *string `json:"generic_name"`
	DosageForm      *string `json:"dosage_form"`
	Strength        *string `json:"strength"`
	TherapeuticArea *string `json:"therapeutic_area"`
	Manufacturer    *string `json:"manufacturer"`
	IsActive        *bool   `json:"is_active"`
}

// ImportRowError reports a spreadsheet row that was not imported.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a product spreadsheet import.
type ImportResult struct {
	Created int              `json:"created"`
	Skipped []ImportRowError `json:"skipped"`
}

// ProductService defines the product management contract.
type ProductService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, input ProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error
	Import(ctx context.Context, tenantID, userID uuid.UUID, r io.Reader) (*ImportResult, error)
}

type productService struct {
	repo port.ProductRepository
	log  *zap.Logger
}

// NewProductService creates a new ProductService implementation.
func NewProductService(repo port.ProductRepository, log *zap.Logger) ProductService {
	return &productService{repo: repo, log: log}
}

func (s *productService) Create(ctx context.Context, tenantID, userID uuid.UUID, input ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		TenantID:        tenantID,
		Name:            strings.TrimSpace(input.Name),
		GenericName:     strings.TrimSpace(input.GenericName),
		DosageForm:      input.DosageForm,
		Strength:        input.Strength,
		TherapeuticArea: input.TherapeuticArea,
		Manufacturer:    input.Manufacturer,
		IsActive:        true,
		CreatedBy:       userID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Product, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

func (s *productService) List(ctx context.Context, tenantID uuid.UUID, filter domain.ProductFilter) ([]domain.Product, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, tenantID, filter)
}

func (s *productService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.GenericName != nil {
		product.GenericName = strings.TrimSpace(*input.GenericName)
	}
	if input.DosageForm != nil {
		product.DosageForm = *input.DosageForm
	}
	if input.Strength != nil {
		product.Strength = *input.Strength
	}
	if input.TherapeuticArea != nil {
		product.TherapeuticArea = *input.TherapeuticArea
	}
	if input.Manufacturer != nil {
		product.Manufacturer = *input.Manufacturer
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error {
	return s.repo.SoftDelete(ctx, tenantID, id, userID)
}

// productColumns maps normalized header cells to product fields.
var productColumns = map[string]func(*ProductInput, string){
	"name":             func(p *ProductInput, v string) { p.Name = v },
	"generic_name":     func(p *ProductInput, v string) { p.GenericName = v },
	"dosage_form":      func(p *ProductInput, v string) { p.DosageForm = v },
	"strength":         func(p *ProductInput, v string) { p.Strength = v },
	"therapeutic_area": func(p *ProductInput, v string) { p.TherapeuticArea = v },
	"manufacturer":     func(p *ProductInput, v string) { p.Manufacturer = v },
}

// Import creates one product per row of the first sheet of an XLSX
// workbook. The first row is a header naming the columns; unknown columns
// are ignored and rows without a name are skipped.
func (s *productService) Import(ctx context.Context, tenantID, userID uuid.UUID, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: workbook is empty", domain.ErrInvalidImport)
	}

	setters := make([]func(*ProductInput, string), len(rows[0]))
	hasName := false
	for i, cell := range rows[0] {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(cell), " ", "_"))
		setters[i] = productColumns[key]
		if key == "name" {
			hasName = true
		}
	}
	if !hasName {
		return nil, fmt.Errorf("%w: header has no name column", domain.ErrInvalidImport)
	}

	result := &ImportResult{Skipped: []ImportRowError{}}
	for i, row := range rows[1:] {
		rowNum := i + 2
		var input ProductInput
		for col, cell := range row {
			if col < len(setters) && setters[col] != nil {
				setters[col](&input, strings.TrimSpace(cell))
			}
		}
		if input.Name == "" {
			result.Skipped = append(result.Skipped, ImportRowError{Row: rowNum, Reason: "missing name"})
			continue
		}
		if _, err := s.Create(ctx, tenantID, userID, input); err != nil {
			s.log.Warn("productService.Import: row failed", zap.Int("row", rowNum), zap.Error(err))
			result.Skipped = append(result.Skipped, ImportRowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		result.Created++
	}

	s.log.Info("productService.Import: done",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("created", result.Created), zap.Int("skipped", len(result.Skipped)))
	return result, nil
}
