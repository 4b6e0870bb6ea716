package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// CreateVariationInput is the DTO for filing a variation.
type CreateVariationInput struct {
	RegistrationID uuid.UUID            `json:"registration_id" binding:"required"`
	VariationType  domain.VariationType `json:"variation_type" binding:"required"`
	Title          string               `json:"title" binding:"required"`
	Description    string               `json:"description"`
}

// UpdateVariationInput is the DTO for editing variation details.
type UpdateVariationInput struct {
	VariationType  *domain.VariationType `json:"variation_type"`
	Title          *string               `json:"title"`
	Description    *string               `json:"description"`
	SubmissionDate *domain.Date          `json:"submission_date"`
	ApprovalDate   *domain.Date          `json:"approval_date"`
}

// VariationStatusInput moves a variation to a new status.
type VariationStatusInput struct {
	Status domain.VariationStatus `json:"status" binding:"required"`
	Date   *domain.Date           `json:"date"`
}

// VariationService defines the variation lifecycle contract.
type VariationService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, input CreateVariationInput) (*domain.Variation, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Variation, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.VariationFilter) ([]domain.Variation, int, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateVariationInput) (*domain.Variation, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, input VariationStatusInput) (*domain.Variation, error)
	Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error
}

type variationService struct {
	variationRepo port.VariationRepository
	regRepo       port.RegistrationRepository
}

// NewVariationService creates a new VariationService implementation.
func NewVariationService(variationRepo port.VariationRepository, regRepo port.RegistrationRepository) VariationService {
	return &variationService{variationRepo: variationRepo, regRepo: regRepo}
}

func (s *variationService) Create(ctx context.Context, tenantID, userID uuid.UUID, input CreateVariationInput) (*domain.Variation, error) {
	if !domain.ValidVariationTypes[input.VariationType] {
		return nil, domain.ErrInvalidVariationType
	}
	reg, err := s.regRepo.GetByID(ctx, tenantID, input.RegistrationID)
	if err != nil {
		return nil, err
	}
	if reg.Status != domain.RegistrationApproved {
		return nil, domain.ErrRegistrationNotApproved
	}

	v := &domain.Variation{
		TenantID:           tenantID,
		RegistrationID:     reg.ID,
		VariationType:      input.VariationType,
		Title:              strings.TrimSpace(input.Title),
		Description:        input.Description,
		Status:             domain.VariationDraft,
		CreatedBy:          userID,
		RegistrationNumber: reg.RegistrationNumber,
		ProductName:        reg.ProductName,
		CountryName:        reg.CountryName,
	}
	if err := s.variationRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *variationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Variation, error) {
	return s.variationRepo.GetByID(ctx, tenantID, id)
}

func (s *variationService) List(ctx context.Context, tenantID uuid.UUID, filter domain.VariationFilter) ([]domain.Variation, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.ErrInvalidStatus
	}
	if filter.VariationType != "" && !domain.ValidVariationTypes[filter.VariationType] {
		return nil, 0, domain.ErrInvalidVariationType
	}
	return s.variationRepo.List(ctx, tenantID, filter)
}

func (s *variationService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateVariationInput) (*domain.Variation, error) {
	v, err := s.variationRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.VariationType != nil {
		if !domain.ValidVariationTypes[*input.VariationType] {
			return nil, domain.ErrInvalidVariationType
		}
		v.VariationType = *input.VariationType
	}
	if input.Title != nil {
		v.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		v.Description = *input.Description
	}
	if input.SubmissionDate != nil {
		v.SubmissionDate = input.SubmissionDate
	}
	if input.ApprovalDate != nil {
		v.ApprovalDate = input.ApprovalDate
	}

	if err := s.variationRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *variationService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, input VariationStatusInput) (*domain.Variation, error) {
	if !input.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	v, err := s.variationRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !v.Status.CanTransitionTo(input.Status) {
		return nil, domain.ErrInvalidStatusTransition
	}

	date := domain.Today()
	if input.Date != nil && !input.Date.IsZero() {
		date = *input.Date
	}

	v.Status = input.Status
	switch input.Status {
	case domain.VariationSubmitted:
		v.SubmissionDate = &date
	case domain.VariationApproved:
		v.ApprovalDate = &date
	}

	if err := s.variationRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *variationService) Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error {
	return s.variationRepo.SoftDelete(ctx, tenantID, id, userID)
}
