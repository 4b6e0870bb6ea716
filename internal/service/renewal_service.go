package service

import (
	"context"

	"github.com/google/uuid"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// CreateRenewalInput is the DTO for creating a renewal.
type CreateRenewalInput struct {
	RegistrationID uuid.UUID    `json:"registration_id" binding:"required"`
	DueDate        domain.Date  `json:"due_date"`
	NewExpiryDate  *domain.Date `json:"new_expiry_date"`
	Notes          string       `json:"notes"`
}

// UpdateRenewalInput is the DTO for editing renewal details.
type UpdateRenewalInput struct {
	DueDate        *domain.Date `json:"due_date"`
	SubmissionDate *domain.Date `json:"submission_date"`
	ApprovalDate   *domain.Date `json:"approval_date"`
	NewExpiryDate  *domain.Date `json:"new_expiry_date"`
	Notes          *string      `json:"notes"`
}

// RenewalStatusInput moves a renewal to a new status.
type RenewalStatusInput struct {
	Status        domain.RenewalStatus `json:"status" binding:"required"`
	Date          *domain.Date         `json:"date"`
	NewExpiryDate *domain.Date         `json:"new_expiry_date"`
	Notes         *string              `json:"notes"`
}

// RenewalService defines the renewal lifecycle contract.
type RenewalService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, input CreateRenewalInput) (*domain.Renewal, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Renewal, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.RenewalFilter) ([]domain.Renewal, int, error)
	ListDue(ctx context.Context, tenantID uuid.UUID, withinDays int, page domain.Page) ([]domain.Renewal, int, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateRenewalInput) (*domain.Renewal, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, input RenewalStatusInput) (*domain.Renewal, error)
	Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error
}

type renewalService struct {
	renewalRepo port.RenewalRepository
	regRepo     port.RegistrationRepository
}

// NewRenewalService creates a new RenewalService implementation.
func NewRenewalService(renewalRepo port.RenewalRepository, regRepo port.RegistrationRepository) RenewalService {
	return &renewalService{renewalRepo: renewalRepo, regRepo: regRepo}
}

func (s *renewalService) Create(ctx context.Context, tenantID, userID uuid.UUID, input CreateRenewalInput) (*domain.Renewal, error) {
	if input.DueDate.IsZero() {
		return nil, domain.ErrMissingDate
	}
	reg, err := s.regRepo.GetByID(ctx, tenantID, input.RegistrationID)
	if err != nil {
		return nil, err
	}

	renewal := &domain.Renewal{
		TenantID:           tenantID,
		RegistrationID:     reg.ID,
		DueDate:            input.DueDate,
		NewExpiryDate:      input.NewExpiryDate,
		Status:             domain.RenewalUpcoming,
		Notes:              input.Notes,
		CreatedBy:          userID,
		RegistrationNumber: reg.RegistrationNumber,
		ProductName:        reg.ProductName,
		CountryName:        reg.CountryName,
	}
	if err := s.renewalRepo.Create(ctx, renewal); err != nil {
		return nil, err
	}
	return renewal, nil
}

func (s *renewalService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Renewal, error) {
	return s.renewalRepo.GetByID(ctx, tenantID, id)
}

func (s *renewalService) List(ctx context.Context, tenantID uuid.UUID, filter domain.RenewalFilter) ([]domain.Renewal, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.ErrInvalidStatus
	}
	return s.renewalRepo.List(ctx, tenantID, filter)
}

// ListDue returns upcoming renewals due within withinDays, overdue included.
func (s *renewalService) ListDue(ctx context.Context, tenantID uuid.UUID, withinDays int, page domain.Page) ([]domain.Renewal, int, error) {
	if withinDays < 0 {
		withinDays = 0
	}
	before := domain.Today().AddDays(withinDays)
	return s.renewalRepo.List(ctx, tenantID, domain.RenewalFilter{
		Status:    domain.RenewalUpcoming,
		DueBefore: &before,
		Page:      page,
	})
}

func (s *renewalService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateRenewalInput) (*domain.Renewal, error) {
	renewal, err := s.renewalRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.DueDate != nil && !input.DueDate.IsZero() {
		renewal.DueDate = *input.DueDate
	}
	if input.SubmissionDate != nil {
		renewal.SubmissionDate = input.SubmissionDate
	}
	if input.ApprovalDate != nil {
		renewal.ApprovalDate = input.ApprovalDate
	}
	if input.NewExpiryDate != nil {
		renewal.NewExpiryDate = input.NewExpiryDate
	}
	if input.Notes != nil {
		renewal.Notes = *input.Notes
	}

	if err := s.renewalRepo.Update(ctx, renewal); err != nil {
		return nil, err
	}
	return renewal, nil
}

func (s *renewalService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, input RenewalStatusInput) (*domain.Renewal, error) {
	if !input.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	renewal, err := s.renewalRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !renewal.Status.CanTransitionTo(input.Status) {
		return nil, domain.ErrInvalidStatusTransition
	}

	date := domain.Today()
	if input.Date != nil && !input.Date.IsZero() {
		date = *input.Date
	}

	renewal.Status = input.Status
	if input.Notes != nil {
		renewal.Notes = *input.Notes
	}
	switch input.Status {
	case domain.RenewalSubmitted:
		renewal.SubmissionDate = &date
	case domain.RenewalApproved:
		renewal.ApprovalDate = &date
		if input.NewExpiryDate != nil && !input.NewExpiryDate.IsZero() {
			renewal.NewExpiryDate = input.NewExpiryDate
		}
		if renewal.NewExpiryDate != nil {
			reg, err := s.regRepo.GetByID(ctx, tenantID, renewal.RegistrationID)
			if err != nil {
				return nil, err
			}
			reg.ExpiryDate = renewal.NewExpiryDate
			if reg.Status == domain.RegistrationExpired {
				reg.Status = domain.RegistrationApproved
			}
			if err := s.renewalRepo.UpdateAndExtendRegistration(ctx, renewal, reg); err != nil {
				return nil, err
			}
			return renewal, nil
		}
	}

	if err := s.renewalRepo.Update(ctx, renewal); err != nil {
		return nil, err
	}
	return renewal, nil
}

func (s *renewalService) Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error {
	return s.renewalRepo.SoftDelete(ctx, tenantID, id, userID)
}
