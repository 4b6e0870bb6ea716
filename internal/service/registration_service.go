package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"regtrack/internal/config"
	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// CreateRegistrationInput is the DTO for creating a registration.
type CreateRegistrationInput struct {
	ProductID          uuid.UUID                 `json:"product_id" binding:"required"`
	CountryID          uuid.UUID                 `json:"country_id" binding:"required"`
	RegistrationNumber string                    `json:"registration_number"`
	Status             domain.RegistrationStatus `json:"status"`
	SubmissionDate     *domain.Date              `json:"submission_date"`
	ApprovalDate       *domain.Date              `json:"approval_date"`
	ExpiryDate         *domain.Date              `json:"expiry_date"`
	Notes              string                    `json:"notes"`
}

// UpdateRegistrationInput is the DTO for editing registration details.
// Status changes go through ChangeStatus.
type UpdateRegistrationInput struct {
	RegistrationNumber *string      `json:"registration_number"`
	SubmissionDate     *domain.Date `json:"submission_date"`
	ApprovalDate       *domain.Date `json:"approval_date"`
	ExpiryDate         *domain.Date `json:"expiry_date"`
	Notes              *string      `json:"notes"`
}

// RegistrationStatusInput moves a registration to a new status. Date is the
// submission or approval date and defaults to today.
type RegistrationStatusInput struct {
	Status     domain.RegistrationStatus `json:"status" binding:"required"`
	Date       *domain.Date              `json:"date"`
	ExpiryDate *domain.Date              `json:"expiry_date"`
	Notes      *string                   `json:"notes"`
}

// RegistrationService defines the registration lifecycle contract.
type RegistrationService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, input CreateRegistrationInput) (*domain.Registration, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Registration, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.RegistrationFilter) ([]domain.Registration, int, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateRegistrationInput) (*domain.Registration, error)
	ChangeStatus(ctx context.Context, tenantID, id, userID uuid.UUID, input RegistrationStatusInput) (*domain.Registration, error)
	Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error
	History(ctx context.Context, tenantID, id uuid.UUID, page domain.Page) ([]domain.RegistrationStatusChange, int, error)
}

type registrationService struct {
	regRepo     port.RegistrationRepository
	productRepo port.ProductRepository
	countryRepo port.CountryRepository
	renewalRepo port.RenewalRepository
	historyRepo port.RegistrationHistoryRepository
	cfg         config.RenewalConfig
	log         *zap.Logger
}

// NewRegistrationService creates a new RegistrationService implementation.
func NewRegistrationService(
	regRepo port.RegistrationRepository,
	productRepo port.ProductRepository,
	countryRepo port.CountryRepository,
	renewalRepo port.RenewalRepository,
	historyRepo port.RegistrationHistoryRepository,
	cfg config.RenewalConfig,
	log *zap.Logger,
) RegistrationService {
	return &registrationService{
		regRepo:     regRepo,
		productRepo: productRepo,
		countryRepo: countryRepo,
		renewalRepo: renewalRepo,
		historyRepo: historyRepo,
		cfg:         cfg,
		log:         log,
	}
}

func (s *registrationService) Create(ctx context.Context, tenantID, userID uuid.UUID, input CreateRegistrationInput) (*domain.Registration, error) {
	status := input.Status
	if status == "" {
		status = domain.RegistrationPlanned
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if !status.Initial() {
		return nil, domain.ErrInvalidStatusTransition
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, input.ProductID)
	if err != nil {
		return nil, err
	}
	country, err := s.countryRepo.GetByID(ctx, tenantID, input.CountryID)
	if err != nil {
		return nil, err
	}

	reg := &domain.Registration{
		TenantID:           tenantID,
		ProductID:          product.ID,
		CountryID:          country.ID,
		RegistrationNumber: strings.TrimSpace(input.RegistrationNumber),
		Status:             status,
		SubmissionDate:     input.SubmissionDate,
		ApprovalDate:       input.ApprovalDate,
		ExpiryDate:         input.ExpiryDate,
		Notes:              input.Notes,
		CreatedBy:          userID,
		ProductName:        product.Name,
		CountryName:        country.Name,
		CountryCode:        country.Code,
	}
	// Same date rules as ChangeStatus.
	today := domain.Today()
	switch status {
	case domain.RegistrationSubmitted:
		if reg.SubmissionDate == nil || reg.SubmissionDate.IsZero() {
			reg.SubmissionDate = &today
		}
	case domain.RegistrationApproved:
		if reg.ApprovalDate == nil || reg.ApprovalDate.IsZero() {
			reg.ApprovalDate = &today
		}
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, err
	}
	s.recordStatus(ctx, reg, "", userID, nil)

	if reg.Status == domain.RegistrationApproved && reg.ExpiryDate != nil {
		renewal := s.renewalFor(reg, userID)
		if err := s.renewalRepo.Create(ctx, renewal); err != nil {
			s.log.Error("registrationService.Create: scheduling renewal failed",
				zap.String("registration_id", reg.ID.String()), zap.Error(err))
		}
	}
	return reg, nil
}

func (s *registrationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Registration, error) {
	return s.regRepo.GetByID(ctx, tenantID, id)
}

func (s *registrationService) List(ctx context.Context, tenantID uuid.UUID, filter domain.RegistrationFilter) ([]domain.Registration, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.ErrInvalidStatus
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.regRepo.List(ctx, tenantID, filter)
}

func (s *registrationService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateRegistrationInput) (*domain.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.RegistrationNumber != nil {
		reg.RegistrationNumber = strings.TrimSpace(*input.RegistrationNumber)
	}
	if input.SubmissionDate != nil {
		reg.SubmissionDate = input.SubmissionDate
	}
	if input.ApprovalDate != nil {
		reg.ApprovalDate = input.ApprovalDate
	}
	if input.ExpiryDate != nil {
		reg.ExpiryDate = input.ExpiryDate
	}
	if input.Notes != nil {
		reg.Notes = *input.Notes
	}

	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) ChangeStatus(ctx context.Context, tenantID, id, userID uuid.UUID, input RegistrationStatusInput) (*domain.Registration, error) {
	if !input.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	reg, err := s.regRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !reg.Status.CanTransitionTo(input.Status) {
		return nil, domain.ErrInvalidStatusTransition
	}

	date := domain.Today()
	if input.Date != nil && !input.Date.IsZero() {
		date = *input.Date
	}

	from := reg.Status
	reg.Status = input.Status
	if input.Notes != nil {
		reg.Notes = *input.Notes
	}
	switch input.Status {
	case domain.RegistrationSubmitted:
		reg.SubmissionDate = &date
	case domain.RegistrationApproved:
		reg.ApprovalDate = &date
		if input.ExpiryDate != nil && !input.ExpiryDate.IsZero() {
			reg.ExpiryDate = input.ExpiryDate
		}
		if reg.ExpiryDate != nil {
			if err := s.regRepo.UpdateAndScheduleRenewal(ctx, reg, s.renewalFor(reg, userID)); err != nil {
				return nil, err
			}
			s.recordStatus(ctx, reg, from, userID, input.Notes)
			return reg, nil
		}
	}

	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, err
	}
	s.recordStatus(ctx, reg, from, userID, input.Notes)
	return reg, nil
}

func (s *registrationService) Delete(ctx context.Context, tenantID, id, userID uuid.UUID) error {
	return s.regRepo.SoftDelete(ctx, tenantID, id, userID)
}

func (s *registrationService) History(ctx context.Context, tenantID, id uuid.UUID, page domain.Page) ([]domain.RegistrationStatusChange, int, error) {
	if _, err := s.regRepo.GetByID(ctx, tenantID, id); err != nil {
		return nil, 0, err
	}
	return s.historyRepo.ListByRegistration(ctx, tenantID, id, page.Offset, page.Limit)
}

// recordStatus appends a history entry. The status change is already
// committed, so a failed write is logged and not returned.
func (s *registrationService) recordStatus(ctx context.Context, reg *domain.Registration, from domain.RegistrationStatus, userID uuid.UUID, notes *string) {
	entry := &domain.RegistrationStatusChange{
		TenantID:       reg.TenantID,
		RegistrationID: reg.ID,
		FromStatus:     from,
		ToStatus:       reg.Status,
	}
	if userID != uuid.Nil {
		entry.ChangedBy = &userID
	}
	if notes != nil {
		entry.Notes = *notes
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		s.log.Warn("registrationService: recording status change failed",
			zap.String("registration_id", reg.ID.String()),
			zap.String("to_status", string(reg.Status)),
			zap.Error(err))
	}
}

// renewalFor builds the upcoming renewal for an approved registration,
// due renewal.lead_days before expiry.
func (s *registrationService) renewalFor(reg *domain.Registration, userID uuid.UUID) *domain.Renewal {
	return &domain.Renewal{
		TenantID:       reg.TenantID,
		RegistrationID: reg.ID,
		DueDate:        reg.ExpiryDate.AddDays(-s.cfg.LeadDays),
		Status:         domain.RenewalUpcoming,
		CreatedBy:      userID,
	}
}
