package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"regtrack/internal/config"
	"regtrack/internal/domain"
	"regtrack/internal/service"
	"regtrack/mocks"
)

type registryDeps struct {
	regRepo       *mocks.MockRegistrationRepo
	productRepo   *mocks.MockProductRepo
	countryRepo   *mocks.MockCountryRepo
	renewalRepo   *mocks.MockRenewalRepo
	variationRepo *mocks.MockVariationRepo
	historyRepo   *mocks.MockRegistrationHistoryRepo
}

func newRegistryDeps() *registryDeps {
	return &registryDeps{
		regRepo:       new(mocks.MockRegistrationRepo),
		productRepo:   new(mocks.MockProductRepo),
		countryRepo:   new(mocks.MockCountryRepo),
		renewalRepo:   new(mocks.MockRenewalRepo),
		variationRepo: new(mocks.MockVariationRepo),
		historyRepo:   new(mocks.MockRegistrationHistoryRepo),
	}
}

func setupRegistrationService() (service.RegistrationService, *registryDeps) {
	d := newRegistryDeps()
	d.historyRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	svc := service.NewRegistrationService(d.regRepo, d.productRepo, d.countryRepo, d.renewalRepo, d.historyRepo,
		config.RenewalConfig{LeadDays: 180}, zap.NewNop())
	return svc, d
}

func date(y int, m time.Month, d int) *domain.Date {
	v := domain.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return &v
}

func TestRegistrationService_Create_DefaultsToPlanned(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()
	product := &domain.Product{ID: uuid.New(), Name: "Amoxicillin 500mg"}
	country := &domain.Country{ID: uuid.New(), Name: "Germany", Code: "DE"}

	d.productRepo.On("GetByID", ctx, tenantID, product.ID).Return(product, nil)
	d.countryRepo.On("GetByID", ctx, tenantID, country.ID).Return(country, nil)
	d.regRepo.On("Create", ctx, mock.MatchedBy(func(r *domain.Registration) bool {
		return r.Status == domain.RegistrationPlanned && r.RegistrationNumber == "DE-1" && r.CreatedBy == userID
	})).Return(nil)

	reg, err := svc.Create(ctx, tenantID, userID, service.CreateRegistrationInput{
		ProductID:          product.ID,
		CountryID:          country.ID,
		RegistrationNumber: "  DE-1 ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Germany", reg.CountryName)
	assert.Equal(t, "DE", reg.CountryCode)
	d.renewalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_Create_ApprovedSchedulesRenewal(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()
	product := &domain.Product{ID: uuid.New()}
	country := &domain.Country{ID: uuid.New()}

	d.productRepo.On("GetByID", ctx, tenantID, product.ID).Return(product, nil)
	d.countryRepo.On("GetByID", ctx, tenantID, country.ID).Return(country, nil)
	d.regRepo.On("Create", ctx, mock.Anything).Return(nil)
	d.renewalRepo.On("Create", ctx, mock.MatchedBy(func(r *domain.Renewal) bool {
		return r.Status == domain.RenewalUpcoming && r.DueDate.String() == "2029-07-05"
	})).Return(nil)

	reg, err := svc.Create(ctx, tenantID, userID, service.CreateRegistrationInput{
		ProductID:  product.ID,
		CountryID:  country.ID,
		Status:     domain.RegistrationApproved,
		ExpiryDate: date(2030, time.January, 1),
	})

	require.NoError(t, err)
	require.NotNil(t, reg.ApprovalDate)
	assert.Equal(t, domain.Today(), *reg.ApprovalDate)
	d.renewalRepo.AssertExpectations(t)
}

func TestRegistrationService_Create_DatesFollowStatus(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID := uuid.New()
	product := &domain.Product{ID: uuid.New()}
	country := &domain.Country{ID: uuid.New()}

	d.productRepo.On("GetByID", ctx, tenantID, product.ID).Return(product, nil)
	d.countryRepo.On("GetByID", ctx, tenantID, country.ID).Return(country, nil)
	d.regRepo.On("Create", ctx, mock.Anything).Return(nil)

	submitted, err := svc.Create(ctx, tenantID, uuid.New(), service.CreateRegistrationInput{
		ProductID: product.ID,
		CountryID: country.ID,
		Status:    domain.RegistrationSubmitted,
	})
	require.NoError(t, err)
	require.NotNil(t, submitted.SubmissionDate)
	assert.Equal(t, domain.Today(), *submitted.SubmissionDate)
	assert.Nil(t, submitted.ApprovalDate)

	approved, err := svc.Create(ctx, tenantID, uuid.New(), service.CreateRegistrationInput{
		ProductID:    product.ID,
		CountryID:    country.ID,
		Status:       domain.RegistrationApproved,
		ApprovalDate: date(2024, time.May, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", approved.ApprovalDate.String())
	d.renewalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_Create_RejectsNonInitialStatus(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()

	for _, status := range []domain.RegistrationStatus{
		domain.RegistrationUnderReview,
		domain.RegistrationRejected,
		domain.RegistrationExpired,
		domain.RegistrationWithdrawn,
	} {
		t.Run(string(status), func(t *testing.T) {
			_, err := svc.Create(ctx, uuid.New(), uuid.New(), service.CreateRegistrationInput{
				ProductID: uuid.New(),
				CountryID: uuid.New(),
				Status:    status,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
		})
	}
	d.regRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.historyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_Create_Rejections(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID := uuid.New()
	product := &domain.Product{ID: uuid.New()}
	country := &domain.Country{ID: uuid.New()}

	_, err := svc.Create(ctx, tenantID, uuid.New(), service.CreateRegistrationInput{Status: "pending"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	d.productRepo.On("GetByID", ctx, tenantID, product.ID).Return(product, nil)
	d.countryRepo.On("GetByID", ctx, tenantID, country.ID).Return(country, nil)
	d.regRepo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateRegistration)

	_, err = svc.Create(ctx, tenantID, uuid.New(), service.CreateRegistrationInput{ProductID: product.ID, CountryID: country.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)
}

func TestRegistrationService_ChangeStatus_ApproveSchedulesRenewalAtomically(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()
	reg := &domain.Registration{ID: uuid.New(), TenantID: tenantID, Status: domain.RegistrationUnderReview}

	d.regRepo.On("GetByID", ctx, tenantID, reg.ID).Return(reg, nil)
	d.regRepo.On("UpdateAndScheduleRenewal", ctx, reg, mock.MatchedBy(func(r *domain.Renewal) bool {
		return r.RegistrationID == reg.ID && r.DueDate.String() == "2030-07-04" && r.CreatedBy == userID
	})).Return(nil)

	got, err := svc.ChangeStatus(ctx, tenantID, reg.ID, userID, service.RegistrationStatusInput{
		Status:     domain.RegistrationApproved,
		Date:       date(2026, time.March, 1),
		ExpiryDate: date(2030, time.December, 31),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationApproved, got.Status)
	assert.Equal(t, "2026-03-01", got.ApprovalDate.String())
	d.regRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRegistrationService_ChangeStatus_SubmitStampsDate(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID := uuid.New()
	reg := &domain.Registration{ID: uuid.New(), TenantID: tenantID, Status: domain.RegistrationPlanned}

	d.regRepo.On("GetByID", ctx, tenantID, reg.ID).Return(reg, nil)
	d.regRepo.On("Update", ctx, reg).Return(nil)

	got, err := svc.ChangeStatus(ctx, tenantID, reg.ID, uuid.New(), service.RegistrationStatusInput{Status: domain.RegistrationSubmitted})

	require.NoError(t, err)
	require.NotNil(t, got.SubmissionDate)
	assert.Equal(t, domain.Today().String(), got.SubmissionDate.String())
	d.historyRepo.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(e *domain.RegistrationStatusChange) bool {
		return e.RegistrationID == reg.ID && e.TenantID == tenantID &&
			e.FromStatus == domain.RegistrationPlanned && e.ToStatus == domain.RegistrationSubmitted
	}))
}

func TestRegistrationService_ChangeStatus_HistoryFailureIsNotFatal(t *testing.T) {
	d := newRegistryDeps()
	svc := service.NewRegistrationService(d.regRepo, d.productRepo, d.countryRepo, d.renewalRepo, d.historyRepo,
		config.RenewalConfig{LeadDays: 180}, zap.NewNop())
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()
	reg := &domain.Registration{ID: uuid.New(), TenantID: tenantID, Status: domain.RegistrationSubmitted}
	notes := "agency requested more data"

	d.regRepo.On("GetByID", ctx, tenantID, reg.ID).Return(reg, nil)
	d.regRepo.On("Update", ctx, reg).Return(nil)
	d.historyRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.RegistrationStatusChange) bool {
		return e.ChangedBy != nil && *e.ChangedBy == userID && e.Notes == notes
	})).Return(errors.New("db down"))

	got, err := svc.ChangeStatus(ctx, tenantID, reg.ID, userID, service.RegistrationStatusInput{
		Status: domain.RegistrationUnderReview,
		Notes:  &notes,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationUnderReview, got.Status)
	d.historyRepo.AssertExpectations(t)
}

func TestRegistrationService_ChangeStatus_RejectedTransitionLeavesNoHistory(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID := uuid.New()
	reg := &domain.Registration{ID: uuid.New(), TenantID: tenantID, Status: domain.RegistrationApproved}

	d.regRepo.On("GetByID", ctx, tenantID, reg.ID).Return(reg, nil)

	_, err := svc.ChangeStatus(ctx, tenantID, reg.ID, uuid.New(), service.RegistrationStatusInput{Status: domain.RegistrationPlanned})

	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	d.historyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_History(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID := uuid.New()
	reg := &domain.Registration{ID: uuid.New(), TenantID: tenantID}
	missing := uuid.New()
	entries := []domain.RegistrationStatusChange{
		{ID: uuid.New(), RegistrationID: reg.ID, FromStatus: domain.RegistrationPlanned, ToStatus: domain.RegistrationSubmitted},
	}

	d.regRepo.On("GetByID", ctx, tenantID, reg.ID).Return(reg, nil)
	d.regRepo.On("GetByID", ctx, tenantID, missing).Return(nil, domain.ErrNotFound)
	d.historyRepo.On("ListByRegistration", ctx, tenantID, reg.ID, 10, 5).Return(entries, 11, nil)

	got, total, err := svc.History(ctx, tenantID, reg.ID, domain.Page{Offset: 10, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, entries, got)
	assert.Equal(t, 11, total)

	_, _, err = svc.History(ctx, tenantID, missing, domain.Page{Limit: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	d.historyRepo.AssertNumberOfCalls(t, "ListByRegistration", 1)
}

func TestRegistrationService_ChangeStatus_InvalidTransition(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID := uuid.New()
	reg := &domain.Registration{ID: uuid.New(), Status: domain.RegistrationPlanned}

	d.regRepo.On("GetByID", ctx, tenantID, reg.ID).Return(reg, nil)

	_, err := svc.ChangeStatus(ctx, tenantID, reg.ID, uuid.New(), service.RegistrationStatusInput{Status: domain.RegistrationApproved})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	_, err = svc.ChangeStatus(ctx, tenantID, reg.ID, uuid.New(), service.RegistrationStatusInput{Status: "done"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestRegistrationService_List_ValidatesStatus(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID := uuid.New()

	_, _, err := svc.List(ctx, tenantID, domain.RegistrationFilter{Status: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	d.regRepo.On("List", ctx, tenantID, domain.RegistrationFilter{Search: "amox", Page: domain.Page{Limit: 20}}).
		Return([]domain.Registration{{ID: uuid.New()}}, 1, nil)

	items, total, err := svc.List(ctx, tenantID, domain.RegistrationFilter{Search: " amox ", Page: domain.Page{Limit: 20}})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, total)
}

func TestRegistrationService_Delete(t *testing.T) {
	svc, d := setupRegistrationService()
	ctx := context.Background()
	tenantID, id, userID := uuid.New(), uuid.New(), uuid.New()

	d.regRepo.On("SoftDelete", ctx, tenantID, id, userID).Return(errors.New("boom"))

	assert.Error(t, svc.Delete(ctx, tenantID, id, userID))
}

// --- Renewals ---

func setupRenewalService() (service.RenewalService, *registryDeps) {
	d := newRegistryDeps()
	return service.NewRenewalService(d.renewalRepo, d.regRepo), d
}

func TestRenewalService_Create_RequiresDueDate(t *testing.T) {
	svc, _ := setupRenewalService()

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), service.CreateRenewalInput{RegistrationID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrMissingDate)
}

func TestRenewalService_Create(t *testing.T) {
	svc, d := setupRenewalService()
	ctx := context.Background()
	tenantID := uuid.New()
	reg := &domain.Registration{ID: uuid.New(), RegistrationNumber: "FR-77", ProductName: "Amoxicillin"}

	d.regRepo.On("GetByID", ctx, tenantID, reg.ID).Return(reg, nil)
	d.renewalRepo.On("Create", ctx, mock.MatchedBy(func(r *domain.Renewal) bool {
		return r.Status == domain.RenewalUpcoming && r.RegistrationNumber == "FR-77"
	})).Return(nil)

	got, err := svc.Create(ctx, tenantID, uuid.New(), service.CreateRenewalInput{
		RegistrationID: reg.ID,
		DueDate:        *date(2027, time.June, 1),
	})

	require.NoError(t, err)
	assert.Equal(t, "2027-06-01", got.DueDate.String())
}

func TestRenewalService_ListDue(t *testing.T) {
	svc, d := setupRenewalService()
	ctx := context.Background()
	tenantID := uuid.New()
	want := domain.Today().AddDays(30)

	d.renewalRepo.On("List", ctx, tenantID, mock.MatchedBy(func(f domain.RenewalFilter) bool {
		return f.Status == domain.RenewalUpcoming && f.DueBefore != nil && f.DueBefore.String() == want.String() && f.Limit == 10
	})).Return([]domain.Renewal{}, 0, nil)

	_, _, err := svc.ListDue(ctx, tenantID, 30, domain.Page{Limit: 10})

	require.NoError(t, err)
	d.renewalRepo.AssertExpectations(t)
}

func TestRenewalService_ChangeStatus_ApprovalExtendsRegistration(t *testing.T) {
	svc, d := setupRenewalService()
	ctx := context.Background()
	tenantID := uuid.New()
	reg := &domain.Registration{ID: uuid.New(), Status: domain.RegistrationExpired, ExpiryDate: date(2025, time.January, 1)}
	renewal := &domain.Renewal{ID: uuid.New(), RegistrationID: reg.ID, Status: domain.RenewalSubmitted}

	d.renewalRepo.On("GetByID", ctx, tenantID, renewal.ID).Return(renewal, nil)
	d.regRepo.On("GetByID", ctx, tenantID, reg.ID).Return(reg, nil)
	d.renewalRepo.On("UpdateAndExtendRegistration", ctx, renewal, mock.MatchedBy(func(r *domain.Registration) bool {
		return r.ExpiryDate.String() == "2030-01-01" && r.Status == domain.RegistrationApproved
	})).Return(nil)

	got, err := svc.ChangeStatus(ctx, tenantID, renewal.ID, service.RenewalStatusInput{
		Status:        domain.RenewalApproved,
		NewExpiryDate: date(2030, time.January, 1),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RenewalApproved, got.Status)
	d.renewalRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRenewalService_ChangeStatus_TerminalState(t *testing.T) {
	svc, d := setupRenewalService()
	ctx := context.Background()
	tenantID := uuid.New()
	renewal := &domain.Renewal{ID: uuid.New(), Status: domain.RenewalCancelled}

	d.renewalRepo.On("GetByID", ctx, tenantID, renewal.ID).Return(renewal, nil)

	_, err := svc.ChangeStatus(ctx, tenantID, renewal.ID, service.RenewalStatusInput{Status: domain.RenewalSubmitted})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

// --- Variations ---

func setupVariationService() (service.VariationService, *registryDeps) {
	d := newRegistryDeps()
	return service.NewVariationService(d.variationRepo, d.regRepo), d
}

func TestVariationService_Create_RequiresApprovedRegistration(t *testing.T) {
	svc, d := setupVariationService()
	ctx := context.Background()
	tenantID := uuid.New()
	planned := &domain.Registration{ID: uuid.New(), Status: domain.RegistrationPlanned}

	d.regRepo.On("GetByID", ctx, tenantID, planned.ID).Return(planned, nil)

	_, err := svc.Create(ctx, tenantID, uuid.New(), service.CreateVariationInput{
		RegistrationID: planned.ID,
		VariationType:  domain.VariationTypeIB,
		Title:          "New site",
	})
	assert.ErrorIs(t, err, domain.ErrRegistrationNotApproved)

	_, err = svc.Create(ctx, tenantID, uuid.New(), service.CreateVariationInput{
		RegistrationID: planned.ID,
		VariationType:  "type_iv",
		Title:          "New site",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVariationType)
}

func TestVariationService_Create(t *testing.T) {
	svc, d := setupVariationService()
	ctx := context.Background()
	tenantID := uuid.New()
	reg := &domain.Registration{ID: uuid.New(), Status: domain.RegistrationApproved, CountryName: "Italy"}

	d.regRepo.On("GetByID", ctx, tenantID, reg.ID).Return(reg, nil)
	d.variationRepo.On("Create", ctx, mock.MatchedBy(func(v *domain.Variation) bool {
		return v.Status == domain.VariationDraft && v.Title == "Shelf life extension"
	})).Return(nil)

	got, err := svc.Create(ctx, tenantID, uuid.New(), service.CreateVariationInput{
		RegistrationID: reg.ID,
		VariationType:  domain.VariationTypeII,
		Title:          " Shelf life extension ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Italy", got.CountryName)
}

func TestVariationService_ChangeStatus(t *testing.T) {
	svc, d := setupVariationService()
	ctx := context.Background()
	tenantID := uuid.New()
	v := &domain.Variation{ID: uuid.New(), Status: domain.VariationSubmitted}

	d.variationRepo.On("GetByID", ctx, tenantID, v.ID).Return(v, nil)
	d.variationRepo.On("Update", ctx, v).Return(nil)

	got, err := svc.ChangeStatus(ctx, tenantID, v.ID, service.VariationStatusInput{
		Status: domain.VariationApproved,
		Date:   date(2026, time.May, 5),
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-05-05", got.ApprovalDate.String())

	_, err = svc.ChangeStatus(ctx, tenantID, v.ID, service.VariationStatusInput{Status: domain.VariationDraft})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestVariationService_List_ValidatesType(t *testing.T) {
	svc, _ := setupVariationService()

	_, _, err := svc.List(context.Background(), uuid.New(), domain.VariationFilter{VariationType: "major"})
	assert.ErrorIs(t, err, domain.ErrInvalidVariationType)
}
