package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"regtrack/internal/domain"
	"regtrack/internal/service"
	"regtrack/mocks"
)

func TestUserService_Create_Success(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	tenantID := uuid.New()

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Create(context.Background(), tenantID, service.CreateUserInput{
		Email:    " New@Pharma.test ",
		Password: "securepassword123",
		FullName: "New User",
		Role:     domain.RoleMember,
	})

	require.NoError(t, err)
	assert.Equal(t, "new@pharma.test", user.Email)
	assert.Equal(t, domain.RoleMember, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, tenantID, user.TenantID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("securepassword123")))
	repo.AssertExpectations(t)
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	user, err := svc.Create(context.Background(), uuid.New(), service.CreateUserInput{
		Email:    "x@pharma.test",
		Password: "password123",
		FullName: "X",
		Role:     "owner",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(domain.ErrDuplicateEmail)

	user, err := svc.Create(context.Background(), uuid.New(), service.CreateUserInput{
		Email:    "existing@pharma.test",
		Password: "password123",
		FullName: "Test User",
		Role:     domain.RoleViewer,
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserService_Update(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	tenantID, userID := uuid.New(), uuid.New()
	existing := &domain.User{ID: userID, TenantID: tenantID, Email: "old@pharma.test", Role: domain.RoleViewer, IsActive: true}
	role := domain.RoleManager
	inactive := false

	repo.On("GetByID", mock.Anything, tenantID, userID).Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)

	user, err := svc.Update(context.Background(), tenantID, userID, service.UpdateUserInput{Role: &role, IsActive: &inactive})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, user.Role)
	assert.False(t, user.IsActive)

	bad := domain.UserRole("root")
	_, err = svc.Update(context.Background(), tenantID, userID, service.UpdateUserInput{Role: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUserService_LastAdminGuard(t *testing.T) {
	tenantID, adminID := uuid.New(), uuid.New()
	admin := func() *domain.User {
		return &domain.User{ID: adminID, TenantID: tenantID, Role: domain.RoleAdmin, IsActive: true}
	}
	demote := domain.RoleManager
	inactive := false

	tests := []struct {
		name string
		call func(svc service.UserService) error
	}{
		{"demote", func(svc service.UserService) error {
			_, err := svc.Update(context.Background(), tenantID, adminID, service.UpdateUserInput{Role: &demote})
			return err
		}},
		{"deactivate", func(svc service.UserService) error {
			_, err := svc.Update(context.Background(), tenantID, adminID, service.UpdateUserInput{IsActive: &inactive})
			return err
		}},
		{"delete", func(svc service.UserService) error {
			return svc.Delete(context.Background(), tenantID, adminID)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockUserRepo)
			svc := service.NewUserService(repo)
			repo.On("GetByID", mock.Anything, tenantID, adminID).Return(admin(), nil)
			repo.On("CountActiveAdmins", mock.Anything, tenantID, adminID).Return(0, nil)

			assert.ErrorIs(t, tt.call(svc), domain.ErrLastAdmin)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUserService_DeleteAdmin_WithAnotherAdmin(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)
	tenantID := uuid.New()
	admin := &domain.User{ID: uuid.New(), TenantID: tenantID, Role: domain.RoleAdmin, IsActive: true}

	repo.On("GetByID", mock.Anything, tenantID, admin.ID).Return(admin, nil)
	repo.On("CountActiveAdmins", mock.Anything, tenantID, admin.ID).Return(1, nil)
	repo.On("Delete", mock.Anything, tenantID, admin.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), tenantID, admin.ID))
	repo.AssertExpectations(t)
}

func TestUserService_DeleteMember_SkipsAdminCount(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)
	tenantID := uuid.New()
	member := &domain.User{ID: uuid.New(), TenantID: tenantID, Role: domain.RoleMember, IsActive: true}

	repo.On("GetByID", mock.Anything, tenantID, member.ID).Return(member, nil)
	repo.On("Delete", mock.Anything, tenantID, member.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), tenantID, member.ID))
	repo.AssertNotCalled(t, "CountActiveAdmins", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_List(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)
	tenantID := uuid.New()

	_, _, err := svc.List(context.Background(), tenantID, domain.UserFilter{Role: "owner"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	want := domain.UserFilter{Role: domain.RoleManager, Search: "ana", Page: domain.Page{Limit: 20}}
	repo.On("List", mock.Anything, tenantID, want).Return([]domain.User{{ID: uuid.New()}}, 1, nil)

	users, total, err := svc.List(context.Background(), tenantID, domain.UserFilter{Role: domain.RoleManager, Search: " ana ", Page: domain.Page{Limit: 20}})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
}

func TestCompanyService_Create_NormalizesSlug(t *testing.T) {
	repo := new(mocks.MockCompanyRepo)
	svc := service.NewCompanyService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Company) bool {
		return c.Slug == "acme-pharma" && c.Name == "Acme Pharma" && c.IsActive
	})).Return(nil)

	company, err := svc.Create(context.Background(), service.CreateCompanyInput{Name: " Acme Pharma ", Slug: " ACME-Pharma"})

	require.NoError(t, err)
	assert.Equal(t, "acme-pharma", company.Slug)
}

func TestCompanyService_Create_DuplicateSlug(t *testing.T) {
	repo := new(mocks.MockCompanyRepo)
	svc := service.NewCompanyService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateCompanySlug)

	_, err := svc.Create(context.Background(), service.CreateCompanyInput{Name: "Acme", Slug: "acme"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCompanySlug)
}

func TestNormalizeCountryCode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"de", "DE", false},
		{" fr ", "FR", false},
		{"DEU", "", true},
		{"d", "", true},
		{"1A", "", true},
		{"é", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := service.NormalizeCountryCode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidCountryCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountryService_Create(t *testing.T) {
	repo := new(mocks.MockCountryRepo)
	svc := service.NewCountryService(repo)
	tenantID := uuid.New()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Country) bool {
		return c.Code == "IT" && c.TenantID == tenantID
	})).Return(nil)

	country, err := svc.Create(context.Background(), tenantID, service.CountryInput{Name: "Italy", Code: "it", RegulatoryAuthority: "AIFA"})
	require.NoError(t, err)
	assert.Equal(t, "IT", country.Code)

	_, err = svc.Create(context.Background(), tenantID, service.CountryInput{Name: "Italy", Code: "ita"})
	assert.ErrorIs(t, err, domain.ErrInvalidCountryCode)
}

func TestCountryService_Delete_InUse(t *testing.T) {
	repo := new(mocks.MockCountryRepo)
	svc := service.NewCountryService(repo)
	tenantID, id := uuid.New(), uuid.New()

	repo.On("Delete", mock.Anything, tenantID, id).Return(domain.ErrCountryInUse)

	assert.ErrorIs(t, svc.Delete(context.Background(), tenantID, id), domain.ErrCountryInUse)
}

// --- Products ---

func productWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestProductService_Import(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	svc := service.NewProductService(repo, zap.NewNop())
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()

	wb := productWorkbook(t, [][]interface{}{
		{"Name", "Generic Name", "Strength", "Ignored"},
		{"Amoxil", "amoxicillin", "500mg", "x"},
		{"", "paracetamol", "1g"},
		{"Duplicate", "ibuprofen", "200mg"},
		{"Zyrtec", "cetirizine"},
	})

	repo.On("Create", ctx, mock.MatchedBy(func(p *domain.Product) bool { return p.Name == "Duplicate" })).
		Return(errors.New("product name already exists"))
	repo.On("Create", ctx, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name != "Duplicate" && p.TenantID == tenantID && p.CreatedBy == userID && p.IsActive
	})).Return(nil)

	res, err := svc.Import(ctx, tenantID, userID, wb)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, service.ImportRowError{Row: 3, Reason: "missing name"}, res.Skipped[0])
	assert.Equal(t, 4, res.Skipped[1].Row)
	repo.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name == "Amoxil" && p.GenericName == "amoxicillin" && p.Strength == "500mg"
	}))
}

func TestProductService_Import_Malformed(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	svc := service.NewProductService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Import(ctx, uuid.New(), uuid.New(), bytes.NewReader([]byte("not a workbook")))
	assert.ErrorIs(t, err, domain.ErrInvalidImport)

	noName := productWorkbook(t, [][]interface{}{{"Strength"}, {"10mg"}})
	_, err = svc.Import(ctx, uuid.New(), uuid.New(), noName)
	assert.ErrorIs(t, err, domain.ErrInvalidImport)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- Recycle bin ---

func TestRecycleService_Restore(t *testing.T) {
	repo := new(mocks.MockRecycleRepo)
	svc := service.NewRecycleService(repo, 30*24*time.Hour)
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()

	repo.On("ParentDeleted", ctx, tenantID, domain.EntityRenewal, id).Return(false, nil)
	repo.On("Restore", ctx, tenantID, domain.EntityRenewal, id).Return(nil)

	require.NoError(t, svc.Restore(ctx, tenantID, domain.EntityRenewal, id))
	repo.AssertExpectations(t)
}

func TestRecycleService_Restore_ParentDeleted(t *testing.T) {
	repo := new(mocks.MockRecycleRepo)
	svc := service.NewRecycleService(repo, 30*24*time.Hour)
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()

	repo.On("ParentDeleted", ctx, tenantID, domain.EntityVariation, id).Return(true, nil)

	err := svc.Restore(ctx, tenantID, domain.EntityVariation, id)

	assert.ErrorIs(t, err, domain.ErrParentDeleted)
	repo.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecycleService_Purge(t *testing.T) {
	repo := new(mocks.MockRecycleRepo)
	svc := service.NewRecycleService(repo, time.Hour)
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()

	repo.On("HasLiveChildren", ctx, tenantID, domain.EntityProduct, id).Return(false, nil)
	repo.On("Purge", ctx, tenantID, domain.EntityProduct, id).Return(nil)

	require.NoError(t, svc.Purge(ctx, tenantID, domain.EntityProduct, id))
	repo.AssertExpectations(t)
}

func TestRecycleService_Purge_RefusesParentWithLiveChildren(t *testing.T) {
	repo := new(mocks.MockRecycleRepo)
	svc := service.NewRecycleService(repo, time.Hour)
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()

	repo.On("HasLiveChildren", ctx, tenantID, domain.EntityRegistration, id).Return(true, nil)

	err := svc.Purge(ctx, tenantID, domain.EntityRegistration, id)

	assert.ErrorIs(t, err, domain.ErrHasLiveChildren)
	repo.AssertNotCalled(t, "Purge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecycleService_RejectsUnknownEntity(t *testing.T) {
	repo := new(mocks.MockRecycleRepo)
	svc := service.NewRecycleService(repo, time.Hour)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Restore(ctx, uuid.New(), "country", uuid.New()), domain.ErrInvalidEntityType)
	assert.ErrorIs(t, svc.Purge(ctx, uuid.New(), "file", uuid.New()), domain.ErrInvalidEntityType)
	_, _, err := svc.List(ctx, uuid.New(), "company", 0, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidEntityType)
}

func TestRecycleService_List_AllEntities(t *testing.T) {
	repo := new(mocks.MockRecycleRepo)
	svc := service.NewRecycleService(repo, time.Hour)
	ctx := context.Background()
	tenantID := uuid.New()

	repo.On("List", ctx, tenantID, domain.EntityType(""), 0, 20).Return([]domain.RecycleItem{{ID: uuid.New()}}, 1, nil)

	items, total, err := svc.List(ctx, tenantID, "", 0, 20)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, total)
}

func TestRecycleService_PurgeExpired(t *testing.T) {
	repo := new(mocks.MockRecycleRepo)
	svc := service.NewRecycleService(repo, 24*time.Hour)
	ctx := context.Background()
	before := time.Now().UTC().Add(-24 * time.Hour)

	repo.On("PurgeDeletedBefore", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		return !cutoff.Before(before) && cutoff.Before(time.Now().UTC().Add(-23*time.Hour))
	})).Return(int64(4), nil)

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	disabled := service.NewRecycleService(repo, 0)
	n, err = disabled.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	repo.AssertNumberOfCalls(t, "PurgeDeletedBefore", 1)
}

// --- Dashboard ---

func mockDashboardQueries(repo *mocks.MockDashboardRepo, tenantID uuid.UUID, countErr error) {
	repo.On("CountProducts", mock.Anything, tenantID).Return(12, nil)
	repo.On("CountCountries", mock.Anything, tenantID).Return(5, countErr)
	repo.On("RegistrationsByStatus", mock.Anything, tenantID).Return([]domain.StatusCount{{Status: "approved", Count: 7}}, nil)
	repo.On("RenewalsByStatus", mock.Anything, tenantID).Return([]domain.StatusCount{{Status: "upcoming", Count: 3}}, nil)
	repo.On("VariationsByStatus", mock.Anything, tenantID).Return([]domain.StatusCount{}, nil)
	repo.On("RenewalsDue", mock.Anything, tenantID, domain.Today()).Return(&domain.RenewalsDue{Overdue: 1, Within30: 2, Within60: 2, Within90: 3}, nil)
	repo.On("RegistrationsByCountry", mock.Anything, tenantID, 10).Return([]domain.CountryCount{{CountryCode: "DE", Count: 4}}, nil)
}

func TestDashboardService_Get(t *testing.T) {
	repo := new(mocks.MockDashboardRepo)
	svc := service.NewDashboardService(repo)
	tenantID := uuid.New()
	mockDashboardQueries(repo, tenantID, nil)

	d, err := svc.Get(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, 12, d.TotalProducts)
	assert.Equal(t, 5, d.TotalCountries)
	assert.Equal(t, 3, d.RenewalsDue.Within90)
	assert.Equal(t, "DE", d.RegistrationsByCountry[0].CountryCode)
	repo.AssertExpectations(t)
}

func TestDashboardService_Get_QueryFails(t *testing.T) {
	repo := new(mocks.MockDashboardRepo)
	svc := service.NewDashboardService(repo)
	tenantID := uuid.New()
	mockDashboardQueries(repo, tenantID, errors.New("db down"))

	d, err := svc.Get(context.Background(), tenantID)

	assert.Nil(t, d)
	assert.ErrorContains(t, err, "db down")
}
