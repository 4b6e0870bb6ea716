package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"regtrack/internal/domain"
	"regtrack/internal/handler"
	"regtrack/internal/router"
	"regtrack/internal/service"
	"regtrack/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(claims *service.Claims) (*gin.Engine, *mocks.MockCompanyService) {
	authSvc := new(mocks.MockAuthService)
	authSvc.On("ValidateToken", "token").Return(claims, nil)
	companySvc := new(mocks.MockCompanyService)

	r := router.Setup(authSvc, router.Handlers{
		Company: handler.NewCompanyHandler(companySvc),
	}, nil, zap.NewNop())
	return r, companySvc
}

func deleteCompany(r *gin.Engine, id uuid.UUID) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/admin/companies/"+id.String(), http.NoBody)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCompanyAdminRoutes_TenantAdminForbidden(t *testing.T) {
	otherTenant := uuid.New()
	r, companySvc := setupRouter(&service.Claims{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Role:     domain.RoleAdmin,
	})

	w := deleteCompany(r, otherTenant)

	assert.Equal(t, http.StatusForbidden, w.Code)
	companySvc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCompanyAdminRoutes_PlatformAdminAllowed(t *testing.T) {
	target := uuid.New()
	r, companySvc := setupRouter(&service.Claims{
		TenantID:      uuid.New(),
		UserID:        uuid.New(),
		Role:          domain.RoleAdmin,
		PlatformAdmin: true,
	})
	companySvc.On("Delete", mock.Anything, target).Return(nil)

	w := deleteCompany(r, target)

	assert.Equal(t, http.StatusOK, w.Code)
	companySvc.AssertExpectations(t)
}
