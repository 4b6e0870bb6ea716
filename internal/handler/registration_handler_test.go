package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"regtrack/internal/domain"
	"regtrack/internal/handler"
	"regtrack/internal/service"
	"regtrack/mocks"
)

func TestRegistrationHandler_Create(t *testing.T) {
	mockSvc := new(mocks.MockRegistrationService)
	h := handler.NewRegistrationHandler(mockSvc)
	tenantID, userID := uuid.New(), uuid.New()
	productID, countryID := uuid.New(), uuid.New()

	mockSvc.On("Create", mock.Anything, tenantID, userID, mock.MatchedBy(func(in service.CreateRegistrationInput) bool {
		return in.ProductID == productID && in.CountryID == countryID &&
			in.ExpiryDate != nil && in.ExpiryDate.String() == "2031-04-30"
	})).Return(&domain.Registration{ID: uuid.New(), Status: domain.RegistrationApproved}, nil)

	c, w := newJSONContext(http.MethodPost, "/api/v1/registrations", map[string]interface{}{
		"product_id":  productID,
		"country_id":  countryID,
		"status":      "approved",
		"expiry_date": "2031-04-30",
	})
	setAuthContext(c, tenantID, userID, "manager")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRegistrationHandler_Create_BadDate(t *testing.T) {
	mockSvc := new(mocks.MockRegistrationService)
	h := handler.NewRegistrationHandler(mockSvc)

	c, w := newJSONContext(http.MethodPost, "/api/v1/registrations", map[string]interface{}{
		"product_id":  uuid.New(),
		"country_id":  uuid.New(),
		"expiry_date": "30/04/2031",
	})
	setAuthContext(c, uuid.New(), uuid.New(), "manager")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistrationHandler_Create_Unauthenticated(t *testing.T) {
	h := handler.NewRegistrationHandler(new(mocks.MockRegistrationService))

	c, w := newJSONContext(http.MethodPost, "/api/v1/registrations", map[string]interface{}{})

	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegistrationHandler_List_FiltersAndPagination(t *testing.T) {
	mockSvc := new(mocks.MockRegistrationService)
	h := handler.NewRegistrationHandler(mockSvc)
	tenantID, countryID := uuid.New(), uuid.New()

	mockSvc.On("List", mock.Anything, tenantID, domain.RegistrationFilter{
		CountryID: &countryID,
		Status:    domain.RegistrationSubmitted,
		Search:    "amox",
		Page:      domain.Page{Offset: 40, Limit: 20},
	}).Return([]domain.Registration{{ID: uuid.New()}}, 41, nil)

	c, w := newJSONContext(http.MethodGet,
		"/api/v1/registrations?country_id="+countryID.String()+"&status=submitted&search=amox&offset=40&limit=500", nil)
	setAuthContext(c, tenantID, uuid.New(), "viewer")

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, handler.PagMeta{Total: 41, Offset: 40, Limit: 20}, *resp.Meta)
}

func TestRegistrationHandler_List_InvalidFilters(t *testing.T) {
	for _, query := range []string{"status=pending", "product_id=not-a-uuid"} {
		t.Run(query, func(t *testing.T) {
			mockSvc := new(mocks.MockRegistrationService)
			h := handler.NewRegistrationHandler(mockSvc)

			c, w := newJSONContext(http.MethodGet, "/api/v1/registrations?"+query, nil)
			setAuthContext(c, uuid.New(), uuid.New(), "viewer")

			h.List(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRegistrationHandler_ChangeStatus_InvalidTransition(t *testing.T) {
	mockSvc := new(mocks.MockRegistrationService)
	h := handler.NewRegistrationHandler(mockSvc)
	tenantID, userID, id := uuid.New(), uuid.New(), uuid.New()

	mockSvc.On("ChangeStatus", mock.Anything, tenantID, id, userID, mock.AnythingOfType("service.RegistrationStatusInput")).
		Return(nil, domain.ErrInvalidStatusTransition)

	c, w := newJSONContext(http.MethodPut, "/api/v1/registrations/"+id.String()+"/status", map[string]string{"status": "approved"})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	setAuthContext(c, tenantID, userID, "member")

	h.ChangeStatus(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", decodeResponse(t, w).Error.Code)
}

func TestRegistrationHandler_GetByID_InvalidID(t *testing.T) {
	h := handler.NewRegistrationHandler(new(mocks.MockRegistrationService))

	c, w := newJSONContext(http.MethodGet, "/api/v1/registrations/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	setAuthContext(c, uuid.New(), uuid.New(), "viewer")

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeResponse(t, w).Error.Code)
}

func TestRegistrationHandler_History(t *testing.T) {
	mockSvc := new(mocks.MockRegistrationService)
	h := handler.NewRegistrationHandler(mockSvc)
	tenantID, id := uuid.New(), uuid.New()
	missing := uuid.New()

	mockSvc.On("History", mock.Anything, tenantID, id, domain.Page{Offset: 0, Limit: 5}).
		Return([]domain.RegistrationStatusChange{{ID: uuid.New(), ToStatus: domain.RegistrationSubmitted}}, 3, nil)
	mockSvc.On("History", mock.Anything, tenantID, missing, domain.Page{Offset: 0, Limit: 20}).
		Return(nil, 0, domain.ErrNotFound)

	c, w := newJSONContext(http.MethodGet, "/api/v1/registrations/"+id.String()+"/history?limit=5", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	setAuthContext(c, tenantID, uuid.New(), "viewer")

	h.History(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, handler.PagMeta{Total: 3, Offset: 0, Limit: 5}, *resp.Meta)

	c, w = newJSONContext(http.MethodGet, "/api/v1/registrations/"+missing.String()+"/history", nil)
	c.Params = gin.Params{{Key: "id", Value: missing.String()}}
	setAuthContext(c, tenantID, uuid.New(), "viewer")

	h.History(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegistrationHandler_Delete(t *testing.T) {
	mockSvc := new(mocks.MockRegistrationService)
	h := handler.NewRegistrationHandler(mockSvc)
	tenantID, userID, id := uuid.New(), uuid.New(), uuid.New()

	mockSvc.On("Delete", mock.Anything, tenantID, id, userID).Return(nil)

	c, w := newJSONContext(http.MethodDelete, "/api/v1/registrations/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	setAuthContext(c, tenantID, userID, "manager")

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRenewalHandler_ListDue(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantDays   int
		wantStatus int
	}{
		{"default window", "", 90, http.StatusOK},
		{"explicit window", "?within_days=30", 30, http.StatusOK},
		{"negative", "?within_days=-1", 0, http.StatusBadRequest},
		{"not a number", "?within_days=soon", 0, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mocks.MockRenewalService)
			h := handler.NewRenewalHandler(mockSvc)
			tenantID := uuid.New()

			mockSvc.On("ListDue", mock.Anything, tenantID, tt.wantDays, domain.Page{Limit: 20}).
				Return([]domain.Renewal{}, 0, nil)

			c, w := newJSONContext(http.MethodGet, "/api/v1/renewals/due"+tt.query, nil)
			setAuthContext(c, tenantID, uuid.New(), "viewer")

			h.ListDue(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				mockSvc.AssertExpectations(t)
			}
		})
	}
}

func TestRenewalHandler_List_BadDueBefore(t *testing.T) {
	mockSvc := new(mocks.MockRenewalService)
	h := handler.NewRenewalHandler(mockSvc)

	c, w := newJSONContext(http.MethodGet, "/api/v1/renewals?due_before=next-week", nil)
	setAuthContext(c, uuid.New(), uuid.New(), "viewer")

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVariationHandler_Create_RegistrationNotApproved(t *testing.T) {
	mockSvc := new(mocks.MockVariationService)
	h := handler.NewVariationHandler(mockSvc)
	tenantID, userID := uuid.New(), uuid.New()

	mockSvc.On("Create", mock.Anything, tenantID, userID, mock.AnythingOfType("service.CreateVariationInput")).
		Return(nil, domain.ErrRegistrationNotApproved)

	c, w := newJSONContext(http.MethodPost, "/api/v1/variations", map[string]interface{}{
		"registration_id": uuid.New(),
		"variation_type":  "type_ib",
		"title":           "Change of manufacturer",
	})
	setAuthContext(c, tenantID, userID, "member")

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REGISTRATION_NOT_APPROVED", decodeResponse(t, w).Error.Code)
}
