package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regtrack/internal/service"
)

// CountryHandler handles country reference data endpoints.
type CountryHandler struct {
	countryService service.CountryService
}

// NewCountryHandler creates a new CountryHandler.
func NewCountryHandler(countryService service.CountryService) *CountryHandler {
	return &CountryHandler{countryService: countryService}
}

// Create handles POST /api/v1/countries
// @Summary Create a country
// @Tags countries
// @Accept json
// @Produce json
// @Param request body CountryRequest true "Country details"
// @Success 201 {object} Response{data=domain.Country} "Country created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Code already exists"
// @Security BearerAuth
// @Router /countries [post]
func (h *CountryHandler) Create(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	var input service.CountryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	country, err := h.countryService.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, country)
}

// List handles GET /api/v1/countries
// @Summary List countries
// @Tags countries
// @Produce json
// @Param search query string false "Name or code contains"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Country,meta=PagMeta} "List of countries"
// @Security BearerAuth
// @Router /countries [get]
func (h *CountryHandler) List(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	countries, total, err := h.countryService.List(c.Request.Context(), tenantID, c.Query("search"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, countries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/countries/:id
// @Summary Get country by ID
// @Tags countries
// @Produce json
// @Param id path string true "Country ID (UUID)"
// @Success 200 {object} Response{data=domain.Country} "Country"
// @Failure 404 {object} ErrorResponseBody "Country not found"
// @Security BearerAuth
// @Router /countries/{id} [get]
func (h *CountryHandler) GetByID(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "country")
	if !ok {
		return
	}

	country, err := h.countryService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, country)
}

// Update handles PUT /api/v1/countries/:id
// @Summary Update a country
// @Tags countries
// @Accept json
// @Produce json
// @Param id path string true "Country ID (UUID)"
// @Param request body UpdateCountryRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.Country} "Country updated"
// @Failure 404 {object} ErrorResponseBody "Country not found"
// @Failure 409 {object} ErrorResponseBody "Code already exists"
// @Security BearerAuth
// @Router /countries/{id} [put]
func (h *CountryHandler) Update(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "country")
	if !ok {
		return
	}

	var input service.UpdateCountryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	country, err := h.countryService.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, country)
}

// Delete handles DELETE /api/v1/countries/:id
// @Summary Delete a country
// @Tags countries
// @Produce json
// @Param id path string true "Country ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Country deleted"
// @Failure 404 {object} ErrorResponseBody "Country not found"
// @Failure 409 {object} ErrorResponseBody "Country in use"
// @Security BearerAuth
// @Router /countries/{id} [delete]
func (h *CountryHandler) Delete(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "country")
	if !ok {
		return
	}

	if err := h.countryService.Delete(c.Request.Context(), tenantID, id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "country deleted"})
}
