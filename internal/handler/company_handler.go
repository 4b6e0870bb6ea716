package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regtrack/internal/service"
)

// CompanyHandler handles company (tenant) management endpoints.
type CompanyHandler struct {
	companyService service.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Create handles POST /api/v1/admin/companies
// @Summary Create a company
// @Description Create a new company (platform admin only)
// @Tags companies
// @Accept json
// @Produce json
// @Param request body CreateCompanyRequest true "Company details"
// @Success 201 {object} Response{data=domain.Company} "Company created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Failure 409 {object} ErrorResponseBody "Slug already exists"
// @Security BearerAuth
// @Router /admin/companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var input service.CreateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, company)
}

// List handles GET /api/v1/admin/companies
// @Summary List companies
// @Tags companies
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Company,meta=PagMeta} "List of companies"
// @Security BearerAuth
// @Router /admin/companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	companies, total, err := h.companyService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, companies, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/admin/companies/:id
// @Summary Get company by ID
// @Tags companies
// @Produce json
// @Param id path string true "Company ID (UUID)"
// @Success 200 {object} Response{data=domain.Company} "Company"
// @Failure 404 {object} ErrorResponseBody "Company not found"
// @Security BearerAuth
// @Router /admin/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "company")
	if !ok {
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, company)
}

// Update handles PUT /api/v1/admin/companies/:id
// @Summary Update a company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID (UUID)"
// @Param request body UpdateCompanyRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.Company} "Company updated"
// @Failure 404 {object} ErrorResponseBody "Company not found"
// @Failure 409 {object} ErrorResponseBody "Slug already exists"
// @Security BearerAuth
// @Router /admin/companies/{id} [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "company")
	if !ok {
		return
	}

	var input service.UpdateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, company)
}

// Delete handles DELETE /api/v1/admin/companies/:id
// @Summary Delete a company
// @Tags companies
// @Produce json
// @Param id path string true "Company ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Company deleted"
// @Failure 404 {object} ErrorResponseBody "Company not found"
// @Security BearerAuth
// @Router /admin/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "company")
	if !ok {
		return
	}

	if err := h.companyService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "company deleted"})
}
