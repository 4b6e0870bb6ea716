package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regtrack/internal/domain"
	"regtrack/internal/service"
)

// RegistrationHandler handles product registration endpoints.
type RegistrationHandler struct {
	registrationService service.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Create handles POST /api/v1/registrations
// @Summary Create a registration
// @Description Create a product registration in a country. Status defaults to planned.
// @Tags registrations
// @Accept json
// @Produce json
// @Param request body CreateRegistrationRequest true "Registration details"
// @Success 201 {object} Response{data=domain.Registration} "Registration created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Product or country not found"
// @Failure 409 {object} ErrorResponseBody "Duplicate live registration"
// @Security BearerAuth
// @Router /registrations [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateRegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	reg, err := h.registrationService.Create(c.Request.Context(), tenantID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, reg)
}

// List handles GET /api/v1/registrations
// @Summary List registrations
// @Tags registrations
// @Produce json
// @Param product_id query string false "Product ID"
// @Param country_id query string false "Country ID"
// @Param status query string false "Status"
// @Param search query string false "Registration number or product name contains"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Registration,meta=PagMeta} "List of registrations"
// @Security BearerAuth
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	filter, ok := registrationFilter(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)
	filter.Page = domain.Page{Offset: offset, Limit: limit}

	regs, total, err := h.registrationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, regs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/registrations/:id
// @Summary Get registration by ID
// @Tags registrations
// @Produce json
// @Param id path string true "Registration ID (UUID)"
// @Success 200 {object} Response{data=domain.Registration} "Registration"
// @Failure 404 {object} ErrorResponseBody "Registration not found"
// @Security BearerAuth
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) GetByID(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "registration")
	if !ok {
		return
	}

	reg, err := h.registrationService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, reg)
}

// Update handles PUT /api/v1/registrations/:id
// @Summary Update registration details
// @Description Updates number, dates and notes. Status changes go through the status endpoint.
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path string true "Registration ID (UUID)"
// @Param request body UpdateRegistrationRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.Registration} "Registration updated"
// @Failure 404 {object} ErrorResponseBody "Registration not found"
// @Failure 409 {object} ErrorResponseBody "Duplicate live registration"
// @Security BearerAuth
// @Router /registrations/{id} [put]
func (h *RegistrationHandler) Update(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "registration")
	if !ok {
		return
	}

	var input service.UpdateRegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	reg, err := h.registrationService.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, reg)
}

// ChangeStatus handles PUT /api/v1/registrations/:id/status
// @Summary Move a registration through its lifecycle
// @Description Approving with an expiry date schedules an upcoming renewal.
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path string true "Registration ID (UUID)"
// @Param request body RegistrationStatusRequest true "Target status"
// @Success 200 {object} Response{data=domain.Registration} "Registration updated"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 409 {object} ErrorResponseBody "Transition not allowed"
// @Security BearerAuth
// @Router /registrations/{id}/status [put]
func (h *RegistrationHandler) ChangeStatus(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "registration")
	if !ok {
		return
	}

	var input service.RegistrationStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	reg, err := h.registrationService.ChangeStatus(c.Request.Context(), tenantID, id, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, reg)
}

// Delete handles DELETE /api/v1/registrations/:id
// @Summary Move a registration to the recycle bin
// @Tags registrations
// @Produce json
// @Param id path string true "Registration ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Registration deleted"
// @Failure 404 {object} ErrorResponseBody "Registration not found"
// @Security BearerAuth
// @Router /registrations/{id} [delete]
func (h *RegistrationHandler) Delete(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "registration")
	if !ok {
		return
	}

	if err := h.registrationService.Delete(c.Request.Context(), tenantID, id, userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "registration moved to recycle bin"})
}

// History handles GET /api/v1/registrations/:id/history
// @Summary List a registration's status changes
// @Tags registrations
// @Produce json
// @Param id path string true "Registration ID (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.RegistrationStatusChange,meta=PagMeta} "Status history, newest first"
// @Failure 404 {object} ErrorResponseBody "Registration not found"
// @Security BearerAuth
// @Router /registrations/{id}/history [get]
func (h *RegistrationHandler) History(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "registration")
	if !ok {
		return
	}
	offset, limit := pagination(c)

	entries, total, err := h.registrationService.History(c.Request.Context(), tenantID, id, domain.Page{Offset: offset, Limit: limit})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}
