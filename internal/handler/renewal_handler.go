package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regtrack/internal/domain"
	"regtrack/internal/service"
)

const defaultDueWindowDays = 90

// RenewalHandler handles registration renewal endpoints.
type RenewalHandler struct {
	renewalService service.RenewalService
}

// NewRenewalHandler creates a new RenewalHandler.
func NewRenewalHandler(renewalService service.RenewalService) *RenewalHandler {
	return &RenewalHandler{renewalService: renewalService}
}

// Create handles POST /api/v1/renewals
// @Summary Create a renewal
// @Tags renewals
// @Accept json
// @Produce json
// @Param request body CreateRenewalRequest true "Renewal details"
// @Success 201 {object} Response{data=domain.Renewal} "Renewal created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Registration not found"
// @Security BearerAuth
// @Router /renewals [post]
func (h *RenewalHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateRenewalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	renewal, err := h.renewalService.Create(c.Request.Context(), tenantID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, renewal)
}

// List handles GET /api/v1/renewals
// @Summary List renewals
// @Tags renewals
// @Produce json
// @Param registration_id query string false "Registration ID"
// @Param status query string false "Status"
// @Param due_before query string false "Due on or before (YYYY-MM-DD)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Renewal,meta=PagMeta} "List of renewals"
// @Security BearerAuth
// @Router /renewals [get]
func (h *RenewalHandler) List(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	filter, ok := renewalFilter(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)
	filter.Page = domain.Page{Offset: offset, Limit: limit}

	renewals, total, err := h.renewalService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, renewals, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListDue handles GET /api/v1/renewals/due
// @Summary List upcoming renewals due soon
// @Description Upcoming renewals due within the window, overdue ones included, soonest first.
// @Tags renewals
// @Produce json
// @Param within_days query int false "Window in days" default(90)
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Renewal,meta=PagMeta} "Due renewals"
// @Security BearerAuth
// @Router /renewals/due [get]
func (h *RenewalHandler) ListDue(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	days, ok := withinDays(c, defaultDueWindowDays)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	renewals, total, err := h.renewalService.ListDue(c.Request.Context(), tenantID, days, domain.Page{Offset: offset, Limit: limit})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, renewals, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/renewals/:id
// @Summary Get renewal by ID
// @Tags renewals
// @Produce json
// @Param id path string true "Renewal ID (UUID)"
// @Success 200 {object} Response{data=domain.Renewal} "Renewal"
// @Failure 404 {object} ErrorResponseBody "Renewal not found"
// @Security BearerAuth
// @Router /renewals/{id} [get]
func (h *RenewalHandler) GetByID(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "renewal")
	if !ok {
		return
	}

	renewal, err := h.renewalService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, renewal)
}

// Update handles PUT /api/v1/renewals/:id
// @Summary Update renewal details
// @Tags renewals
// @Accept json
// @Produce json
// @Param id path string true "Renewal ID (UUID)"
// @Param request body UpdateRenewalRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.Renewal} "Renewal updated"
// @Failure 404 {object} ErrorResponseBody "Renewal not found"
// @Security BearerAuth
// @Router /renewals/{id} [put]
func (h *RenewalHandler) Update(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "renewal")
	if !ok {
		return
	}

	var input service.UpdateRenewalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	renewal, err := h.renewalService.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, renewal)
}

// ChangeStatus handles PUT /api/v1/renewals/:id/status
// @Summary Move a renewal through its lifecycle
// @Description Approving with a new expiry date extends the parent registration.
// @Tags renewals
// @Accept json
// @Produce json
// @Param id path string true "Renewal ID (UUID)"
// @Param request body RenewalStatusRequest true "Target status"
// @Success 200 {object} Response{data=domain.Renewal} "Renewal updated"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 409 {object} ErrorResponseBody "Transition not allowed"
// @Security BearerAuth
// @Router /renewals/{id}/status [put]
func (h *RenewalHandler) ChangeStatus(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "renewal")
	if !ok {
		return
	}

	var input service.RenewalStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	renewal, err := h.renewalService.ChangeStatus(c.Request.Context(), tenantID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, renewal)
}

// Delete handles DELETE /api/v1/renewals/:id
// @Summary Move a renewal to the recycle bin
// @Tags renewals
// @Produce json
// @Param id path string true "Renewal ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Renewal deleted"
// @Failure 404 {object} ErrorResponseBody "Renewal not found"
// @Security BearerAuth
// @Router /renewals/{id} [delete]
func (h *RenewalHandler) Delete(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "renewal")
	if !ok {
		return
	}

	if err := h.renewalService.Delete(c.Request.Context(), tenantID, id, userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "renewal moved to recycle bin"})
}
