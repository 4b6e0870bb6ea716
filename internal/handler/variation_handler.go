package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regtrack/internal/domain"
	"regtrack/internal/service"
)

// VariationHandler handles post-approval variation endpoints.
type VariationHandler struct {
	variationService service.VariationService
}

// NewVariationHandler creates a new VariationHandler.
func NewVariationHandler(variationService service.VariationService) *VariationHandler {
	return &VariationHandler{variationService: variationService}
}

// Create handles POST /api/v1/variations
// @Summary Create a variation
// @Description The parent registration must be approved. Status starts as draft.
// @Tags variations
// @Accept json
// @Produce json
// @Param request body CreateVariationRequest true "Variation details"
// @Success 201 {object} Response{data=domain.Variation} "Variation created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Registration not found"
// @Failure 409 {object} ErrorResponseBody "Registration not approved"
// @Security BearerAuth
// @Router /variations [post]
func (h *VariationHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateVariationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	variation, err := h.variationService.Create(c.Request.Context(), tenantID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, variation)
}

// List handles GET /api/v1/variations
// @Summary List variations
// @Tags variations
// @Produce json
// @Param registration_id query string false "Registration ID"
// @Param status query string false "Status"
// @Param variation_type query string false "Variation type"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Variation,meta=PagMeta} "List of variations"
// @Security BearerAuth
// @Router /variations [get]
func (h *VariationHandler) List(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	filter, ok := variationFilter(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)
	filter.Page = domain.Page{Offset: offset, Limit: limit}

	variations, total, err := h.variationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, variations, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/variations/:id
// @Summary Get variation by ID
// @Tags variations
// @Produce json
// @Param id path string true "Variation ID (UUID)"
// @Success 200 {object} Response{data=domain.Variation} "Variation"
// @Failure 404 {object} ErrorResponseBody "Variation not found"
// @Security BearerAuth
// @Router /variations/{id} [get]
func (h *VariationHandler) GetByID(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "variation")
	if !ok {
		return
	}

	variation, err := h.variationService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, variation)
}

// Update handles PUT /api/v1/variations/:id
// @Summary Update variation details
// @Tags variations
// @Accept json
// @Produce json
// @Param id path string true "Variation ID (UUID)"
// @Param request body UpdateVariationRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.Variation} "Variation updated"
// @Failure 404 {object} ErrorResponseBody "Variation not found"
// @Security BearerAuth
// @Router /variations/{id} [put]
func (h *VariationHandler) Update(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "variation")
	if !ok {
		return
	}

	var input service.UpdateVariationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	variation, err := h.variationService.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, variation)
}

// ChangeStatus handles PUT /api/v1/variations/:id/status
// @Summary Move a variation through its lifecycle
// @Tags variations
// @Accept json
// @Produce json
// @Param id path string true "Variation ID (UUID)"
// @Param request body VariationStatusRequest true "Target status"
// @Success 200 {object} Response{data=domain.Variation} "Variation updated"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 409 {object} ErrorResponseBody "Transition not allowed"
// @Security BearerAuth
// @Router /variations/{id}/status [put]
func (h *VariationHandler) ChangeStatus(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "variation")
	if !ok {
		return
	}

	var input service.VariationStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	variation, err := h.variationService.ChangeStatus(c.Request.Context(), tenantID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, variation)
}

// Delete handles DELETE /api/v1/variations/:id
// @Summary Move a variation to the recycle bin
// @Tags variations
// @Produce json
// @Param id path string true "Variation ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Variation deleted"
// @Failure 404 {object} ErrorResponseBody "Variation not found"
// @Security BearerAuth
// @Router /variations/{id} [delete]
func (h *VariationHandler) Delete(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "variation")
	if !ok {
		return
	}

	if err := h.variationService.Delete(c.Request.Context(), tenantID, id, userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "variation moved to recycle bin"})
}
