package handler

import (
	"github.com/gin-gonic/gin"

	"regtrack/internal/domain"
	"regtrack/internal/service"
)

// RecycleHandler handles recycle bin endpoints.
type RecycleHandler struct {
	recycleService service.RecycleService
}

// NewRecycleHandler creates a new RecycleHandler.
func NewRecycleHandler(recycleService service.RecycleService) *RecycleHandler {
	return &RecycleHandler{recycleService: recycleService}
}

// List handles GET /api/v1/recycle-bin
// @Summary List soft-deleted records
// @Tags recycle-bin
// @Produce json
// @Param entity_type query string false "product, registration, renewal or variation"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.RecycleItem,meta=PagMeta} "Deleted records, newest first"
// @Failure 400 {object} ErrorResponseBody "Invalid entity type"
// @Security BearerAuth
// @Router /recycle-bin [get]
func (h *RecycleHandler) List(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	items, total, err := h.recycleService.List(c.Request.Context(), tenantID,
		domain.EntityType(c.Query("entity_type")), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, items, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Restore handles POST /api/v1/recycle-bin/:entity_type/:id/restore
// @Summary Restore a soft-deleted record
// @Description Children deleted together with the record come back with it.
// @Tags recycle-bin
// @Produce json
// @Param entity_type path string true "product, registration, renewal or variation"
// @Param id path string true "Record ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Record restored"
// @Failure 404 {object} ErrorResponseBody "Not in the recycle bin"
// @Failure 409 {object} ErrorResponseBody "Parent still deleted, or a live duplicate exists"
// @Security BearerAuth
// @Router /recycle-bin/{entity_type}/{id}/restore [post]
func (h *RecycleHandler) Restore(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "record")
	if !ok {
		return
	}

	if err := h.recycleService.Restore(c.Request.Context(), tenantID, domain.EntityType(c.Param("entity_type")), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "record restored"})
}

// Purge handles DELETE /api/v1/recycle-bin/:entity_type/:id
// @Summary Permanently delete a soft-deleted record
// @Description Admin only. Binned children of the record are removed with it; live children block the purge.
// @Tags recycle-bin
// @Produce json
// @Param entity_type path string true "product, registration, renewal or variation"
// @Param id path string true "Record ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Record purged"
// @Failure 404 {object} ErrorResponseBody "Not in the recycle bin"
// @Failure 409 {object} ErrorResponseBody "Record has live children"
// @Security BearerAuth
// @Router /recycle-bin/{entity_type}/{id} [delete]
func (h *RecycleHandler) Purge(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "record")
	if !ok {
		return
	}

	if err := h.recycleService.Purge(c.Request.Context(), tenantID, domain.EntityType(c.Param("entity_type")), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "record permanently deleted"})
}
