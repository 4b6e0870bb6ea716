package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"regtrack/internal/domain"
	"regtrack/internal/export"
	"regtrack/internal/service"
)

// ExportHandler handles spreadsheet export endpoints.
type ExportHandler struct {
	exportService service.ExportService
	now           func() time.Time
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService, now: time.Now}
}

// Export handles GET /api/v1/exports/:entity
// @Summary Export records as CSV or XLSX
// @Description Accepts the same filters as the matching list endpoint. CSV output starts with a UTF-8 BOM; XLSX has a bold, filterable header row.
// @Tags exports
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param entity path string true "registrations, renewals or variations"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Spreadsheet attachment"
// @Failure 400 {object} ErrorResponseBody "Invalid entity, format or filter"
// @Security BearerAuth
// @Router /exports/{entity} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	req := service.ExportRequest{
		Entity: c.Param("entity"),
		Format: domain.ExportFormat(c.DefaultQuery("format", string(domain.ExportCSV))),
	}
	switch req.Entity {
	case service.ExportRegistrations:
		if req.Registration, ok = registrationFilter(c); !ok {
			return
		}
	case service.ExportRenewals:
		if req.Renewal, ok = renewalFilter(c); !ok {
			return
		}
	case service.ExportVariations:
		if req.Variation, ok = variationFilter(c); !ok {
			return
		}
	default:
		HandleError(c, domain.ErrInvalidEntityType)
		return
	}

	// Buffer the whole file so a failure midway still produces a JSON error.
	var buf bytes.Buffer
	if err := h.exportService.Export(c.Request.Context(), tenantID, req, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(req.Entity, string(req.Format), h.now().UTC())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType(req.Format), buf.Bytes())
}
