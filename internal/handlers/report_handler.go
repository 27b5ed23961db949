package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NWU-Kano/library-service/internal/services"
	"github.com/NWU-Kano/library-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// ExportUsers streams the users report
// @Summary Export users as XLSX
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200
// @Failure 403 {object} ErrorResponse
// @Router /reports/users.xlsx [get]
func (h *ReportHandler) ExportUsers(c *gin.Context) {
	h.LogRequest(c, "Exporting users report")

	// Build the workbook in memory first so a failed export still gets a
	// JSON error response with JSON headers.
	var buf bytes.Buffer
	if err := h.reportService.ExportUsers(c.Request.Context(), CurrentUser(c), &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="users.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportBorrows streams the borrow records report
// @Summary Export borrow records as XLSX
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200
// @Failure 403 {object} ErrorResponse
// @Router /reports/borrows.xlsx [get]
func (h *ReportHandler) ExportBorrows(c *gin.Context) {
	h.LogRequest(c, "Exporting borrows report")

	var buf bytes.Buffer
	if err := h.reportService.ExportBorrows(c.Request.Context(), CurrentUser(c), &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="borrows.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
