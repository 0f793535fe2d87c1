package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grandpavilion/booking-backend/internal/services"
)

// AdminHandler exposes the reporting endpoints
type AdminHandler struct {
	reportService *services.ReportService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(reportService *services.ReportService) *AdminHandler {
	return &AdminHandler{reportService: reportService}
}

// GetDashboard returns booking and revenue statistics for a date range,
// defaulting to the last 30 days.
// GET /api/v1/admin/dashboard?from=&to=
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	report, err := h.reportService.Dashboard(c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
