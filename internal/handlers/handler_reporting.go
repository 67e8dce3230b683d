package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/dto"
	"github.com/SscSPs/ledger_assistant/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("", h.listReports)
		reportingGroup.GET("/:kind", h.runReport)
	}
	rg.GET("/status", h.getStatus)
}

// listReports godoc
// @Summary List report kinds
// @Tags reports
// @Produce json
// @Success 200 {object} map[string][]string
// @Security BearerAuth
// @Router /reports [get]
func (h *reportingHandler) listReports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reports": domain.ReportKinds()})
}

// runReport godoc
// @Summary Run a report
// @Description Runs one report of the catalogue over an optional date range
// @Tags reports
// @Produce json
// @Param kind path string true "Report kind, e.g. balance_sheet"
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Param months query int false "Trend window in months (trend_analysis only)"
// @Param asOf query string false "Trend end date (trend_analysis only)"
// @Success 200 {object} domain.Report
// @Failure 400 {object} map[string]string "Unknown report or invalid parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/{kind} [get]
func (h *reportingHandler) runReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind, err := domain.ParseReportKind(c.Param("kind"))
	if err != nil {
		logger.Warn("Unknown report requested", slog.String("kind", c.Param("kind")))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger = logger.With(slog.String("report", string(kind)))

	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind report query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	params, err := query.ToParams()
	if err != nil {
		logger.Warn("Invalid report parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.Run(c.Request.Context(), domain.NewReportRequest(kind, params))
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}

	logger.Debug("Report generated")
	c.JSON(http.StatusOK, report)
}

// getStatus godoc
// @Summary Ledger status
// @Description Counts documents, transactions, journal entries and accounts
// @Tags reports
// @Produce json
// @Success 200 {object} domain.LedgerStatus
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to read ledger status"
// @Security BearerAuth
// @Router /status [get]
func (h *reportingHandler) getStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status, err := h.reportingService.Status(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to read ledger status")
		return
	}
	c.JSON(http.StatusOK, status)
}
