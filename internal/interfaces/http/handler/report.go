package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/sitecost/backend/internal/application/report"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetPettyCashSummary returns the petty cash position of every employee
// with ledger activity, plus company-wide totals
func (h *ReportHandler) GetPettyCashSummary(c *gin.Context) {
	summary, err := h.reportService.GetPettyCashSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetExpenseSummary returns expense totals by category for a date range
func (h *ReportHandler) GetExpenseSummary(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	summary, err := h.reportService.GetExpenseSummary(c.Request.Context(), from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// parseDateParam parses an optional YYYY-MM-DD query parameter
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
