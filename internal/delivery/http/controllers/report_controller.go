package controllers

import (
	"log/slog"
	"net/http"

	h "skkevents/internal/delivery/http/helpers"
	"skkevents/internal/domain"
)

type ReportController struct {
	Logger   *slog.Logger
	Service  domain.ReportService
	Reporter domain.ErrorReporter
}

func NewReportController(logger *slog.Logger, svc domain.ReportService, reporter domain.ErrorReporter) *ReportController {
	return &ReportController{Logger: logger, Service: svc, Reporter: reporter}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Event counts by status (past upcoming events count as previous), member counts by SIM group, and total participation.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains ReportSummary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /api/reports/summary [get]
func (c *ReportController) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Service.Summary(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, summary)
}
