package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves the financial statements.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
	now              func() time.Time
}

// RegisterReportingRoutes registers the /reports routes.
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := &reportingHandler{reportingService: reportingService, now: time.Now}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/cash-flow", h.cashFlow)
	}
}

func (h *reportingHandler) bindAsOf(c *gin.Context) (time.Time, bool) {
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return time.Time{}, false
	}
	if params.AsOf.IsZero() {
		return h.now(), true
	}
	return params.AsOf, true
}

func bindDateRange(c *gin.Context) (dto.DateRangeParams, bool) {
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return params, false
	}
	if params.To.Before(params.From) {
		respondError(c, apperrors.NewValidationError("to must not be before from"), "Invalid date range")
		return params, false
	}
	return params, true
}

// trialBalance godoc
// @Summary Trial balance
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.TrialBalanceReport
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	asOf, ok := h.bindAsOf(c)
	if !ok {
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), actor, asOf)
	if err != nil {
		respondError(c, err, "Failed to build trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

// incomeStatement godoc
// @Summary Income statement
// @Tags reports
// @Produce  json
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD), inclusive"
// @Success 200 {object} domain.IncomeStatementReport
// @Failure 400 {object} map[string]string "Invalid date range"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	params, ok := bindDateRange(c)
	if !ok {
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), actor, params.From, params.To)
	if err != nil {
		respondError(c, err, "Failed to build income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Balance sheet
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.BalanceSheetReport
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	asOf, ok := h.bindAsOf(c)
	if !ok {
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), actor, asOf)
	if err != nil {
		respondError(c, err, "Failed to build balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

// cashFlow godoc
// @Summary Cash flow
// @Description Movements of the Cash account grouped by movement type
// @Tags reports
// @Produce  json
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD), inclusive"
// @Success 200 {object} domain.CashFlowReport
// @Failure 400 {object} map[string]string "Invalid date range"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) cashFlow(c *gin.Context) {
	params, ok := bindDateRange(c)
	if !ok {
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	report, err := h.reportingService.CashFlow(c.Request.Context(), actor, params.From, params.To)
	if err != nil {
		respondError(c, err, "Failed to build cash flow")
		return
	}
	c.JSON(http.StatusOK, report)
}
