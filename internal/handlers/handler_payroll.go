package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

// RegisterPayrollRoutes registers pay run routes.
func RegisterPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := &payrollHandler{payrollService: payrollService}

	payruns := rg.Group("/payruns")
	{
		payruns.POST("", h.createPayRun)
		payruns.POST("/:payRunID/approve", h.approvePayRun)
		payruns.POST("/:payRunID/cash-out", h.cashOutPayRun)
		payruns.DELETE("/:payRunID", h.deletePayRun)
	}
}

// createPayRun godoc
// @Summary Create a pay run
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   payrun body dto.CreatePayRunRequest true "Pay run with its slips"
// @Success 201 {object} domain.PayRun
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Employee not found"
// @Security BearerAuth
// @Router /payruns [post]
func (h *payrollHandler) createPayRun(c *gin.Context) {
	var req dto.CreatePayRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	run, err := h.payrollService.CreatePayRun(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create pay run")
		return
	}
	c.JSON(http.StatusCreated, run)
}

// approvePayRun godoc
// @Summary Approve a pay run
// @Description Locks the slips and posts the salary expense against each employee's payable
// @Tags payroll
// @Produce  json
// @Param   payRunID path string true "Pay run ID"
// @Success 200 {object} domain.PayRun
// @Failure 400 {object} map[string]string "Pay run is not a draft"
// @Failure 402 {object} map[string]string "Subscription expired or limit reached"
// @Failure 404 {object} map[string]string "Pay run not found"
// @Security BearerAuth
// @Router /payruns/{payRunID}/approve [post]
func (h *payrollHandler) approvePayRun(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	run, err := h.payrollService.ApprovePayRun(c.Request.Context(), actor, c.Param("payRunID"))
	if err != nil {
		respondError(c, err, "Failed to approve pay run")
		return
	}
	c.JSON(http.StatusOK, run)
}

// cashOutPayRun godoc
// @Summary Cash out a pay run
// @Description Pays every employee payable from Cash. Allowed once per pay run.
// @Tags payroll
// @Produce  json
// @Param   payRunID path string true "Pay run ID"
// @Success 200 {object} domain.PayRun
// @Failure 400 {object} map[string]string "Already cashed out or not approved"
// @Failure 404 {object} map[string]string "Pay run not found"
// @Security BearerAuth
// @Router /payruns/{payRunID}/cash-out [post]
func (h *payrollHandler) cashOutPayRun(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	run, err := h.payrollService.CashOutPayRun(c.Request.Context(), actor, c.Param("payRunID"))
	if err != nil {
		respondError(c, err, "Failed to cash out pay run")
		return
	}
	c.JSON(http.StatusOK, run)
}

// deletePayRun godoc
// @Summary Delete a pay run
// @Description Soft-deletes the pay run, reversing its salary posting when approved
// @Tags payroll
// @Param   payRunID path string true "Pay run ID"
// @Success 204
// @Failure 400 {object} map[string]string "Pay run already cashed out"
// @Failure 404 {object} map[string]string "Pay run not found"
// @Security BearerAuth
// @Router /payruns/{payRunID} [delete]
func (h *payrollHandler) deletePayRun(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	if err := h.payrollService.DeletePayRun(c.Request.Context(), actor, c.Param("payRunID")); err != nil {
		respondError(c, err, "Failed to delete pay run")
		return
	}
	c.Status(http.StatusNoContent)
}
