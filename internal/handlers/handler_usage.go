package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

type usageHandler struct {
	usageService portssvc.UsageSvc
}

// RegisterUsageRoutes registers subscription usage routes.
func RegisterUsageRoutes(rg *gin.RouterGroup, usageService portssvc.UsageSvc) {
	h := &usageHandler{usageService: usageService}
	rg.GET("/usage", h.getUsage)
	rg.POST("/usage/backups", h.recordBackup)
}

// getUsage godoc
// @Summary Subscription usage
// @Description Subscription state with today's journal count and this month's backup count
// @Tags usage
// @Produce  json
// @Success 200 {object} domain.UsageReport
// @Security BearerAuth
// @Router /usage [get]
func (h *usageHandler) getUsage(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	report, err := h.usageService.GetUsage(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to retrieve usage")
		return
	}
	c.JSON(http.StatusOK, report)
}

// recordBackup godoc
// @Summary Record a backup
// @Description Counts a completed backup against the plan's monthly limit
// @Tags usage
// @Produce  json
// @Success 200 {object} domain.UsageReport
// @Failure 402 {object} map[string]string "Monthly backup limit reached"
// @Security BearerAuth
// @Router /usage/backups [post]
func (h *usageHandler) recordBackup(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	report, err := h.usageService.RecordBackup(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to record backup")
		return
	}
	c.JSON(http.StatusOK, report)
}
