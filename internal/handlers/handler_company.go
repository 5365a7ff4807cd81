package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/SscSPs/bizledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler handles HTTP requests related to companies and their parties.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// RegisterCompanyRoutes registers company onboarding and party routes.
func RegisterCompanyRoutes(rg *gin.RouterGroup, companyService portssvc.CompanySvcFacade) {
	h := newCompanyHandler(companyService)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("/:companyID", h.getCompany)
	}
	rg.POST("/parties", h.createParty)
}

// createCompany godoc
// @Summary Onboard the caller's company
// @Description Creates the company named in the caller's token and seeds its default chart of accounts.
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} domain.Company
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Company already onboarded"
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	company, err := h.companyService.OnboardCompany(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create company")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Company onboarded", slog.String("company_name", company.Name))
	c.JSON(http.StatusCreated, company)
}

// getCompany godoc
// @Summary Get the caller's company
// @Tags companies
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} domain.Company
// @Failure 403 {object} map[string]string "Forbidden (another company)"
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{companyID} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}
	if c.Param("companyID") != actor.CompanyID {
		respondError(c, apperrors.ErrForbidden, "Failed to retrieve company")
		return
	}

	company, err := h.companyService.GetCompany(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to retrieve company")
		return
	}
	c.JSON(http.StatusOK, company)
}

// createParty godoc
// @Summary Create a vendor, customer or employee
// @Description Creates the party with its sub-account and contra account.
// @Tags parties
// @Accept  json
// @Produce  json
// @Param   party body dto.CreatePartyRequest true "Party details"
// @Success 201 {object} dto.PartyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Party accounts already exist"
// @Security BearerAuth
// @Router /parties [post]
func (h *companyHandler) createParty(c *gin.Context) {
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	party, err := h.companyService.CreateParty(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create party")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPartyResponse(party))
}
