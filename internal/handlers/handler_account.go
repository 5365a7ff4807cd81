package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/SscSPs/bizledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	journalService portssvc.JournalSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, js portssvc.JournalSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		journalService: js,
	}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, journalService portssvc.JournalSvcFacade) {
	h := newAccountHandler(accountService, journalService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("", h.createAccount)
		accounts.POST("/recalculate", h.recalculateBalances)
		accounts.GET("/:accountID/ledger", h.listAccountLedger)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the caller's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Title already used"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("title", req.Title), slog.String("account_type", string(req.AccountType)))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Description Lists every account of the caller's company with balances aggregated from the journal
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.GetAccounts(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// recalculateBalances godoc
// @Summary Recalculate cached balances
// @Description Rewrites every cached account balance from the journal
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.RecalculateResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to recalculate balances"
// @Security BearerAuth
// @Router /accounts/recalculate [post]
func (h *accountHandler) recalculateBalances(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	count, err := h.accountService.RecalculateBalances(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to recalculate balances")
		return
	}
	c.JSON(http.StatusOK, dto.RecalculateResponse{AccountsRecalculated: count})
}

// listAccountLedger godoc
// @Summary List the ledger of an account
// @Description Pages through the journal lines of one account, newest first
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size (max 500)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid query parameters or token"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/ledger [get]
func (h *accountHandler) listAccountLedger(c *gin.Context) {
	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	page, err := h.journalService.ListAccountLedger(c.Request.Context(), actor, c.Param("accountID"), params)
	if err != nil {
		respondError(c, err, "Failed to list account ledger")
		return
	}
	c.JSON(http.StatusOK, page)
}
