package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/SscSPs/bizledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles manual journal entries, reversals and ledger verification.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// RegisterJournalRoutes registers routes related to journal transactions.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createManualEntry)
		journals.GET("/:transactionID", h.getTransaction)
		journals.POST("/:transactionID/reverse", h.reverseTransaction)
	}
	rg.GET("/ledger/verify", h.verifyLedger)
}

// createManualEntry godoc
// @Summary Post a manual journal entry
// @Description Posts a balanced set of lines under a new transaction id
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Unbalanced or invalid entry"
// @Failure 402 {object} map[string]string "Subscription expired or limit reached"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createManualEntry(c *gin.Context) {
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	txn, err := h.journalService.CreateManualEntry(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal entry posted", slog.Int64("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags journals
// @Produce  json
// @Param   transactionID path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid transaction id"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /journals/{transactionID} [get]
func (h *journalHandler) getTransaction(c *gin.Context) {
	txnID, ok := transactionIDParam(c)
	if !ok {
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	txn, err := h.journalService.GetTransaction(c.Request.Context(), actor, txnID)
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Posts the mirror image of a transaction under a new id that references it
// @Tags journals
// @Produce  json
// @Param   transactionID path int true "Transaction ID"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Already reversed"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /journals/{transactionID}/reverse [post]
func (h *journalHandler) reverseTransaction(c *gin.Context) {
	txnID, ok := transactionIDParam(c)
	if !ok {
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	reversal, err := h.journalService.ReverseTransaction(c.Request.Context(), actor, txnID)
	if err != nil {
		respondError(c, err, "Failed to reverse transaction")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction reversed",
		slog.Int64("transaction_id", txnID),
		slog.Int64("reversal_transaction_id", reversal.TransactionID),
	)
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal))
}

// verifyLedger godoc
// @Summary Verify the ledger
// @Description Checks that every transaction balances and every cached balance matches the journal
// @Tags journals
// @Produce  json
// @Success 200 {object} domain.LedgerVerification
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /ledger/verify [get]
func (h *journalHandler) verifyLedger(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	result, err := h.journalService.VerifyLedger(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to verify ledger")
		return
	}
	c.JSON(http.StatusOK, result)
}

func transactionIDParam(c *gin.Context) (int64, bool) {
	txnID, err := strconv.ParseInt(c.Param("transactionID"), 10, 64)
	if err != nil || txnID <= 0 {
		respondError(c, apperrors.NewValidationError("invalid transaction id %q", c.Param("transactionID")), "Invalid transaction id")
		return 0, false
	}
	return txnID, true
}
