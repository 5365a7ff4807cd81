package dto

import (
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a manual journal entry.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Side      domain.Side     `json:"side"` // true = debit
	Amount    decimal.Decimal `json:"amount" binding:"gt=0"`
}

// CreateJournalEntryRequest defines a manual balanced journal entry.
type CreateJournalEntryRequest struct {
	Date        time.Time            `json:"date" binding:"required"`
	Description string               `json:"description" binding:"required,max=500"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,dive"`
}

// ToPostingLines converts the request lines into posting engine input.
func (r CreateJournalEntryRequest) ToPostingLines() []domain.PostingLine {
	lines := make([]domain.PostingLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.PostingLine{AccountID: l.AccountID, Side: l.Side, Amount: l.Amount}
	}
	return lines
}

// JournalLineResponse is a line as returned by the API.
type JournalLineResponse struct {
	LineID                string              `json:"lineID"`
	AccountID             string              `json:"accountID"`
	TransactionID         int64               `json:"transactionID"`
	ReversesTransactionID *int64              `json:"reversesTransactionID,omitempty"`
	Side                  domain.Side         `json:"side"`
	Amount                decimal.Decimal     `json:"amount"`
	EntryDate             time.Time           `json:"entryDate"`
	Description           string              `json:"description"`
	MovementType          domain.MovementType `json:"movementType"`
	CreatedAt             time.Time           `json:"createdAt"`
	CreatedBy             string              `json:"createdBy"`
}

// TransactionResponse groups the lines of one transaction.
type TransactionResponse struct {
	TransactionID int64                 `json:"transactionID"`
	TotalDebit    decimal.Decimal       `json:"totalDebit"`
	TotalCredit   decimal.Decimal       `json:"totalCredit"`
	Lines         []JournalLineResponse `json:"lines"`
}

// ListLedgerParams defines the query parameters for an account ledger page.
type ListLedgerParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// LedgerResponse is one page of an account ledger.
type LedgerResponse struct {
	Lines     []JournalLineResponse `json:"lines"`
	NextToken *string               `json:"nextToken,omitempty"`
}

func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:                l.LineID,
		AccountID:             l.AccountID,
		TransactionID:         l.TransactionID,
		ReversesTransactionID: l.ReversesTransactionID,
		Side:                  l.Side,
		Amount:                l.Amount,
		EntryDate:             l.EntryDate,
		Description:           l.Description,
		MovementType:          l.MovementType,
		CreatedAt:             l.CreatedAt,
		CreatedBy:             l.CreatedBy,
	}
}

func ToJournalLineResponses(lines []domain.JournalLine) []JournalLineResponse {
	res := make([]JournalLineResponse, len(lines))
	for i, l := range lines {
		res[i] = ToJournalLineResponse(l)
	}
	return res
}

// ToTransactionResponse converts a domain.Transaction, computing its totals.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	totals := domain.TotalsOf(txn.Lines)
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		TotalDebit:    totals.Debit,
		TotalCredit:   totals.Credit,
		Lines:         ToJournalLineResponses(txn.Lines),
	}
}
