package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the side of a journal line or the normal side of an account.
// true is debit, false is credit.
type Side bool

const (
	Debit  Side = true
	Credit Side = false
)

// Flip returns the opposite side.
func (s Side) Flip() Side {
	return !s
}

func (s Side) String() string {
	if s == Debit {
		return "DEBIT"
	}
	return "CREDIT"
}

// MovementType tags why a journal line was posted.
type MovementType string

const (
	MovementManual                  MovementType = "manual"
	MovementInitialStock            MovementType = "initial_stock"
	MovementStockAdjustmentIncrease MovementType = "stock_adjustment_increase"
	MovementStockAdjustmentDecrease MovementType = "stock_adjustment_decrease"
	MovementPurchase                MovementType = "purchase"
	MovementPurchaseDiscount        MovementType = "purchase_discount"
	MovementPurchasePayment         MovementType = "purchase_payment"
	MovementSale                    MovementType = "sale"
	MovementCostOfGoodsSold         MovementType = "cost_of_goods_sold"
	MovementSalesDiscount           MovementType = "sales_discount"
	MovementSalesPayment            MovementType = "sales_payment"
	MovementSalaryEarned            MovementType = "salary_earned"
	MovementSalaryPaid              MovementType = "salary_paid"
	MovementReversal                MovementType = "reversal"
)

// JournalLine is one immutable line of the journal.
type JournalLine struct {
	LineID                string          `json:"lineID"`
	CompanyID             string          `json:"companyID"`
	AccountID             string          `json:"accountID"`
	TransactionID         int64           `json:"transactionID"`
	ReversesTransactionID *int64          `json:"reversesTransactionID,omitempty"`
	Side                  Side            `json:"side"`
	Amount                decimal.Decimal `json:"amount"`
	EntryDate             time.Time       `json:"entryDate"`
	Description           string          `json:"description"`
	MovementType          MovementType    `json:"movementType"`
	IsDeleted             bool            `json:"isDeleted"`
	AuditFields
}

// PostingLine is the input of a single line to the posting engine.
type PostingLine struct {
	AccountID string
	Side      Side
	Amount    decimal.Decimal
}

// PostingMeta carries the metadata shared by every line of one posting.
type PostingMeta struct {
	MovementType          MovementType
	CreatedByID           string
	TransactionID         int64
	ReversesTransactionID *int64
}

// PostingRequest is a balanced batch of lines ready to be posted.
type PostingRequest struct {
	Lines       []PostingLine
	Date        time.Time
	Description string
	Meta        PostingMeta
}

// Transaction is the set of lines sharing a transaction id.
type Transaction struct {
	CompanyID     string        `json:"companyID"`
	TransactionID int64         `json:"transactionID"`
	Lines         []JournalLine `json:"lines"`
}

// Totals aggregates debit and credit amounts.
type Totals struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// Add accumulates an amount on the given side.
func (t Totals) Add(side Side, amount decimal.Decimal) Totals {
	if side == Debit {
		t.Debit = t.Debit.Add(amount)
	} else {
		t.Credit = t.Credit.Add(amount)
	}
	return t
}

// Merge returns the sum of t and o.
func (t Totals) Merge(o Totals) Totals {
	return Totals{Debit: t.Debit.Add(o.Debit), Credit: t.Credit.Add(o.Credit)}
}

// BalanceFor returns debit-credit for a debit-normal side, credit-debit otherwise.
func (t Totals) BalanceFor(normal Side) decimal.Decimal {
	if normal == Debit {
		return t.Debit.Sub(t.Credit)
	}
	return t.Credit.Sub(t.Debit)
}

// IsBalanced reports whether debits equal credits exactly.
func (t Totals) IsBalanced() bool {
	return t.Debit.Equal(t.Credit)
}

// TotalsOf sums the lines of a transaction.
func TotalsOf(lines []JournalLine) Totals {
	var t Totals
	for _, l := range lines {
		t = t.Add(l.Side, l.Amount)
	}
	return t
}

// TransactionTotals is the aggregate of one transaction, used by ledger verification.
type TransactionTotals struct {
	TransactionID int64 `json:"transactionID"`
	Totals
}

// LedgerCursor positions a page of an account ledger.
type LedgerCursor struct {
	EntryDate time.Time
	CreatedAt time.Time
	LineID    string
}
