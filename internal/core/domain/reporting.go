package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Title       string          `json:"title"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every account balance at a date. TotalDebit always equals TotalCredit.
type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Title     string          `json:"title"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// IncomeStatementReport represents a profit and loss report over a date range
type IncomeStatementReport struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Income       []AccountAmount `json:"income"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// BalanceSheetReport represents a balance sheet snapshot.
// Contra accounts are netted against the side they offset.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// CashFlowRow is the cash movement of one movement type.
type CashFlowRow struct {
	MovementType MovementType    `json:"movementType"`
	Inflow       decimal.Decimal `json:"inflow"`
	Outflow      decimal.Decimal `json:"outflow"`
	Net          decimal.Decimal `json:"net"`
}

// CashFlowReport is derived from lines posted to the Cash account.
type CashFlowReport struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Rows           []CashFlowRow   `json:"rows"`
	NetChange      decimal.Decimal `json:"netChange"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// MovementTotals aggregates the lines of one account by movement type.
type MovementTotals struct {
	MovementType MovementType `json:"movementType"`
	Totals
}

// AggregateFilter bounds an aggregation by entry date. Nil bounds are open.
type AggregateFilter struct {
	From *time.Time
	To   *time.Time
}

// StaleBalance is an account whose cached balance differs from its aggregated one.
type StaleBalance struct {
	AccountID string          `json:"accountID"`
	Title     string          `json:"title"`
	Cached    decimal.Decimal `json:"cached"`
	Live      decimal.Decimal `json:"live"`
}

// LedgerVerification is the result of checking a company's ledger invariants.
type LedgerVerification struct {
	CompanyID           string              `json:"companyID"`
	TransactionsChecked int                 `json:"transactionsChecked"`
	UnbalancedTxns      []TransactionTotals `json:"unbalancedTransactions"`
	StaleBalances       []StaleBalance      `json:"staleBalances"`
}

// OK reports whether no violation was found.
func (v LedgerVerification) OK() bool {
	return len(v.UnbalancedTxns) == 0 && len(v.StaleBalances) == 0
}
