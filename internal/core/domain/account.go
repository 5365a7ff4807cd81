package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType represents the classification of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
	Contra    AccountType = "CONTRA"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense, Contra:
		return true
	}
	return false
}

// DefaultSide returns the conventional normal side for the type.
// Contra accounts have no default; their side mirrors the account they offset.
func (t AccountType) DefaultSide() Side {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// Account represents a single account in the chart of accounts of a company.
type Account struct {
	AccountID      string          `json:"accountID"`
	CompanyID      string          `json:"companyID"`
	Title          string          `json:"title"` // unique per company, used for adapter lookups
	AccountType    AccountType     `json:"accountType"`
	AccountSubType string          `json:"accountSubType"`
	Side           Side            `json:"side"`    // normal side of the account
	Balance        decimal.Decimal `json:"balance"` // cached, see BalanceFromTotals
	IsDeleted      bool            `json:"isDeleted"`
	AuditFields
}

// BalanceFromTotals applies the account's normal-side convention to aggregated totals.
func (a Account) BalanceFromTotals(t Totals) decimal.Decimal {
	return t.BalanceFor(a.Side)
}

// AccountWithTotals pairs an account with the live aggregate of its journal lines.
type AccountWithTotals struct {
	Account
	Totals Totals `json:"totals"`
}
