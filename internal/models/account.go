package models

import (
	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	CompanyID      string          `db:"company_id"`
	Title          string          `db:"title"`
	AccountType    string          `db:"account_type"`
	AccountSubType string          `db:"account_sub_type"`
	IsDebit        bool            `db:"is_debit"` // normal side
	Balance        decimal.Decimal `db:"balance"`  // cached
	IsDeleted      bool            `db:"is_deleted"`
	AuditFields
}
