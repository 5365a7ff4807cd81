package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is a row of the journal_lines table. Rows are never updated.
type JournalLine struct {
	LineID                string          `db:"line_id"`
	CompanyID             string          `db:"company_id"`
	AccountID             string          `db:"account_id"`
	TransactionID         int64           `db:"transaction_id"`
	ReversesTransactionID *int64          `db:"reverses_transaction_id"` // Nullable
	IsDebit               bool            `db:"is_debit"`
	Amount                decimal.Decimal `db:"amount"`
	EntryDate             time.Time       `db:"entry_date"`
	Description           string          `db:"description"`
	MovementType          string          `db:"movement_type"`
	IsDeleted             bool            `db:"is_deleted"`
	AuditFields
}
