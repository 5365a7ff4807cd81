package domain

import "time"

// LedgerEvent announces a transaction committed to the ledger.
type LedgerEvent struct {
	CompanyID             string       `json:"companyID"`
	TransactionID         int64        `json:"transactionID"`
	ReversesTransactionID *int64       `json:"reversesTransactionID,omitempty"`
	MovementType          MovementType `json:"movementType"`
	LineCount             int          `json:"lineCount"`
	Totals                Totals       `json:"totals"`
	PostedBy              string       `json:"postedBy"`
	PostedAt              time.Time    `json:"postedAt"`
}
