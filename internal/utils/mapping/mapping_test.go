package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountSideColumn(t *testing.T) {
	acc := domain.Account{AccountID: "a1", Title: "Globex Payable Contra", AccountType: domain.Contra, Side: domain.Debit}

	m := ToModelAccount(acc)
	assert.True(t, m.IsDebit)
	assert.Equal(t, "CONTRA", m.AccountType)
	assert.Equal(t, domain.Debit, ToDomainAccount(m).Side)

	acc.Side = domain.Credit
	assert.False(t, ToModelAccount(acc).IsDebit)
}

func TestJournalLineKeepsReversalLink(t *testing.T) {
	reverses := int64(7)
	line := domain.JournalLine{
		LineID:                "l1",
		TransactionID:         9,
		ReversesTransactionID: &reverses,
		Side:                  domain.Credit,
		Amount:                decimal.RequireFromString("12.50"),
		EntryDate:             time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		MovementType:          domain.MovementReversal,
	}

	back := ToDomainJournalLine(ToModelJournalLine(line))
	assert.Equal(t, line, back)
}
