package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotals_BalanceFor(t *testing.T) {
	totals := domain.Totals{}.
		Add(domain.Debit, d("100")).
		Add(domain.Credit, d("30.25")).
		Add(domain.Debit, d("0.25"))

	assert.True(t, totals.BalanceFor(domain.Debit).Equal(d("70")))
	assert.True(t, totals.BalanceFor(domain.Credit).Equal(d("-70")))
	assert.False(t, totals.IsBalanced())

	account := domain.Account{Side: domain.Credit}
	assert.True(t, account.BalanceFromTotals(totals).Equal(d("-70")))
}

func TestTotalsOf_ExactDecimalEquality(t *testing.T) {
	lines := []domain.JournalLine{
		{Side: domain.Debit, Amount: d("0.1")},
		{Side: domain.Debit, Amount: d("0.2")},
		{Side: domain.Credit, Amount: d("0.3")},
	}
	assert.True(t, domain.TotalsOf(lines).IsBalanced())
}

func TestSide(t *testing.T) {
	assert.Equal(t, domain.Credit, domain.Debit.Flip())
	assert.Equal(t, domain.Debit, domain.Credit.Flip())
	assert.Equal(t, "DEBIT", domain.Debit.String())
	assert.Equal(t, domain.Debit, domain.Expense.DefaultSide())
	assert.Equal(t, domain.Credit, domain.Income.DefaultSide())
}

func TestSubscription_StateAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	grace := 7 * 24 * time.Hour
	endsAt := func(tm time.Time) *domain.Subscription {
		return &domain.Subscription{StartsAt: tm.AddDate(-1, 0, 0), EndsAt: &tm}
	}

	var none *domain.Subscription
	assert.Equal(t, domain.SubscriptionFree, none.StateAt(now, grace))
	assert.Equal(t, domain.SubscriptionActive, (&domain.Subscription{}).StateAt(now, grace))
	assert.Equal(t, domain.SubscriptionActive, endsAt(now.Add(time.Hour)).StateAt(now, grace))
	assert.Equal(t, domain.SubscriptionGrace, endsAt(now.Add(-24*time.Hour)).StateAt(now, grace))
	assert.Equal(t, domain.SubscriptionExpired, endsAt(now.Add(-8*24*time.Hour)).StateAt(now, grace))
	assert.Equal(t, domain.SubscriptionExpired, endsAt(now.Add(-time.Minute)).StateAt(now, 0))

	upcoming := &domain.Subscription{StartsAt: now.Add(time.Hour)}
	assert.Equal(t, domain.SubscriptionFree, upcoming.StateAt(now, grace))
	assert.Equal(t, domain.SubscriptionActive, upcoming.StateAt(now.Add(time.Hour), grace))
}

func TestCounterKeysAreUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	tm := time.Date(2026, 1, 1, 5, 0, 0, 0, loc)
	assert.Equal(t, "2025-12-31", domain.DayKey(tm))
	assert.Equal(t, "2025-12", domain.MonthKey(tm))
}

func TestPaySlip_NetPay(t *testing.T) {
	slip := domain.PaySlip{
		BaseSalary: d("1000"),
		Items: []domain.PaySlipItem{
			{Kind: domain.PaySlipEarning, Amount: d("150")},
			{Kind: domain.PaySlipDeduction, Amount: d("50")},
			{Kind: domain.PaySlipEarning, Amount: d("999"), IsDeleted: true},
		},
	}
	assert.True(t, slip.NetPay().Equal(d("1100")))

	run := domain.PayRun{Slips: []domain.PaySlip{slip, {BaseSalary: d("1500")}, {BaseSalary: d("700"), IsDeleted: true}}}
	assert.Len(t, run.ActiveSlips(), 2)
	assert.True(t, run.TotalNetPay().Equal(d("2600")))
}

func TestParty_SubAccounts(t *testing.T) {
	vendor := domain.Party{Kind: domain.PartyVendor, Name: "Acme"}
	assert.Equal(t, "Acme Payable", vendor.SubAccountTitle())
	assert.Equal(t, "Acme Payable Contra", vendor.ContraAccountTitle())

	entries := vendor.SubAccountEntries()
	assert.Len(t, entries, 2)
	assert.Equal(t, domain.Liability, entries[0].Type)
	assert.Equal(t, domain.Credit, entries[0].Side)
	assert.Equal(t, domain.Contra, entries[1].Type)
	assert.Equal(t, domain.Debit, entries[1].Side)

	customer := domain.Party{Kind: domain.PartyCustomer, Name: "Globex"}
	assert.Equal(t, "Globex Receivable", customer.SubAccountTitle())
	assert.Equal(t, domain.Credit, customer.SubAccountEntries()[1].Side)

	employee := domain.Party{Kind: domain.PartyEmployee, Name: "Jo"}
	assert.Equal(t, "Jo Salary Payable Contra", employee.ContraAccountTitle())
}

func TestActingUser_Can(t *testing.T) {
	reader := domain.ActingUser{Permissions: []domain.Permission{domain.PermLedgerRead}}
	assert.True(t, reader.Can(domain.PermLedgerRead))
	assert.False(t, reader.Can(domain.PermLedgerWrite))

	admin := domain.ActingUser{Permissions: []domain.Permission{domain.PermCompanyAdmin}}
	assert.True(t, admin.Can(domain.PermPayrollManage))

	assert.False(t, domain.ActingUser{}.Can(domain.PermLedgerRead))
}
