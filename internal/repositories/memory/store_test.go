package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, s *Store, companyID, title string, side domain.Side) domain.Account {
	t.Helper()
	ctx := context.Background()
	acc := domain.Account{AccountID: title + "-id", CompanyID: companyID, Title: title, AccountType: domain.Asset, Side: side}
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveAccounts(ctx, tx, []domain.Account{acc}))
	require.NoError(t, s.Commit(ctx, tx))
	return acc
}

func TestRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedAccount(t, s, "c1", "Cash", domain.Debit)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	id, err := s.NextTransactionID(ctx, tx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.NoError(t, s.SaveLines(ctx, tx, []domain.JournalLine{{LineID: "l1", CompanyID: "c1", AccountID: "Cash-id", TransactionID: id, Side: domain.Debit, Amount: decimal.NewFromInt(5)}}))

	// uncommitted lines are invisible outside the unit
	assert.Equal(t, 0, s.LineCount())
	lines, err := s.FindLinesByTransaction(ctx, tx, "c1", id)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	require.NoError(t, s.Rollback(ctx, tx))
	require.NoError(t, s.Rollback(ctx, tx), "second rollback is a no-op")
	assert.Equal(t, 0, s.LineCount())

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	id, err = s.NextTransactionID(ctx, tx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id, "counter increment was rolled back")
	require.NoError(t, s.Rollback(ctx, tx))
}

func TestCommitFailureInjection(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.FailNextCommits(apperrors.ErrConcurrency)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = s.NextTransactionID(ctx, tx, "c1")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Commit(ctx, tx), apperrors.ErrConcurrency)
	assert.ErrorIs(t, s.Commit(ctx, tx), pgx.ErrTxClosed)

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	id, err := s.NextTransactionID(ctx, tx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.NoError(t, s.Commit(ctx, tx))
}

func TestWritesRequireUnit(t *testing.T) {
	s := New()
	err := s.SaveLines(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestDuplicateAccountTitle(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedAccount(t, s, "c1", "Cash", domain.Debit)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer s.Rollback(ctx, tx)
	err = s.SaveAccounts(ctx, tx, []domain.Account{{AccountID: "other", CompanyID: "c1", Title: "Cash"}})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// same title in another company is fine
	err = s.SaveAccounts(ctx, tx, []domain.Account{{AccountID: "other", CompanyID: "c2", Title: "Cash"}})
	assert.NoError(t, err)
}

func TestLedgerPagingNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedAccount(t, s, "c1", "Cash", domain.Debit)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	var lines []domain.JournalLine
	for i := 0; i < 5; i++ {
		lines = append(lines, domain.JournalLine{
			LineID:        string(rune('a' + i)),
			CompanyID:     "c1",
			AccountID:     "Cash-id",
			TransactionID: int64(i + 1),
			Side:          domain.Debit,
			Amount:        decimal.NewFromInt(1),
			EntryDate:     base.AddDate(0, 0, i),
		})
	}
	require.NoError(t, s.SaveLines(ctx, tx, lines))
	require.NoError(t, s.Commit(ctx, tx))

	page, err := s.ListLinesByAccount(ctx, "c1", "Cash-id", 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "e", page[0].LineID)
	assert.Equal(t, "d", page[1].LineID)

	last := page[1]
	page, err = s.ListLinesByAccount(ctx, "c1", "Cash-id", 10, &domain.LedgerCursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, LineID: last.LineID})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "c", page[0].LineID)
	assert.Equal(t, "a", page[2].LineID)
}
