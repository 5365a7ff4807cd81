package repositories

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionIDAllocator hands out transaction ids.
type TransactionIDAllocator interface {
	// NextTransactionID atomically increments and returns the company's transaction counter.
	// The counter row stays locked until tx ends.
	NextTransactionID(ctx context.Context, tx pgx.Tx, companyID string) (int64, error)
}

// JournalReader defines read operations for journal lines
type JournalReader interface {
	// FindLinesByTransaction returns the non-deleted lines of a transaction in insertion order.
	FindLinesByTransaction(ctx context.Context, tx pgx.Tx, companyID string, transactionID int64) ([]domain.JournalLine, error)

	// IsTransactionReversed reports whether a reversal referencing transactionID exists.
	IsTransactionReversed(ctx context.Context, tx pgx.Tx, companyID string, transactionID int64) (bool, error)

	// SumAccount aggregates the non-deleted lines of one account.
	SumAccount(ctx context.Context, tx pgx.Tx, accountID string) (domain.Totals, error)

	// ListLinesByAccount pages through an account ledger, newest first, after the cursor.
	ListLinesByAccount(ctx context.Context, companyID, accountID string, limit int, after *domain.LedgerCursor) ([]domain.JournalLine, error)

	// ListTransactionTotals aggregates every transaction of the company.
	ListTransactionTotals(ctx context.Context, companyID string) ([]domain.TransactionTotals, error)
}

// JournalWriter defines write operations for journal lines
type JournalWriter interface {
	// SaveLines inserts lines in a single batch.
	SaveLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	TransactionIDAllocator
	JournalReader
	JournalWriter
}
