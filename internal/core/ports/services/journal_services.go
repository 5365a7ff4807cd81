package services

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/SscSPs/bizledger_app/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	GetTransaction(ctx context.Context, actor domain.ActingUser, transactionID int64) (*domain.Transaction, error)

	// ListAccountLedger pages through the lines of one account, newest first.
	ListAccountLedger(ctx context.Context, actor domain.ActingUser, accountID string, params dto.ListLedgerParams) (*dto.LedgerResponse, error)

	// VerifyLedger checks the balance invariant of every transaction and the cached balances.
	VerifyLedger(ctx context.Context, actor domain.ActingUser) (*domain.LedgerVerification, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateManualEntry posts a balanced manual entry under a new transaction id.
	CreateManualEntry(ctx context.Context, actor domain.ActingUser, req dto.CreateJournalEntryRequest) (*domain.Transaction, error)

	// ReverseTransaction posts the mirror of a transaction under a new id.
	ReverseTransaction(ctx context.Context, actor domain.ActingUser, transactionID int64) (*domain.Transaction, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}

// LedgerEventPublisher announces committed transactions to other systems.
type LedgerEventPublisher interface {
	PublishTransactions(ctx context.Context, events []domain.LedgerEvent) error
}
