package services

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/SscSPs/bizledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccounts returns the chart with balances aggregated at request time.
	GetAccounts(ctx context.Context, actor domain.ActingUser) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, actor domain.ActingUser, req dto.CreateAccountRequest) (*domain.Account, error)

	// RecalculateBalances refreshes every cached balance of the company and returns the count.
	RecalculateBalances(ctx context.Context, actor domain.ActingUser) (int, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
