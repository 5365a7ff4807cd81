package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a non-deleted account of the company.
	FindAccountByID(ctx context.Context, tx pgx.Tx, companyID, accountID string) (*domain.Account, error)

	// FindAccountsByTitles resolves non-deleted accounts of the company keyed by title.
	// Missing titles are absent from the map.
	FindAccountsByTitles(ctx context.Context, tx pgx.Tx, companyID string, titles []string) (map[string]domain.Account, error)

	// ListAccounts retrieves every non-deleted account of the company, ordered by title.
	ListAccounts(ctx context.Context, tx pgx.Tx, companyID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccounts inserts new accounts. A duplicate title yields apperrors.ErrDuplicate.
	SaveAccounts(ctx context.Context, tx pgx.Tx, accounts []domain.Account) error

	// UpdateCachedBalance overwrites the cached balance column of an account.
	UpdateCachedBalance(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations that support account transactions
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects non-deleted accounts of the company and locks them.
	// Accounts that are missing or belong to another company are absent from the map.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
