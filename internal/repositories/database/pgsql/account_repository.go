package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger_app/internal/models"
	"github.com/SscSPs/bizledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, company_id, title, account_type, account_sub_type, is_debit, balance, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

func collectAccounts(rows pgx.Rows, op string) ([]domain.Account, error) {
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapPgError(err, op)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func byAccountID(accounts []domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		out[acc.AccountID] = acc
	}
	return out
}

// FindAccountByID retrieves a non-deleted account of the company.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, tx pgx.Tx, companyID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND account_id = $2 AND NOT is_deleted;`

	rows, err := r.q(tx).Query(ctx, query, companyID, accountID)
	if err != nil {
		return nil, mapPgError(err, "find account")
	}
	accounts, err := collectAccounts(rows, "find account")
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return &accounts[0], nil
}

func (r *PgxAccountRepository) FindAccountsByTitles(ctx context.Context, tx pgx.Tx, companyID string, titles []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(titles))
	if len(titles) == 0 {
		return out, nil
	}
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND title = ANY($2) AND NOT is_deleted;`

	rows, err := r.q(tx).Query(ctx, query, companyID, titles)
	if err != nil {
		return nil, mapPgError(err, "find accounts by title")
	}
	accounts, err := collectAccounts(rows, "find accounts by title")
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		out[acc.Title] = acc
	}
	return out, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tx pgx.Tx, companyID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND NOT is_deleted
		ORDER BY title;`

	rows, err := r.q(tx).Query(ctx, query, companyID)
	if err != nil {
		return nil, mapPgError(err, "list accounts")
	}
	return collectAccounts(rows, "list accounts")
}

// SaveAccounts inserts accounts in one batch. The partial unique index on
// (company_id, title) turns a duplicate title into apperrors.ErrDuplicate.
func (r *PgxAccountRepository) SaveAccounts(ctx context.Context, tx pgx.Tx, accounts []domain.Account) error {
	if err := requireTx(tx, "save accounts"); err != nil {
		return err
	}
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	batch := &pgx.Batch{}
	for _, acc := range accounts {
		m := mapping.ToModelAccount(acc)
		batch.Queue(query,
			m.AccountID,
			m.CompanyID,
			m.Title,
			m.AccountType,
			m.AccountSubType,
			m.IsDebit,
			m.Balance,
			m.IsDeleted,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	return execBatch(ctx, tx, batch, "save accounts")
}

func (r *PgxAccountRepository) UpdateCachedBalance(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	if err := requireTx(tx, "update balance"); err != nil {
		return err
	}
	query := `
		UPDATE accounts
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;`

	ct, err := tx.Exec(ctx, query, accountID, balance, now, userID)
	if err != nil {
		return mapPgError(err, "update balance")
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return nil
}

// FindAccountsByIDsForUpdate locks the accounts in id order so that concurrent units
// touching overlapping accounts cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if err := requireTx(tx, "lock accounts"); err != nil {
		return nil, err
	}
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND account_id = ANY($2) AND NOT is_deleted
		ORDER BY account_id
		FOR UPDATE;`

	rows, err := tx.Query(ctx, query, companyID, accountIDs)
	if err != nil {
		return nil, mapPgError(err, "lock accounts")
	}
	accounts, err := collectAccounts(rows, "lock accounts")
	if err != nil {
		return nil, err
	}
	return byAccountID(accounts), nil
}
