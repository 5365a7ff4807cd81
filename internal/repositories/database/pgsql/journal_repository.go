package pgsql

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger_app/internal/models"
	"github.com/SscSPs/bizledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const lineColumns = `line_id, company_id, account_id, transaction_id, reverses_transaction_id, is_debit, amount,
	entry_date, description, movement_type, is_deleted, created_at, created_by, last_updated_at, last_updated_by`

func collectLines(rows pgx.Rows, op string) ([]domain.JournalLine, error) {
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, mapPgError(err, op)
	}
	return mapping.ToDomainJournalLineSlice(ms), nil
}

// NextTransactionID upserts the company counter. The row lock it takes serializes id
// allocation per company until the unit ends.
func (r *PgxJournalRepository) NextTransactionID(ctx context.Context, tx pgx.Tx, companyID string) (int64, error) {
	if err := requireTx(tx, "next transaction id"); err != nil {
		return 0, err
	}
	query := `
		INSERT INTO company_counters (company_id, last_transaction_id)
		VALUES ($1, 1)
		ON CONFLICT (company_id) DO UPDATE
		SET last_transaction_id = company_counters.last_transaction_id + 1
		RETURNING last_transaction_id;`

	var id int64
	if err := tx.QueryRow(ctx, query, companyID).Scan(&id); err != nil {
		return 0, mapPgError(err, "next transaction id")
	}
	return id, nil
}

func (r *PgxJournalRepository) FindLinesByTransaction(ctx context.Context, tx pgx.Tx, companyID string, transactionID int64) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE company_id = $1 AND transaction_id = $2 AND NOT is_deleted
		ORDER BY created_at, line_id;`

	rows, err := r.q(tx).Query(ctx, query, companyID, transactionID)
	if err != nil {
		return nil, mapPgError(err, "find transaction lines")
	}
	return collectLines(rows, "find transaction lines")
}

func (r *PgxJournalRepository) IsTransactionReversed(ctx context.Context, tx pgx.Tx, companyID string, transactionID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM journal_lines
			WHERE company_id = $1 AND reverses_transaction_id = $2 AND NOT is_deleted
		);`

	var reversed bool
	if err := r.q(tx).QueryRow(ctx, query, companyID, transactionID).Scan(&reversed); err != nil {
		return false, mapPgError(err, "check reversal")
	}
	return reversed, nil
}

func (r *PgxJournalRepository) SumAccount(ctx context.Context, tx pgx.Tx, accountID string) (domain.Totals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN is_debit THEN amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN NOT is_debit THEN amount ELSE 0 END), 0) AS total_credit
		FROM journal_lines
		WHERE account_id = $1 AND NOT is_deleted;`

	var t domain.Totals
	if err := r.q(tx).QueryRow(ctx, query, accountID).Scan(&t.Debit, &t.Credit); err != nil {
		return domain.Totals{}, mapPgError(err, "sum account")
	}
	return t, nil
}

// ListLinesByAccount pages newest first on (entry_date, created_at, line_id).
func (r *PgxJournalRepository) ListLinesByAccount(ctx context.Context, companyID, accountID string, limit int, after *domain.LedgerCursor) ([]domain.JournalLine, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == nil {
		query := `SELECT ` + lineColumns + `
			FROM journal_lines
			WHERE company_id = $1 AND account_id = $2 AND NOT is_deleted
			ORDER BY entry_date DESC, created_at DESC, line_id DESC
			LIMIT $3;`
		rows, err = r.Pool.Query(ctx, query, companyID, accountID, limit)
	} else {
		query := `SELECT ` + lineColumns + `
			FROM journal_lines
			WHERE company_id = $1 AND account_id = $2 AND NOT is_deleted
				AND (entry_date, created_at, line_id) < ($3, $4, $5)
			ORDER BY entry_date DESC, created_at DESC, line_id DESC
			LIMIT $6;`
		rows, err = r.Pool.Query(ctx, query, companyID, accountID, after.EntryDate, after.CreatedAt, after.LineID, limit)
	}
	if err != nil {
		return nil, mapPgError(err, "list account ledger")
	}
	return collectLines(rows, "list account ledger")
}

func (r *PgxJournalRepository) ListTransactionTotals(ctx context.Context, companyID string) ([]domain.TransactionTotals, error) {
	query := `
		SELECT
			transaction_id,
			SUM(CASE WHEN is_debit THEN amount ELSE 0 END) AS total_debit,
			SUM(CASE WHEN NOT is_debit THEN amount ELSE 0 END) AS total_credit
		FROM journal_lines
		WHERE company_id = $1 AND NOT is_deleted
		GROUP BY transaction_id
		ORDER BY transaction_id;`

	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, mapPgError(err, "list transaction totals")
	}
	defer rows.Close()

	var result []domain.TransactionTotals
	for rows.Next() {
		var t domain.TransactionTotals
		if err := rows.Scan(&t.TransactionID, &t.Debit, &t.Credit); err != nil {
			return nil, mapPgError(err, "scan transaction totals")
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "list transaction totals")
	}
	return result, nil
}

// SaveLines inserts every line of a posting in one batch.
func (r *PgxJournalRepository) SaveLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	if err := requireTx(tx, "save journal lines"); err != nil {
		return err
	}
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`

	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(query,
			m.LineID,
			m.CompanyID,
			m.AccountID,
			m.TransactionID,
			m.ReversesTransactionID,
			m.IsDebit,
			m.Amount,
			m.EntryDate,
			m.Description,
			m.MovementType,
			m.IsDeleted,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	return execBatch(ctx, tx, batch, "save journal lines")
}
