package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *pgxpool.Pool) *reportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// dateBounds renders the optional entry date bounds as SQL conditions starting at $n.
func dateBounds(filter domain.AggregateFilter, n int) (string, []any) {
	var (
		cond string
		args []any
	)
	if filter.From != nil {
		cond += fmt.Sprintf(" AND entry_date >= $%d", n)
		args = append(args, *filter.From)
		n++
	}
	if filter.To != nil {
		cond += fmt.Sprintf(" AND entry_date <= $%d", n)
		args = append(args, *filter.To)
	}
	return cond, args
}

// AggregateByAccount sums the lines of every account with activity in the range.
func (r *reportingRepository) AggregateByAccount(ctx context.Context, companyID string, filter domain.AggregateFilter) (map[string]domain.Totals, error) {
	cond, args := dateBounds(filter, 2)
	query := `
		SELECT
			account_id,
			SUM(CASE WHEN is_debit THEN amount ELSE 0 END) AS total_debit,
			SUM(CASE WHEN NOT is_debit THEN amount ELSE 0 END) AS total_credit
		FROM journal_lines
		WHERE company_id = $1 AND NOT is_deleted` + cond + `
		GROUP BY account_id;`

	rows, err := r.Pool.Query(ctx, query, append([]any{companyID}, args...)...)
	if err != nil {
		return nil, mapPgError(err, "aggregate by account")
	}
	defer rows.Close()

	result := make(map[string]domain.Totals)
	for rows.Next() {
		var (
			accountID string
			t         domain.Totals
		)
		if err := rows.Scan(&accountID, &t.Debit, &t.Credit); err != nil {
			return nil, mapPgError(err, "scan account aggregate")
		}
		result[accountID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "aggregate by account")
	}
	return result, nil
}

func (r *reportingRepository) AggregateByMovementType(ctx context.Context, companyID, accountID string, filter domain.AggregateFilter) ([]domain.MovementTotals, error) {
	cond, args := dateBounds(filter, 3)
	query := `
		SELECT
			movement_type,
			SUM(CASE WHEN is_debit THEN amount ELSE 0 END) AS total_debit,
			SUM(CASE WHEN NOT is_debit THEN amount ELSE 0 END) AS total_credit
		FROM journal_lines
		WHERE company_id = $1 AND account_id = $2 AND NOT is_deleted` + cond + `
		GROUP BY movement_type
		ORDER BY movement_type;`

	rows, err := r.Pool.Query(ctx, query, append([]any{companyID, accountID}, args...)...)
	if err != nil {
		return nil, mapPgError(err, "aggregate by movement type")
	}
	defer rows.Close()

	var result []domain.MovementTotals
	for rows.Next() {
		var (
			movement string
			row      domain.MovementTotals
		)
		if err := rows.Scan(&movement, &row.Debit, &row.Credit); err != nil {
			return nil, mapPgError(err, "scan movement aggregate")
		}
		row.MovementType = domain.MovementType(movement)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "aggregate by movement type")
	}
	return result, nil
}
