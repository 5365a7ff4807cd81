package pgsql

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxPayrollRepository persists pay runs with their payslips and payslip items.
type PgxPayrollRepository struct {
	BaseRepository
}

func newPgxPayrollRepository(pool *pgxpool.Pool) *PgxPayrollRepository {
	return &PgxPayrollRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollRepository = (*PgxPayrollRepository)(nil)

func (r *PgxPayrollRepository) SavePayRun(ctx context.Context, tx pgx.Tx, run domain.PayRun) error {
	if err := requireTx(tx, "save pay run"); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO pay_runs (pay_run_id, company_id, period_start, period_end, pay_date, status, is_locked, cashed_out,
			transaction_id, is_deleted, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		run.PayRunID,
		run.CompanyID,
		run.PeriodStart,
		run.PeriodEnd,
		run.PayDate,
		string(run.Status),
		run.IsLocked,
		run.CashedOut,
		run.TransactionID,
		run.IsDeleted,
		run.CreatedAt,
		run.CreatedBy,
		run.LastUpdatedAt,
		run.LastUpdatedBy,
	)
	for i, slip := range run.Slips {
		batch.Queue(`
			INSERT INTO pay_slips (pay_slip_id, pay_run_id, position, employee_id, base_salary, is_locked, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			slip.PaySlipID, run.PayRunID, i, slip.EmployeeID, slip.BaseSalary, slip.IsLocked, slip.IsDeleted)
		for j, item := range slip.Items {
			batch.Queue(`
				INSERT INTO pay_slip_items (item_id, pay_slip_id, position, label, kind, amount, is_deleted)
				VALUES ($1, $2, $3, $4, $5, $6, $7);`,
				item.ItemID, slip.PaySlipID, j, item.Label, string(item.Kind), item.Amount, item.IsDeleted)
		}
	}
	return execBatch(ctx, tx, batch, "save pay run")
}

// UpdatePayRun writes the run flags and cascades is_locked and is_deleted to the payslips
// and, for deletion, their items.
func (r *PgxPayrollRepository) UpdatePayRun(ctx context.Context, tx pgx.Tx, run domain.PayRun) error {
	if err := requireTx(tx, "update pay run"); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	batch.Queue(`
		UPDATE pay_runs
		SET status = $3, is_locked = $4, cashed_out = $5, transaction_id = $6, is_deleted = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE company_id = $1 AND pay_run_id = $2;`,
		run.CompanyID,
		run.PayRunID,
		string(run.Status),
		run.IsLocked,
		run.CashedOut,
		run.TransactionID,
		run.IsDeleted,
		run.LastUpdatedAt,
		run.LastUpdatedBy,
	)
	batch.Queue(`
		UPDATE pay_slips
		SET is_locked = is_locked OR $2, is_deleted = is_deleted OR $3
		WHERE pay_run_id = $1;`,
		run.PayRunID, run.IsLocked, run.IsDeleted)
	if run.IsDeleted {
		batch.Queue(`
			UPDATE pay_slip_items
			SET is_deleted = TRUE
			WHERE pay_slip_id IN (SELECT pay_slip_id FROM pay_slips WHERE pay_run_id = $1);`,
			run.PayRunID)
	}
	return execBatch(ctx, tx, batch, "update pay run")
}

func (r *PgxPayrollRepository) FindPayRunForUpdate(ctx context.Context, tx pgx.Tx, companyID, payRunID string) (*domain.PayRun, error) {
	if err := requireTx(tx, "lock pay run"); err != nil {
		return nil, err
	}
	var (
		run    domain.PayRun
		status string
	)
	err := tx.QueryRow(ctx, `
		SELECT pay_run_id, company_id, period_start, period_end, pay_date, status, is_locked, cashed_out,
			transaction_id, is_deleted, created_at, created_by, last_updated_at, last_updated_by
		FROM pay_runs
		WHERE company_id = $1 AND pay_run_id = $2 AND NOT is_deleted
		FOR UPDATE;`, companyID, payRunID).Scan(
		&run.PayRunID,
		&run.CompanyID,
		&run.PeriodStart,
		&run.PeriodEnd,
		&run.PayDate,
		&status,
		&run.IsLocked,
		&run.CashedOut,
		&run.TransactionID,
		&run.IsDeleted,
		&run.CreatedAt,
		&run.CreatedBy,
		&run.LastUpdatedAt,
		&run.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "find pay run "+payRunID)
	}
	run.Status = domain.PayRunStatus(status)

	slips, err := r.loadSlips(ctx, tx, payRunID)
	if err != nil {
		return nil, err
	}
	run.Slips = slips
	return &run, nil
}

// loadSlips reads the payslips of a run with their items, in input order.
func (r *PgxPayrollRepository) loadSlips(ctx context.Context, tx pgx.Tx, payRunID string) ([]domain.PaySlip, error) {
	rows, err := tx.Query(ctx, `
		SELECT s.pay_slip_id, s.employee_id, s.base_salary, s.is_locked, s.is_deleted,
			i.item_id, i.label, i.kind, i.amount, i.is_deleted
		FROM pay_slips s
		LEFT JOIN pay_slip_items i ON i.pay_slip_id = s.pay_slip_id
		WHERE s.pay_run_id = $1
		ORDER BY s.position, i.position;`, payRunID)
	if err != nil {
		return nil, mapPgError(err, "load payslips")
	}
	defer rows.Close()

	var slips []domain.PaySlip
	for rows.Next() {
		var (
			slip        domain.PaySlip
			itemID      *string
			label, kind *string
			item        domain.PaySlipItem
			amount      decimal.NullDecimal
			itemDeleted *bool
		)
		if err := rows.Scan(&slip.PaySlipID, &slip.EmployeeID, &slip.BaseSalary, &slip.IsLocked, &slip.IsDeleted,
			&itemID, &label, &kind, &amount, &itemDeleted); err != nil {
			return nil, mapPgError(err, "scan payslip")
		}
		if n := len(slips); n == 0 || slips[n-1].PaySlipID != slip.PaySlipID {
			slips = append(slips, slip)
		}
		if itemID == nil {
			continue
		}
		item.ItemID = *itemID
		item.Label = *label
		item.Kind = domain.PaySlipItemKind(*kind)
		item.Amount = amount.Decimal
		item.IsDeleted = itemDeleted != nil && *itemDeleted
		last := &slips[len(slips)-1]
		last.Items = append(last.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "load payslips")
	}
	return slips, nil
}
