package repositories

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PayrollRepository persists pay runs, payslips and payslip items.
type PayrollRepository interface {
	SavePayRun(ctx context.Context, tx pgx.Tx, run domain.PayRun) error

	// UpdatePayRun writes the run flags and cascades the lock and deletion flags to its
	// payslips and items.
	UpdatePayRun(ctx context.Context, tx pgx.Tx, run domain.PayRun) error

	// FindPayRunForUpdate loads a non-deleted run with its payslips and locks it.
	FindPayRunForUpdate(ctx context.Context, tx pgx.Tx, companyID, payRunID string) (*domain.PayRun, error)
}
