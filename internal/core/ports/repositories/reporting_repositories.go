package repositories

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
)

// ReportingRepository provides the aggregates the financial reports are built from.
type ReportingRepository interface {
	// AggregateByAccount sums non-deleted lines per account within the filter.
	// Accounts without lines are absent from the map.
	AggregateByAccount(ctx context.Context, companyID string, filter domain.AggregateFilter) (map[string]domain.Totals, error)

	// AggregateByMovementType sums the non-deleted lines of one account per movement type.
	AggregateByMovementType(ctx context.Context, companyID, accountID string, filter domain.AggregateFilter) ([]domain.MovementTotals, error)
}
