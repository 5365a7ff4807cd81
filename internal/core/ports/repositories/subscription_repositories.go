package repositories

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SubscriptionReader resolves a company's subscription.
type SubscriptionReader interface {
	// FindSubscription returns apperrors.ErrNotFound when the company has no subscription.
	FindSubscription(ctx context.Context, companyID string) (*domain.Subscription, error)
}

// SubscriptionRepository adds the administrative write used by the admin CLI.
type SubscriptionRepository interface {
	SubscriptionReader
	UpsertSubscription(ctx context.Context, sub domain.Subscription) error
}

// UsageRepository stores the per-day and per-month usage counters.
type UsageRepository interface {
	// GetUsage returns the counters for the day and month of the given keys. Missing rows are zero.
	GetUsage(ctx context.Context, tx pgx.Tx, companyID, day, month string) (domain.UsageCounters, error)

	// IncrementJournalCount adds one to the day's journal counter and returns the new value.
	// The counter row stays locked until tx ends.
	IncrementJournalCount(ctx context.Context, tx pgx.Tx, companyID, day string) (int64, error)

	// IncrementBackupCount adds one to the month's backup counter and returns the new value.
	IncrementBackupCount(ctx context.Context, tx pgx.Tx, companyID, month string) (int64, error)
}
