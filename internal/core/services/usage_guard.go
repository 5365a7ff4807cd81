package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger_app/internal/platform/metrics"
	"github.com/jackc/pgx/v5"
)

// FreePlanCode identifies the implicit plan of companies without a subscription.
const FreePlanCode = "free"

// UsageGuard gates journal creation and backups on the company's subscription state and
// usage counters.
type UsageGuard struct {
	subscriptions portsrepo.SubscriptionReader
	usage         portsrepo.UsageRepository
	gracePeriod   time.Duration
	freePlan      domain.Plan
	metrics       *metrics.Ledger
}

// NewUsageGuard builds a guard. A negative freeDailyLimit leaves free companies unlimited.
func NewUsageGuard(subscriptions portsrepo.SubscriptionReader, usage portsrepo.UsageRepository, gracePeriod time.Duration, freeDailyLimit int64, m *metrics.Ledger) *UsageGuard {
	free := domain.Plan{PlanCode: FreePlanCode, Name: "Free"}
	if freeDailyLimit >= 0 {
		limit := freeDailyLimit
		free.DailyTransactionLimit = &limit
	}
	return &UsageGuard{
		subscriptions: subscriptions,
		usage:         usage,
		gracePeriod:   gracePeriod,
		freePlan:      free,
		metrics:       m,
	}
}

// resolve returns the state at now and the plan whose limits apply.
func (g *UsageGuard) resolve(ctx context.Context, companyID string, now time.Time) (domain.SubscriptionState, domain.Plan, error) {
	sub, err := g.subscriptions.FindSubscription(ctx, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.SubscriptionFree, g.freePlan, nil
		}
		return "", domain.Plan{}, fmt.Errorf("load subscription: %w", err)
	}
	state := sub.StateAt(now, g.gracePeriod)
	if state == domain.SubscriptionFree {
		return state, g.freePlan, nil
	}
	return state, sub.Plan, nil
}

func (g *UsageGuard) assertUsable(ctx context.Context, companyID string, now time.Time) (domain.Plan, error) {
	state, plan, err := g.resolve(ctx, companyID, now)
	if err != nil {
		return domain.Plan{}, err
	}
	if state == domain.SubscriptionExpired {
		g.metrics.GuardRejected("expired")
		return domain.Plan{}, apperrors.ErrSubscriptionExpired
	}
	return plan, nil
}

// AssertCanCreateJournal refuses a posting batch when the subscription expired or the
// day's journal count already reached the plan's limit.
func (g *UsageGuard) AssertCanCreateJournal(ctx context.Context, tx pgx.Tx, companyID string, now time.Time) error {
	plan, err := g.assertUsable(ctx, companyID, now)
	if err != nil {
		return err
	}
	if plan.DailyTransactionLimit == nil {
		return nil
	}
	counters, err := g.usage.GetUsage(ctx, tx, companyID, domain.DayKey(now), domain.MonthKey(now))
	if err != nil {
		return fmt.Errorf("load usage: %w", err)
	}
	if counters.JournalCount >= *plan.DailyTransactionLimit {
		g.metrics.GuardRejected("daily_limit")
		return fmt.Errorf("%w: %d journals per day", apperrors.ErrLimitReached, *plan.DailyTransactionLimit)
	}
	return nil
}

// RecordJournal counts one posting batch. The increment is re-checked against the limit
// so that concurrent batches cannot overshoot it.
func (g *UsageGuard) RecordJournal(ctx context.Context, tx pgx.Tx, companyID string, now time.Time) error {
	count, err := g.usage.IncrementJournalCount(ctx, tx, companyID, domain.DayKey(now))
	if err != nil {
		return fmt.Errorf("increment journal count: %w", err)
	}
	_, plan, err := g.resolve(ctx, companyID, now)
	if err != nil {
		return err
	}
	if plan.DailyTransactionLimit != nil && count > *plan.DailyTransactionLimit {
		g.metrics.GuardRejected("daily_limit")
		return fmt.Errorf("%w: %d journals per day", apperrors.ErrLimitReached, *plan.DailyTransactionLimit)
	}
	return nil
}

// AssertCanCreateBackup refuses a backup when the subscription expired or the month's
// backup count reached the plan's limit.
func (g *UsageGuard) AssertCanCreateBackup(ctx context.Context, tx pgx.Tx, companyID string, now time.Time) error {
	plan, err := g.assertUsable(ctx, companyID, now)
	if err != nil {
		return err
	}
	if plan.MonthlyBackupLimit == nil {
		return nil
	}
	counters, err := g.usage.GetUsage(ctx, tx, companyID, domain.DayKey(now), domain.MonthKey(now))
	if err != nil {
		return fmt.Errorf("load usage: %w", err)
	}
	if counters.BackupCount >= *plan.MonthlyBackupLimit {
		g.metrics.GuardRejected("backup_limit")
		return fmt.Errorf("%w: %d backups per month", apperrors.ErrLimitReached, *plan.MonthlyBackupLimit)
	}
	return nil
}

func (g *UsageGuard) RecordBackup(ctx context.Context, tx pgx.Tx, companyID string, now time.Time) error {
	count, err := g.usage.IncrementBackupCount(ctx, tx, companyID, domain.MonthKey(now))
	if err != nil {
		return fmt.Errorf("increment backup count: %w", err)
	}
	_, plan, err := g.resolve(ctx, companyID, now)
	if err != nil {
		return err
	}
	if plan.MonthlyBackupLimit != nil && count > *plan.MonthlyBackupLimit {
		g.metrics.GuardRejected("backup_limit")
		return fmt.Errorf("%w: %d backups per month", apperrors.ErrLimitReached, *plan.MonthlyBackupLimit)
	}
	return nil
}

// Usage reports the state, plan and counters of the company at now.
func (g *UsageGuard) Usage(ctx context.Context, tx pgx.Tx, companyID string, now time.Time) (*domain.UsageReport, error) {
	state, plan, err := g.resolve(ctx, companyID, now)
	if err != nil {
		return nil, err
	}
	counters, err := g.usage.GetUsage(ctx, tx, companyID, domain.DayKey(now), domain.MonthKey(now))
	if err != nil {
		return nil, fmt.Errorf("load usage: %w", err)
	}
	return &domain.UsageReport{
		State:                 state,
		Plan:                  &plan,
		Counters:              counters,
		DailyTransactionLimit: plan.DailyTransactionLimit,
		MonthlyBackupLimit:    plan.MonthlyBackupLimit,
	}, nil
}
