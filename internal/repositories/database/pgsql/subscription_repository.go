package pgsql

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSubscriptionRepository stores subscriptions and the usage counters the guard meters.
type PgxSubscriptionRepository struct {
	BaseRepository
}

func newPgxSubscriptionRepository(pool *pgxpool.Pool) *PgxSubscriptionRepository {
	return &PgxSubscriptionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.SubscriptionRepository = (*PgxSubscriptionRepository)(nil)
	_ portsrepo.UsageRepository        = (*PgxSubscriptionRepository)(nil)
)

// FindSubscription reads committed data; subscriptions change outside units of work.
func (r *PgxSubscriptionRepository) FindSubscription(ctx context.Context, companyID string) (*domain.Subscription, error) {
	query := `
		SELECT company_id, plan_code, plan_name, daily_transaction_limit, monthly_backup_limit, starts_at, ends_at
		FROM subscriptions
		WHERE company_id = $1;`

	var sub domain.Subscription
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&sub.CompanyID,
		&sub.Plan.PlanCode,
		&sub.Plan.Name,
		&sub.Plan.DailyTransactionLimit,
		&sub.Plan.MonthlyBackupLimit,
		&sub.StartsAt,
		&sub.EndsAt,
	)
	if err != nil {
		return nil, mapPgError(err, "find subscription")
	}
	return &sub, nil
}

func (r *PgxSubscriptionRepository) UpsertSubscription(ctx context.Context, sub domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (company_id, plan_code, plan_name, daily_transaction_limit, monthly_backup_limit, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id) DO UPDATE
		SET plan_code = EXCLUDED.plan_code,
			plan_name = EXCLUDED.plan_name,
			daily_transaction_limit = EXCLUDED.daily_transaction_limit,
			monthly_backup_limit = EXCLUDED.monthly_backup_limit,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at;`

	_, err := r.Pool.Exec(ctx, query,
		sub.CompanyID,
		sub.Plan.PlanCode,
		sub.Plan.Name,
		sub.Plan.DailyTransactionLimit,
		sub.Plan.MonthlyBackupLimit,
		sub.StartsAt,
		sub.EndsAt,
	)
	return mapPgError(err, "upsert subscription")
}

func (r *PgxSubscriptionRepository) GetUsage(ctx context.Context, tx pgx.Tx, companyID, day, month string) (domain.UsageCounters, error) {
	query := `
		SELECT
			COALESCE((SELECT journal_count FROM usage_daily WHERE company_id = $1 AND day = $2), 0),
			COALESCE((SELECT backup_count FROM usage_monthly WHERE company_id = $1 AND month = $3), 0);`

	counters := domain.UsageCounters{CompanyID: companyID, Day: day, Month: month}
	if err := r.q(tx).QueryRow(ctx, query, companyID, day, month).Scan(&counters.JournalCount, &counters.BackupCount); err != nil {
		return domain.UsageCounters{}, mapPgError(err, "get usage")
	}
	return counters, nil
}

func (r *PgxSubscriptionRepository) IncrementJournalCount(ctx context.Context, tx pgx.Tx, companyID, day string) (int64, error) {
	if err := requireTx(tx, "increment journal count"); err != nil {
		return 0, err
	}
	query := `
		INSERT INTO usage_daily (company_id, day, journal_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, day) DO UPDATE
		SET journal_count = usage_daily.journal_count + 1
		RETURNING journal_count;`

	var count int64
	if err := tx.QueryRow(ctx, query, companyID, day).Scan(&count); err != nil {
		return 0, mapPgError(err, "increment journal count")
	}
	return count, nil
}

func (r *PgxSubscriptionRepository) IncrementBackupCount(ctx context.Context, tx pgx.Tx, companyID, month string) (int64, error) {
	if err := requireTx(tx, "increment backup count"); err != nil {
		return 0, err
	}
	query := `
		INSERT INTO usage_monthly (company_id, month, backup_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, month) DO UPDATE
		SET backup_count = usage_monthly.backup_count + 1
		RETURNING backup_count;`

	var count int64
	if err := tx.QueryRow(ctx, query, companyID, month).Scan(&count); err != nil {
		return 0, mapPgError(err, "increment backup count")
	}
	return count, nil
}
