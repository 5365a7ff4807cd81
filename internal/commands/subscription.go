package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/SscSPs/bizledger_app/internal/platform/config"
	"github.com/spf13/cobra"
)

type subscriptionFlags struct {
	companyID   string
	planCode    string
	planName    string
	dailyLimit  int64
	backupLimit int64
	startsAt    string
	endsAt      string
}

// toSubscription converts the flags. Negative limits mean unlimited; dates are YYYY-MM-DD.
func (f subscriptionFlags) toSubscription(now time.Time) (domain.Subscription, error) {
	sub := domain.Subscription{
		CompanyID: f.companyID,
		Plan:      domain.Plan{PlanCode: f.planCode, Name: f.planName},
		StartsAt:  now.UTC().Truncate(24 * time.Hour),
	}
	if sub.Plan.Name == "" {
		sub.Plan.Name = f.planCode
	}
	if f.dailyLimit >= 0 {
		limit := f.dailyLimit
		sub.Plan.DailyTransactionLimit = &limit
	}
	if f.backupLimit >= 0 {
		limit := f.backupLimit
		sub.Plan.MonthlyBackupLimit = &limit
	}
	if f.startsAt != "" {
		t, err := time.Parse(time.DateOnly, f.startsAt)
		if err != nil {
			return sub, fmt.Errorf("invalid --starts-at: %w", err)
		}
		sub.StartsAt = t
	}
	if f.endsAt != "" {
		t, err := time.Parse(time.DateOnly, f.endsAt)
		if err != nil {
			return sub, fmt.Errorf("invalid --ends-at: %w", err)
		}
		if !t.After(sub.StartsAt) {
			return sub, fmt.Errorf("--ends-at must be after --starts-at")
		}
		sub.EndsAt = &t
	}
	return sub, nil
}

func newSetSubscriptionCommand(e *env) *cobra.Command {
	f := subscriptionFlags{}

	cmd := &cobra.Command{
		Use:   "set-subscription",
		Short: "Create or replace the subscription of a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := f.toSubscription(time.Now())
			if err != nil {
				return err
			}
			return e.withBackend(cmd.Context(), func(_ *config.Config, b *backend) error {
				if err := b.subscriptions.UpsertSubscription(cmd.Context(), sub); err != nil {
					return err
				}
				if b.cache != nil {
					if err := b.cache.Invalidate(cmd.Context(), sub.CompanyID); err != nil {
						return fmt.Errorf("subscription saved but cached copy not cleared: %w", err)
					}
				}
				e.logger.Info("Subscription updated", slog.String("company_id", sub.CompanyID), slog.String("plan", sub.Plan.PlanCode))
				printf(cmd.OutOrStdout(), "company %s is on plan %s\n", sub.CompanyID, sub.Plan.PlanCode)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.companyID, "company", "", "company id (required)")
	cmd.Flags().StringVar(&f.planCode, "plan", "", "plan code (required)")
	cmd.Flags().StringVar(&f.planName, "plan-name", "", "display name, defaults to the plan code")
	cmd.Flags().Int64Var(&f.dailyLimit, "daily-limit", -1, "journal postings per day, negative for unlimited")
	cmd.Flags().Int64Var(&f.backupLimit, "backup-limit", -1, "backups per month, negative for unlimited")
	cmd.Flags().StringVar(&f.startsAt, "starts-at", "", "start date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&f.endsAt, "ends-at", "", "end date (YYYY-MM-DD), open-ended when empty")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}
