package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bizledger_app/internal/platform/config"
	"github.com/spf13/cobra"
)

func newRecalculateCommand(e *env) *cobra.Command {
	var companyID string

	cmd := &cobra.Command{
		Use:   "recalculate-balances",
		Short: "Rewrite every cached account balance of a company from its journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withBackend(cmd.Context(), func(_ *config.Config, b *backend) error {
				count, err := b.services.Account.RecalculateBalances(cmd.Context(), adminActor(companyID))
				if err != nil {
					return err
				}
				e.logger.Info("Balances recalculated", slog.String("company_id", companyID), slog.Int("accounts", count))
				printf(cmd.OutOrStdout(), "%d account balances recalculated\n", count)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "company id (required)")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func newVerifyCommand(e *env) *cobra.Command {
	var companyID string

	cmd := &cobra.Command{
		Use:   "verify-ledger",
		Short: "Check that every transaction balances and cached balances match the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withBackend(cmd.Context(), func(_ *config.Config, b *backend) error {
				result, err := b.services.Journal.VerifyLedger(cmd.Context(), adminActor(companyID))
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
				if !result.OK() {
					return fmt.Errorf("ledger of company %s has %d unbalanced transactions and %d stale balances",
						companyID, len(result.UnbalancedTxns), len(result.StaleBalances))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "company id (required)")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}
