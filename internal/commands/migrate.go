package commands

import (
	"fmt"

	"github.com/SscSPs/bizledger_app/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back all schema migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var direction database.MigrationDirection
			switch args[0] {
			case "up":
				direction = database.MigrateUp
			case "down":
				direction = database.MigrateDown
			default:
				return fmt.Errorf("unknown direction %q, expected up or down", args[0])
			}

			cfg, err := e.loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			changed, err := e.migrate(e.logger, cfg, direction)
			if err != nil {
				return err
			}
			if changed {
				printf(cmd.OutOrStdout(), "migrations applied (%s)\n", args[0])
			} else {
				printf(cmd.OutOrStdout(), "no change\n")
			}
			return nil
		},
	}
}
