package commands

import (
	"fmt"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/SscSPs/bizledger_app/internal/utils"
	"github.com/spf13/cobra"
)

func parsePermissions(raw []string) ([]domain.Permission, error) {
	perms := make([]domain.Permission, 0, len(raw))
	for _, r := range raw {
		p := domain.Permission(r)
		if !p.IsValid() {
			return nil, fmt.Errorf("unknown permission %q", r)
		}
		perms = append(perms, p)
	}
	return perms, nil
}

// newIssueTokenCommand signs access tokens for local testing and service accounts.
func newIssueTokenCommand(e *env) *cobra.Command {
	var (
		userID      string
		companyID   string
		permissions []string
		expiry      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Sign an API access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			perms, err := parsePermissions(permissions)
			if err != nil {
				return err
			}
			cfg, err := e.loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if expiry <= 0 {
				expiry = cfg.JWTExpiryDuration
			}

			actor := domain.ActingUser{UserID: userID, CompanyID: companyID, Permissions: perms}
			token, err := utils.GenerateJWT(actor, cfg.JWTSecret, expiry, cfg.JWTIssuer)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&companyID, "company", "", "company id (required)")
	cmd.Flags().StringSliceVar(&permissions, "permissions", []string{string(domain.PermCompanyAdmin)}, "granted permissions")
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "token lifetime, defaults to JWT_EXPIRY_DURATION")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}
