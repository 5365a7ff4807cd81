// Package commands implements the bizledger admin CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	rediscache "github.com/SscSPs/bizledger_app/internal/adapters/cache/redis"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/core/services"
	"github.com/SscSPs/bizledger_app/internal/platform/config"
	"github.com/SscSPs/bizledger_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/bizledger_app/pkg/database"
	"github.com/spf13/cobra"
)

// adminUserID is recorded as the author of postings made from the CLI.
const adminUserID = "admin-cli"

// subscriptionInvalidator drops a cached subscription so that the server reads the new one.
type subscriptionInvalidator interface {
	Invalidate(ctx context.Context, companyID string) error
}

// backend is what the database-backed commands need. Tests replace it.
type backend struct {
	services      *portssvc.ServiceContainer
	subscriptions portsrepo.SubscriptionRepository
	cache         subscriptionInvalidator // nil without Redis
	close         func()
}

type env struct {
	logger      *slog.Logger
	loadConfig  func() (*config.Config, error)
	openBackend func(ctx context.Context, cfg *config.Config) (*backend, error)
	migrate     func(logger *slog.Logger, cfg *config.Config, direction database.MigrationDirection) (bool, error)
}

func defaultEnv(logger *slog.Logger) *env {
	return &env{
		logger:      logger,
		loadConfig:  config.LoadConfig,
		openBackend: func(ctx context.Context, cfg *config.Config) (*backend, error) {
			return openPgBackend(ctx, cfg, logger)
		},
		migrate: func(logger *slog.Logger, cfg *config.Config, direction database.MigrationDirection) (bool, error) {
			return database.RunMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath, direction)
		},
	}
}

func openPgBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, err
	}
	repos := pgsql.NewRepositoryProvider(pool)
	b := &backend{
		subscriptions: repos.SubscriptionRepo,
		close:         func() { database.ClosePgxPool(pool) },
	}

	var opts []services.ContainerOption
	if cfg.RedisURL != "" {
		client, err := rediscache.NewClient(cfg.RedisURL)
		if err != nil {
			database.ClosePgxPool(pool)
			return nil, fmt.Errorf("redis: %w", err)
		}
		cache := rediscache.NewSubscriptionCache(client, repos.SubscriptionRepo, cfg.SubscriptionCacheTTL, logger)
		b.cache = cache
		opts = append(opts, services.WithSubscriptionReader(cache))
		b.close = func() {
			_ = client.Close()
			database.ClosePgxPool(pool)
		}
	}
	b.services = services.NewServiceContainer(cfg, repos, opts...)
	return b, nil
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(logger *slog.Logger) *cobra.Command {
	return newRootCommand(defaultEnv(logger))
}

func newRootCommand(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bizledger-admin",
		Short: "Operational tooling for the BizLedger database",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(e),
		newRecalculateCommand(e),
		newVerifyCommand(e),
		newSetSubscriptionCommand(e),
		newIssueTokenCommand(e),
	)

	return rootCmd
}

// adminActor acts on a single company with every permission.
func adminActor(companyID string) domain.ActingUser {
	return domain.ActingUser{
		UserID:      adminUserID,
		CompanyID:   companyID,
		Permissions: []domain.Permission{domain.PermCompanyAdmin},
	}
}

// withBackend loads the config, opens the database and runs fn.
func (e *env) withBackend(ctx context.Context, fn func(cfg *config.Config, b *backend) error) error {
	cfg, err := e.loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	b, err := e.openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if b.close != nil {
		defer b.close()
	}
	return fn(cfg, b)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
