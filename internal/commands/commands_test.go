package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/SscSPs/bizledger_app/internal/core/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/SscSPs/bizledger_app/internal/platform/config"
	"github.com/SscSPs/bizledger_app/internal/repositories/memory"
	"github.com/SscSPs/bizledger_app/internal/utils"
	"github.com/SscSPs/bizledger_app/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:               "cli-test-secret",
		JWTIssuer:               "bizledger-test",
		JWTExpiryDuration:       time.Hour,
		SubscriptionGracePeriod: 24 * time.Hour,
		FreePlanDailyLimit:      -1,
	}
}

// memoryEnv runs the commands against an in-memory store with one onboarded company.
func memoryEnv(t *testing.T) (*env, *memory.Store) {
	t.Helper()
	store := memory.New()
	cfg := testConfig()
	container := services.NewServiceContainer(cfg, store.Provider())
	_, err := container.Company.OnboardCompany(context.Background(), adminActor("acme"), dto.CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)

	return &env{
		logger:     slog.Default(),
		loadConfig: func() (*config.Config, error) { return cfg, nil },
		openBackend: func(context.Context, *config.Config) (*backend, error) {
			return &backend{services: container, subscriptions: store.Provider().SubscriptionRepo}, nil
		},
		migrate: func(*slog.Logger, *config.Config, database.MigrationDirection) (bool, error) {
			return false, errors.New("no database")
		},
	}, store
}

func run(t *testing.T, e *env, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(e)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestIssueToken(t *testing.T) {
	e, _ := memoryEnv(t)

	out, err := run(t, e, "issue-token", "--user", "u-1", "--company", "acme", "--permissions", "ledger:read,ledger:write")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(strings.TrimSpace(out), "cli-test-secret")
	require.NoError(t, err)
	actor := claims.ActingUser()
	assert.Equal(t, "u-1", actor.UserID)
	assert.Equal(t, "acme", actor.CompanyID)
	assert.Equal(t, []domain.Permission{domain.PermLedgerRead, domain.PermLedgerWrite}, actor.Permissions)
	assert.Equal(t, "bizledger-test", claims.Issuer)
}

func TestIssueToken_UnknownPermission(t *testing.T) {
	e, _ := memoryEnv(t)

	_, err := run(t, e, "issue-token", "--user", "u-1", "--company", "acme", "--permissions", "ledger:delete")
	assert.ErrorContains(t, err, "unknown permission")
}

func TestRecalculateBalances(t *testing.T) {
	e, _ := memoryEnv(t)

	out, err := run(t, e, "recalculate-balances", "--company", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "account balances recalculated")
}

func TestVerifyLedger(t *testing.T) {
	e, _ := memoryEnv(t)

	out, err := run(t, e, "verify-ledger", "--company", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, `"companyID": "acme"`)
}

func TestSetSubscription(t *testing.T) {
	e, store := memoryEnv(t)

	_, err := run(t, e, "set-subscription", "--company", "acme", "--plan", "pro", "--daily-limit", "500", "--ends-at", "2099-01-01")
	require.NoError(t, err)

	sub, err := store.FindSubscription(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "pro", sub.Plan.PlanCode)
	require.NotNil(t, sub.Plan.DailyTransactionLimit)
	assert.Equal(t, int64(500), *sub.Plan.DailyTransactionLimit)
	assert.Nil(t, sub.Plan.MonthlyBackupLimit)
	require.NotNil(t, sub.EndsAt)
}

type recordingInvalidator struct {
	companies []string
	err       error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, companyID string) error {
	r.companies = append(r.companies, companyID)
	return r.err
}

// withCache makes the env's backend carry cache.
func withCache(e *env, cache subscriptionInvalidator) {
	open := e.openBackend
	e.openBackend = func(ctx context.Context, cfg *config.Config) (*backend, error) {
		b, err := open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.cache = cache
		return b, nil
	}
}

func TestSetSubscription_ClearsCachedCopy(t *testing.T) {
	e, store := memoryEnv(t)
	cache := &recordingInvalidator{}
	withCache(e, cache)

	_, err := run(t, e, "set-subscription", "--company", "acme", "--plan", "pro", "--ends-at", "2099-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, cache.companies)

	_, err = store.FindSubscription(context.Background(), "acme")
	require.NoError(t, err)
}

func TestSetSubscription_ReportsCacheFailure(t *testing.T) {
	e, store := memoryEnv(t)
	withCache(e, &recordingInvalidator{err: errors.New("connection refused")})

	_, err := run(t, e, "set-subscription", "--company", "acme", "--plan", "pro")
	assert.ErrorContains(t, err, "cached copy not cleared")

	sub, err := store.FindSubscription(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "pro", sub.Plan.PlanCode)
}

func TestSubscriptionFlags_Validation(t *testing.T) {
	now := time.Date(2026, 5, 14, 10, 0, 0, 0, time.UTC)

	_, err := subscriptionFlags{companyID: "acme", planCode: "pro", dailyLimit: -1, backupLimit: -1, endsAt: "2026-05-01"}.toSubscription(now)
	assert.ErrorContains(t, err, "--ends-at must be after --starts-at")

	_, err = subscriptionFlags{companyID: "acme", planCode: "pro", dailyLimit: -1, backupLimit: -1, startsAt: "14/05/2026"}.toSubscription(now)
	assert.ErrorContains(t, err, "invalid --starts-at")

	sub, err := subscriptionFlags{companyID: "acme", planCode: "pro", dailyLimit: 0, backupLimit: 2}.toSubscription(now)
	require.NoError(t, err)
	assert.Equal(t, "pro", sub.Plan.Name)
	assert.Equal(t, time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC), sub.StartsAt)
	assert.Equal(t, int64(0), *sub.Plan.DailyTransactionLimit)
	assert.Equal(t, int64(2), *sub.Plan.MonthlyBackupLimit)
}

func TestMigrate_RejectsUnknownDirection(t *testing.T) {
	e, _ := memoryEnv(t)

	_, err := run(t, e, "migrate", "sideways")
	assert.ErrorContains(t, err, "unknown direction")

	_, err = run(t, e, "migrate", "up")
	assert.ErrorContains(t, err, "no database")
}
