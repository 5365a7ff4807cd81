package services

import (
	"time"

	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/platform/config"
	"github.com/SscSPs/bizledger_app/internal/platform/metrics"
)

// ContainerOption is a functional option for configuring the service container
type ContainerOption func(*containerOptions)

type containerOptions struct {
	publisher     portssvc.LedgerEventPublisher
	metrics       *metrics.Ledger
	clock         Clock
	subscriptions portsrepo.SubscriptionReader
}

// WithEventPublisher publishes committed transactions, e.g. to Kafka.
func WithEventPublisher(p portssvc.LedgerEventPublisher) ContainerOption {
	return func(o *containerOptions) {
		o.publisher = p
	}
}

// WithMetrics records posting metrics.
func WithMetrics(m *metrics.Ledger) ContainerOption {
	return func(o *containerOptions) {
		o.metrics = m
	}
}

// WithClock replaces time.Now.
func WithClock(c Clock) ContainerOption {
	return func(o *containerOptions) {
		o.clock = c
	}
}

// WithSubscriptionReader replaces the repository lookup used by the usage guard,
// typically with a cache in front of it.
func WithSubscriptionReader(r portsrepo.SubscriptionReader) ContainerOption {
	return func(o *containerOptions) {
		o.subscriptions = r
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ContainerOption) *portssvc.ServiceContainer {
	opts := containerOptions{
		publisher:     noopPublisher{},
		clock:         time.Now,
		subscriptions: repos.SubscriptionRepo,
	}
	for _, option := range options {
		option(&opts)
	}

	engine := NewLedgerEngine(repos.AccountRepo, repos.JournalRepo)
	guard := NewUsageGuard(opts.subscriptions, repos.UsageRepo, cfg.SubscriptionGracePeriod, cfg.FreePlanDailyLimit, opts.metrics)
	boundary := &postingBoundary{
		txManager: repos.TxManager,
		engine:    engine,
		guard:     guard,
		publisher: opts.publisher,
		metrics:   opts.metrics,
		clock:     opts.clock,
	}

	return &portssvc.ServiceContainer{
		Company:   newCompanyService(boundary, repos.CompanyRepo, repos.AccountRepo),
		Account:   newAccountService(boundary, repos.AccountRepo, repos.ReportingRepo),
		Journal:   newJournalService(boundary, repos.AccountRepo, repos.JournalRepo, repos.ReportingRepo),
		Inventory: newInventoryService(boundary, repos.ProductRepo),
		Order:     newOrderService(boundary, repos.OrderRepo, repos.CompanyRepo, repos.ProductRepo),
		Payroll:   newPayrollService(boundary, repos.PayrollRepo, repos.CompanyRepo),
		Reporting: newReportingService(repos.ReportingRepo, repos.AccountRepo),
		Usage:     newUsageService(boundary),
	}
}
