package pgsql

import (
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	subscriptionRepo := newPgxSubscriptionRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:        &BaseRepository{Pool: dbPool},
		AccountRepo:      newPgxAccountRepository(dbPool),
		JournalRepo:      newPgxJournalRepository(dbPool),
		ReportingRepo:    newReportingRepository(dbPool),
		CompanyRepo:      newPgxCompanyRepository(dbPool),
		ProductRepo:      newPgxProductRepository(dbPool),
		OrderRepo:        newPgxOrderRepository(dbPool),
		PayrollRepo:      newPgxPayrollRepository(dbPool),
		SubscriptionRepo: subscriptionRepo,
		UsageRepo:        subscriptionRepo,
	}
}
