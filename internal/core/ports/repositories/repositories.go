package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager        TransactionManager
	AccountRepo      AccountRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	ReportingRepo    ReportingRepository
	CompanyRepo      CompanyRepository
	ProductRepo      ProductRepository
	OrderRepo        OrderRepository
	PayrollRepo      PayrollRepository
	SubscriptionRepo SubscriptionRepository
	UsageRepo        UsageRepository
}
