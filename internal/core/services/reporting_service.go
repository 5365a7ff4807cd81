package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingSvc interface. Reports always aggregate the
// journal; cached balances are never read here.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountRepositoryFacade
}

func newReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountRepositoryFacade) *reportingService {
	return &reportingService{reportingRepo: reportingRepo, accountRepo: accountRepo}
}

// Ensure reportingService implements the ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// accountsWithTotals loads the chart and the aggregated totals within filter.
func (s *reportingService) accountsWithTotals(ctx context.Context, companyID string, filter domain.AggregateFilter) ([]domain.AccountWithTotals, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, nil, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	totals, err := s.reportingRepo.AggregateByAccount(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate accounts: %w", err)
	}
	out := make([]domain.AccountWithTotals, 0, len(accounts))
	for _, acc := range accounts {
		t, ok := totals[acc.AccountID]
		if !ok {
			continue
		}
		acc.Balance = acc.BalanceFromTotals(t)
		out = append(out, domain.AccountWithTotals{Account: acc, Totals: t})
	}
	return out, nil
}

// TrialBalance lists each account's net debit or credit as of the end of asOf's day.
func (s *reportingService) TrialBalance(ctx context.Context, actor domain.ActingUser, asOf time.Time) (*domain.TrialBalanceReport, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}

	to := endOfDay(asOf)
	rows, err := s.accountsWithTotals(ctx, actor.CompanyID, domain.AggregateFilter{To: &to})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data", slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, err
	}

	report := &domain.TrialBalanceReport{AsOf: to, Rows: make([]domain.TrialBalanceRow, 0, len(rows))}
	for _, r := range rows {
		net := r.Totals.BalanceFor(domain.Debit)
		row := domain.TrialBalanceRow{AccountID: r.AccountID, Title: r.Title, AccountType: r.AccountType}
		if net.IsNegative() {
			row.Credit = net.Neg()
		} else {
			row.Debit = net
		}
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
		report.Rows = append(report.Rows, row)
	}

	s.LogInfo(ctx, "Trial balance report generated successfully", slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// IncomeStatement sums income and expense accounts over the inclusive date range.
func (s *reportingService) IncomeStatement(ctx context.Context, actor domain.ActingUser, from, to time.Time) (*domain.IncomeStatementReport, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperrors.NewValidationError("from must not be after to")
	}

	start, end := startOfDay(from), endOfDay(to)
	rows, err := s.accountsWithTotals(ctx, actor.CompanyID, domain.AggregateFilter{From: &start, To: &end})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve income statement data")
		return nil, err
	}

	report := &domain.IncomeStatementReport{From: start, To: end, Income: []domain.AccountAmount{}, Expenses: []domain.AccountAmount{}}
	report.TotalIncome, report.TotalExpense = incomeAndExpense(rows, report)
	report.NetIncome = report.TotalIncome.Sub(report.TotalExpense)

	s.LogInfo(ctx, "Income statement generated successfully",
		slog.Int("income_accounts", len(report.Income)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// incomeAndExpense fills report's sections when non-nil and returns both totals.
func incomeAndExpense(rows []domain.AccountWithTotals, report *domain.IncomeStatementReport) (decimal.Decimal, decimal.Decimal) {
	income, expense := decimal.Zero, decimal.Zero
	for _, r := range rows {
		switch r.AccountType {
		case domain.Income:
			amount := r.Totals.BalanceFor(domain.Credit)
			income = income.Add(amount)
			if report != nil {
				report.Income = append(report.Income, domain.AccountAmount{AccountID: r.AccountID, Title: r.Title, NetAmount: amount})
			}
		case domain.Expense:
			amount := r.Totals.BalanceFor(domain.Debit)
			expense = expense.Add(amount)
			if report != nil {
				report.Expenses = append(report.Expenses, domain.AccountAmount{AccountID: r.AccountID, Title: r.Title, NetAmount: amount})
			}
		}
	}
	return income, expense
}

// BalanceSheet reports assets, liabilities and equity as of the end of asOf's day.
// Debit-normal contra accounts reduce liabilities and credit-normal ones reduce assets.
// Retained earnings is the net income of every period up to asOf.
func (s *reportingService) BalanceSheet(ctx context.Context, actor domain.ActingUser, asOf time.Time) (*domain.BalanceSheetReport, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}

	to := endOfDay(asOf)
	rows, err := s.accountsWithTotals(ctx, actor.CompanyID, domain.AggregateFilter{To: &to})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		AsOf:        to,
		Assets:      []domain.AccountAmount{},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
	}
	for _, r := range rows {
		switch {
		case r.AccountType == domain.Asset || (r.AccountType == domain.Contra && r.Side == domain.Credit):
			amount := r.Totals.BalanceFor(domain.Debit)
			report.Assets = append(report.Assets, domain.AccountAmount{AccountID: r.AccountID, Title: r.Title, NetAmount: amount})
			report.TotalAssets = report.TotalAssets.Add(amount)
		case r.AccountType == domain.Liability || r.AccountType == domain.Contra:
			amount := r.Totals.BalanceFor(domain.Credit)
			report.Liabilities = append(report.Liabilities, domain.AccountAmount{AccountID: r.AccountID, Title: r.Title, NetAmount: amount})
			report.TotalLiabilities = report.TotalLiabilities.Add(amount)
		case r.AccountType == domain.Equity:
			amount := r.Totals.BalanceFor(domain.Credit)
			report.Equity = append(report.Equity, domain.AccountAmount{AccountID: r.AccountID, Title: r.Title, NetAmount: amount})
			report.TotalEquity = report.TotalEquity.Add(amount)
		}
	}
	income, expense := incomeAndExpense(rows, nil)
	report.RetainedEarnings = income.Sub(expense)
	report.TotalEquity = report.TotalEquity.Add(report.RetainedEarnings)

	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)))
	return report, nil
}

// CashFlow groups the Cash account's lines in the range by movement type.
func (s *reportingService) CashFlow(ctx context.Context, actor domain.ActingUser, from, to time.Time) (*domain.CashFlowReport, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperrors.NewValidationError("from must not be after to")
	}

	accounts, err := s.accountRepo.FindAccountsByTitles(ctx, nil, actor.CompanyID, []string{domain.TitleCash})
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve cash account")
		return nil, err
	}
	cash, ok := accounts[domain.TitleCash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRequiredAccounts, domain.TitleCash)
	}

	start, end := startOfDay(from), endOfDay(to)
	beforeStart := start.Add(-time.Nanosecond)
	opening, err := s.reportingRepo.AggregateByMovementType(ctx, actor.CompanyID, cash.AccountID, domain.AggregateFilter{To: &beforeStart})
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate opening cash")
		return nil, err
	}
	movements, err := s.reportingRepo.AggregateByMovementType(ctx, actor.CompanyID, cash.AccountID, domain.AggregateFilter{From: &start, To: &end})
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate cash movements")
		return nil, err
	}

	report := &domain.CashFlowReport{From: start, To: end, Rows: make([]domain.CashFlowRow, 0, len(movements))}
	for _, m := range opening {
		report.OpeningBalance = report.OpeningBalance.Add(m.BalanceFor(domain.Debit))
	}
	for _, m := range movements {
		row := domain.CashFlowRow{
			MovementType: m.MovementType,
			Inflow:       m.Debit,
			Outflow:      m.Credit,
			Net:          m.BalanceFor(domain.Debit),
		}
		report.NetChange = report.NetChange.Add(row.Net)
		report.Rows = append(report.Rows, row)
	}
	report.ClosingBalance = report.OpeningBalance.Add(report.NetChange)

	s.LogInfo(ctx, "Cash flow report generated successfully", slog.Int("movement_types", len(report.Rows)))
	return report, nil
}
