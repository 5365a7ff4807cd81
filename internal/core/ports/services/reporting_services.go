package services

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
)

// ReportingSvc builds financial statements from aggregated journal lines.
type ReportingSvc interface {
	TrialBalance(ctx context.Context, actor domain.ActingUser, asOf time.Time) (*domain.TrialBalanceReport, error)
	IncomeStatement(ctx context.Context, actor domain.ActingUser, from, to time.Time) (*domain.IncomeStatementReport, error)
	BalanceSheet(ctx context.Context, actor domain.ActingUser, asOf time.Time) (*domain.BalanceSheetReport, error)
	CashFlow(ctx context.Context, actor domain.ActingUser, from, to time.Time) (*domain.CashFlowReport, error)
}

// UsageSvc exposes subscription usage to the API.
type UsageSvc interface {
	GetUsage(ctx context.Context, actor domain.ActingUser) (*domain.UsageReport, error)

	// RecordBackup counts a completed backup against the monthly limit.
	RecordBackup(ctx context.Context, actor domain.ActingUser) (*domain.UsageReport, error)
}
