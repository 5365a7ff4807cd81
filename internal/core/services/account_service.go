package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	boundary      *postingBoundary
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
}

func newAccountService(boundary *postingBoundary, accountRepo portsrepo.AccountRepositoryFacade, reportingRepo portsrepo.ReportingRepository) *accountService {
	return &accountService{boundary: boundary, accountRepo: accountRepo, reportingRepo: reportingRepo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccounts returns the chart with balances aggregated from the journal, not the cache.
func (s *accountService) GetAccounts(ctx context.Context, actor domain.ActingUser) ([]domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, nil, actor.CompanyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", actor.CompanyID))
		return nil, err
	}
	totals, err := s.reportingRepo.AggregateByAccount(ctx, actor.CompanyID, domain.AggregateFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate account balances", slog.String("company_id", actor.CompanyID))
		return nil, err
	}

	for i := range accounts {
		accounts[i].Balance = accounts[i].BalanceFromTotals(totals[accounts[i].AccountID])
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) CreateAccount(ctx context.Context, actor domain.ActingUser, req dto.CreateAccountRequest) (*domain.Account, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("account title is required")
	}
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidationError("unknown account type %q", req.AccountType)
	}
	side := req.AccountType.DefaultSide()
	if req.Side != nil {
		side = *req.Side
	} else if req.AccountType == domain.Contra {
		return nil, apperrors.NewValidationError("side is required for contra accounts")
	}

	var account domain.Account
	err := s.boundary.Run(ctx, actor, domain.PermLedgerWrite, "create_account", func(ctx context.Context, u *UnitOfWork) error {
		account = domain.Account{
			AccountID:      uuid.NewString(),
			CompanyID:      u.CompanyID(),
			Title:          title,
			AccountType:    req.AccountType,
			AccountSubType: req.AccountSubType,
			Side:           side,
			AuditFields:    newAudit(u.Actor.UserID, u.Now),
		}
		return s.accountRepo.SaveAccounts(ctx, u.Tx, []domain.Account{account})
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("title", account.Title))
	return &account, nil
}

// RecalculateBalances refreshes the cached balance of every account of the company.
func (s *accountService) RecalculateBalances(ctx context.Context, actor domain.ActingUser) (int, error) {
	var count int
	err := s.boundary.Run(ctx, actor, domain.PermLedgerWrite, "recalculate_balances", func(ctx context.Context, u *UnitOfWork) error {
		accounts, err := s.accountRepo.ListAccounts(ctx, u.Tx, u.CompanyID())
		if err != nil {
			return err
		}
		count = 0
		for _, acc := range accounts {
			if _, err := s.boundary.engine.refreshBalance(ctx, u.Tx, acc, u.Actor.UserID, u.Now); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.LogInfo(ctx, "Cached balances recalculated", slog.Int("accounts", count))
	return count, nil
}
