package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/SscSPs/bizledger_app/internal/utils/pagination"
)

// journalService provides manual journal operations and ledger reads.
type journalService struct {
	BaseService
	boundary      *postingBoundary
	accountRepo   portsrepo.AccountRepositoryFacade
	journalRepo   portsrepo.JournalRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
}

func newJournalService(boundary *postingBoundary, accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, reportingRepo portsrepo.ReportingRepository) *journalService {
	return &journalService{
		boundary:      boundary,
		accountRepo:   accountRepo,
		journalRepo:   journalRepo,
		reportingRepo: reportingRepo,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateManualEntry posts a balanced manual entry under a new transaction id.
func (s *journalService) CreateManualEntry(ctx context.Context, actor domain.ActingUser, req dto.CreateJournalEntryRequest) (*domain.Transaction, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description is required")
	}

	var txn *domain.Transaction
	err := s.boundary.Run(ctx, actor, domain.PermLedgerWrite, "manual_entry", func(ctx context.Context, u *UnitOfWork) error {
		id, err := u.NextTransactionID(ctx)
		if err != nil {
			return err
		}
		lines, err := u.Post(ctx, domain.PostingRequest{
			Lines:       req.ToPostingLines(),
			Date:        req.Date,
			Description: description,
			Meta:        domain.PostingMeta{MovementType: domain.MovementManual, TransactionID: id},
		})
		if err != nil {
			return err
		}
		txn = &domain.Transaction{CompanyID: u.CompanyID(), TransactionID: id, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Manual journal entry posted",
		slog.Int64("transaction_id", txn.TransactionID),
		slog.Int("lines", len(txn.Lines)))
	return txn, nil
}

// ReverseTransaction posts the mirror of a manual entry under a new id. Transactions posted
// by orders, products or pay runs are reversed through their document.
func (s *journalService) ReverseTransaction(ctx context.Context, actor domain.ActingUser, transactionID int64) (*domain.Transaction, error) {
	var txn *domain.Transaction
	err := s.boundary.Run(ctx, actor, domain.PermLedgerWrite, "reverse_transaction", func(ctx context.Context, u *UnitOfWork) error {
		original, err := s.journalRepo.FindLinesByTransaction(ctx, u.Tx, u.CompanyID(), transactionID)
		if err != nil {
			return fmt.Errorf("load transaction %d: %w", transactionID, err)
		}
		for _, l := range original {
			if l.MovementType != domain.MovementManual {
				return fmt.Errorf("%w: %d was posted as %s", apperrors.ErrDocumentOwned, transactionID, l.MovementType)
			}
		}
		txn, err = u.Reverse(ctx, transactionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transaction reversed",
		slog.Int64("transaction_id", transactionID),
		slog.Int64("reversal_transaction_id", txn.TransactionID))
	return txn, nil
}

func (s *journalService) GetTransaction(ctx context.Context, actor domain.ActingUser, transactionID int64) (*domain.Transaction, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByTransaction(ctx, nil, actor.CompanyID, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transaction", slog.Int64("transaction_id", transactionID))
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %d", transactionID))
	}
	return &domain.Transaction{CompanyID: actor.CompanyID, TransactionID: transactionID, Lines: lines}, nil
}

// ListAccountLedger pages through the lines of one account, newest first.
func (s *journalService) ListAccountLedger(ctx context.Context, actor domain.ActingUser, accountID string, params dto.ListLedgerParams) (*dto.LedgerResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, nil, actor.CompanyID, accountID); err != nil {
		s.logFailure(ctx, err, "Failed to load account for ledger", slog.String("account_id", accountID))
		return nil, err
	}

	var after *domain.LedgerCursor
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, apperrors.NewValidationError("%s", err.Error())
		}
		after = &cursor
	}

	limit := pagination.NormalizeLimit(params.Limit)
	// one extra row tells whether another page exists
	lines, err := s.journalRepo.ListLinesByAccount(ctx, actor.CompanyID, accountID, limit+1, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account ledger", slog.String("account_id", accountID))
		return nil, err
	}

	resp := &dto.LedgerResponse{}
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		token := pagination.EncodeToken(domain.LedgerCursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, LineID: last.LineID})
		resp.NextToken = &token
	}
	resp.Lines = dto.ToJournalLineResponses(lines)
	return resp, nil
}

// VerifyLedger checks that every transaction balances and every cached balance matches
// the aggregate of its lines.
func (s *journalService) VerifyLedger(ctx context.Context, actor domain.ActingUser) (*domain.LedgerVerification, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}

	txnTotals, err := s.journalRepo.ListTransactionTotals(ctx, actor.CompanyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate transactions")
		return nil, err
	}
	result := &domain.LedgerVerification{CompanyID: actor.CompanyID, TransactionsChecked: len(txnTotals)}
	for _, t := range txnTotals {
		if !t.IsBalanced() {
			result.UnbalancedTxns = append(result.UnbalancedTxns, t)
		}
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, nil, actor.CompanyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	totals, err := s.reportingRepo.AggregateByAccount(ctx, actor.CompanyID, domain.AggregateFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate accounts")
		return nil, err
	}
	for _, acc := range accounts {
		live := acc.BalanceFromTotals(totals[acc.AccountID])
		if !live.Equal(acc.Balance) {
			result.StaleBalances = append(result.StaleBalances, domain.StaleBalance{
				AccountID: acc.AccountID,
				Title:     acc.Title,
				Cached:    acc.Balance,
				Live:      live,
			})
		}
	}

	if !result.OK() {
		s.GetLogger(ctx).Warn("Ledger verification found violations",
			slog.Int("unbalanced_transactions", len(result.UnbalancedTxns)),
			slog.Int("stale_balances", len(result.StaleBalances)))
	}
	return result, nil
}
