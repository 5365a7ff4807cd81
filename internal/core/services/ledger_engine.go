package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerEngine writes balanced batches of journal lines inside a caller-owned transaction.
// It never commits; the posting boundary owns the unit of work.
type LedgerEngine struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
}

func NewLedgerEngine(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade) *LedgerEngine {
	return &LedgerEngine{accountRepo: accountRepo, journalRepo: journalRepo}
}

// NextTransactionID allocates the next transaction id of the company.
func (e *LedgerEngine) NextTransactionID(ctx context.Context, tx pgx.Tx, companyID string) (int64, error) {
	id, err := e.journalRepo.NextTransactionID(ctx, tx, companyID)
	if err != nil {
		return 0, fmt.Errorf("allocate transaction id: %w", err)
	}
	return id, nil
}

// PostJournal validates req and inserts one journal line per posting line.
func (e *LedgerEngine) PostJournal(ctx context.Context, tx pgx.Tx, companyID string, req domain.PostingRequest, now time.Time) ([]domain.JournalLine, error) {
	if req.Meta.TransactionID <= 0 {
		return nil, apperrors.NewValidationError("posting has no transaction id")
	}
	if req.Meta.MovementType == "" {
		return nil, apperrors.NewValidationError("posting has no movement type")
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, pl := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:                uuid.NewString(),
			CompanyID:             companyID,
			AccountID:             pl.AccountID,
			TransactionID:         req.Meta.TransactionID,
			ReversesTransactionID: req.Meta.ReversesTransactionID,
			Side:                  pl.Side,
			Amount:                pl.Amount,
			EntryDate:             req.Date,
			Description:           req.Description,
			MovementType:          req.Meta.MovementType,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     req.Meta.CreatedByID,
				LastUpdatedAt: now,
				LastUpdatedBy: req.Meta.CreatedByID,
			},
		}
	}

	if err := e.writeLines(ctx, tx, companyID, req.Lines, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// ReverseTransaction posts the side-flipped mirror of a transaction under a new id that
// references the original.
func (e *LedgerEngine) ReverseTransaction(ctx context.Context, tx pgx.Tx, companyID string, transactionID int64, actingUserID string, now time.Time) (*domain.Transaction, error) {
	original, err := e.journalRepo.FindLinesByTransaction(ctx, tx, companyID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("load transaction %d: %w", transactionID, err)
	}
	if len(original) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %d", transactionID))
	}

	reversed, err := e.journalRepo.IsTransactionReversed(ctx, tx, companyID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("check reversal of transaction %d: %w", transactionID, err)
	}
	if reversed {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrAlreadyReversed, transactionID)
	}

	newID, err := e.NextTransactionID(ctx, tx, companyID)
	if err != nil {
		return nil, err
	}

	reversesID := transactionID
	mirrored := accounting.Mirror(original)
	lines := make([]domain.JournalLine, len(original))
	for i, orig := range original {
		lines[i] = domain.JournalLine{
			LineID:                uuid.NewString(),
			CompanyID:             companyID,
			AccountID:             orig.AccountID,
			TransactionID:         newID,
			ReversesTransactionID: &reversesID,
			Side:                  mirrored[i].Side,
			Amount:                orig.Amount,
			EntryDate:             now,
			Description:           fmt.Sprintf("Reversal of journal entry %s", orig.LineID),
			MovementType:          domain.MovementReversal,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actingUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actingUserID,
			},
		}
	}

	if err := e.writeLines(ctx, tx, companyID, mirrored, lines); err != nil {
		return nil, err
	}
	return &domain.Transaction{CompanyID: companyID, TransactionID: newID, Lines: lines}, nil
}

// RecomputeAccountBalance aggregates the account's lines and persists the cached balance.
func (e *LedgerEngine) RecomputeAccountBalance(ctx context.Context, tx pgx.Tx, companyID, accountID, userID string, now time.Time) (decimal.Decimal, error) {
	account, err := e.accountRepo.FindAccountByID(ctx, tx, companyID, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load account %s: %w", accountID, err)
	}
	return e.refreshBalance(ctx, tx, *account, userID, now)
}

func (e *LedgerEngine) refreshBalance(ctx context.Context, tx pgx.Tx, account domain.Account, userID string, now time.Time) (decimal.Decimal, error) {
	totals, err := e.journalRepo.SumAccount(ctx, tx, account.AccountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("aggregate account %s: %w", account.AccountID, err)
	}
	balance := account.BalanceFromTotals(totals)
	if err := e.accountRepo.UpdateCachedBalance(ctx, tx, account.AccountID, balance, userID, now); err != nil {
		return decimal.Zero, fmt.Errorf("update cached balance of %s: %w", account.AccountID, err)
	}
	return balance, nil
}

// ResolveTitles maps each well-known title to its account of the company.
func (e *LedgerEngine) ResolveTitles(ctx context.Context, tx pgx.Tx, companyID string, titles ...string) (map[string]domain.Account, error) {
	found, err := e.accountRepo.FindAccountsByTitles(ctx, tx, companyID, titles)
	if err != nil {
		return nil, fmt.Errorf("resolve accounts: %w", err)
	}
	var missing []string
	for _, title := range titles {
		if _, ok := found[title]; !ok {
			missing = append(missing, title)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRequiredAccounts, strings.Join(missing, ", "))
	}
	return found, nil
}

// writeLines validates the batch, locks the referenced accounts and inserts the lines.
func (e *LedgerEngine) writeLines(ctx context.Context, tx pgx.Tx, companyID string, posting []domain.PostingLine, lines []domain.JournalLine) error {
	if err := accounting.ValidatePostingLines(posting); err != nil {
		return err
	}

	ids := uniqueSorted(posting)
	accounts, err := e.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, companyID, ids)
	if err != nil {
		return fmt.Errorf("lock accounts: %w", err)
	}
	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
		}
	}

	if err := e.journalRepo.SaveLines(ctx, tx, lines); err != nil {
		return fmt.Errorf("save journal lines: %w", err)
	}
	return nil
}

// uniqueSorted returns the distinct account ids in lock order.
func uniqueSorted(lines []domain.PostingLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	sort.Strings(ids)
	return ids
}
