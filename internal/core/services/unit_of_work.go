package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/platform/metrics"
	"github.com/jackc/pgx/v5"
)

// Clock returns the current time. Tests replace it to pin dates.
type Clock func() time.Time

// UnitOfWork is the state of one posting boundary attempt. Every repository call made
// through it shares Tx.
type UnitOfWork struct {
	Tx    pgx.Tx
	Actor domain.ActingUser
	Now   time.Time

	engine   *LedgerEngine
	guard    *UsageGuard
	touched  map[string]struct{}
	postings []postingStat
	events   []domain.LedgerEvent
}

// postingStat is one metered batch, kept for metrics after commit.
type postingStat struct {
	movement domain.MovementType
	lines    int
}

func (u *UnitOfWork) CompanyID() string { return u.Actor.CompanyID }

// NextTransactionID allocates a transaction id in the unit's company.
func (u *UnitOfWork) NextTransactionID(ctx context.Context) (int64, error) {
	return u.engine.NextTransactionID(ctx, u.Tx, u.CompanyID())
}

// RequireAccounts resolves well-known titles or fails with apperrors.ErrRequiredAccounts.
func (u *UnitOfWork) RequireAccounts(ctx context.Context, titles ...string) (map[string]domain.Account, error) {
	return u.engine.ResolveTitles(ctx, u.Tx, u.CompanyID(), titles...)
}

// Post writes a balanced batch. Each batch is checked and counted by the usage guard.
func (u *UnitOfWork) Post(ctx context.Context, req domain.PostingRequest) ([]domain.JournalLine, error) {
	if err := u.admit(ctx); err != nil {
		return nil, err
	}
	req.Meta.CreatedByID = u.Actor.UserID
	lines, err := u.engine.PostJournal(ctx, u.Tx, u.CompanyID(), req, u.Now)
	if err != nil {
		return nil, err
	}
	if err := u.meter(ctx); err != nil {
		return nil, err
	}
	u.track(req.Meta.TransactionID, req.Meta.ReversesTransactionID, req.Meta.MovementType, lines)
	return lines, nil
}

// Reverse posts the mirror of transactionID as one metered batch.
func (u *UnitOfWork) Reverse(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	if err := u.admit(ctx); err != nil {
		return nil, err
	}
	txn, err := u.engine.ReverseTransaction(ctx, u.Tx, u.CompanyID(), transactionID, u.Actor.UserID, u.Now)
	if err != nil {
		return nil, err
	}
	if err := u.meter(ctx); err != nil {
		return nil, err
	}
	reverses := transactionID
	u.track(txn.TransactionID, &reverses, domain.MovementReversal, txn.Lines)
	return txn, nil
}

// admit runs the journal guard before every batch. Batches already counted in this unit
// are visible to it through the unit's transaction.
func (u *UnitOfWork) admit(ctx context.Context) error {
	return u.guard.AssertCanCreateJournal(ctx, u.Tx, u.CompanyID(), u.Now)
}

// meter counts one written batch.
func (u *UnitOfWork) meter(ctx context.Context) error {
	return u.guard.RecordJournal(ctx, u.Tx, u.CompanyID(), u.Now)
}

// track records the touched accounts and folds the batch into the event of its transaction.
func (u *UnitOfWork) track(txnID int64, reverses *int64, movement domain.MovementType, lines []domain.JournalLine) {
	for _, l := range lines {
		u.touched[l.AccountID] = struct{}{}
	}
	u.postings = append(u.postings, postingStat{movement: movement, lines: len(lines)})

	for i := range u.events {
		if u.events[i].TransactionID == txnID {
			u.events[i].LineCount += len(lines)
			u.events[i].Totals = u.events[i].Totals.Merge(domain.TotalsOf(lines))
			return
		}
	}
	u.events = append(u.events, domain.LedgerEvent{
		CompanyID:             u.CompanyID(),
		TransactionID:         txnID,
		ReversesTransactionID: reverses,
		MovementType:          movement,
		LineCount:             len(lines),
		Totals:                domain.TotalsOf(lines),
		PostedBy:              u.Actor.UserID,
		PostedAt:              u.Now,
	})
}

func (u *UnitOfWork) touchedAccounts() []string {
	ids := make([]string, 0, len(u.touched))
	for id := range u.touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// postingBoundary runs every ledger-mutating operation: it authorizes the actor, opens the
// unit of work, refreshes the cached balances it touched and commits. A unit
// failing with apperrors.ErrConcurrency is retried once from scratch.
type postingBoundary struct {
	BaseService
	txManager portsrepo.TransactionManager
	engine    *LedgerEngine
	guard     *UsageGuard
	publisher portssvc.LedgerEventPublisher
	metrics   *metrics.Ledger
	clock     Clock
}

const maxUnitAttempts = 2

// Run executes fn in a unit of work. fn must be safe to run twice.
func (b *postingBoundary) Run(ctx context.Context, actor domain.ActingUser, perm domain.Permission, op string, fn func(ctx context.Context, u *UnitOfWork) error) error {
	if err := b.Authorize(ctx, actor, perm); err != nil {
		return err
	}

	var (
		unit *UnitOfWork
		err  error
	)
	for attempt := 1; attempt <= maxUnitAttempts; attempt++ {
		unit, err = b.attempt(ctx, actor, fn)
		if err == nil || !errors.Is(err, apperrors.ErrConcurrency) || attempt == maxUnitAttempts {
			break
		}
		b.metrics.Retried()
		b.GetLogger(ctx).Warn("Retrying unit of work after concurrency failure",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}
	if err != nil {
		b.metrics.UnitFailed(op)
		b.logFailure(ctx, err, "Unit of work rolled back",
			slog.String("operation", op),
			slog.String("company_id", actor.CompanyID))
		return err
	}

	b.afterCommit(ctx, op, unit)
	return nil
}

func (b *postingBoundary) attempt(ctx context.Context, actor domain.ActingUser, fn func(ctx context.Context, u *UnitOfWork) error) (*UnitOfWork, error) {
	tx, err := b.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() {
		// no-op once committed
		_ = b.txManager.Rollback(context.WithoutCancel(ctx), tx)
	}()

	unit := &UnitOfWork{
		Tx:      tx,
		Actor:   actor,
		Now:     b.clock().UTC(),
		engine:  b.engine,
		guard:   b.guard,
		touched: make(map[string]struct{}),
	}

	if err := fn(ctx, unit); err != nil {
		return nil, err
	}

	for _, accountID := range unit.touchedAccounts() {
		if _, err := b.engine.RecomputeAccountBalance(ctx, tx, actor.CompanyID, accountID, actor.UserID, unit.Now); err != nil {
			return nil, err
		}
	}

	if err := b.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("commit unit of work: %w", err)
	}
	return unit, nil
}

func (b *postingBoundary) afterCommit(ctx context.Context, op string, unit *UnitOfWork) {
	if len(unit.events) == 0 {
		return
	}
	for _, p := range unit.postings {
		b.metrics.Posted(string(p.movement), p.lines)
	}
	b.LogDebug(ctx, "Unit of work committed",
		slog.String("operation", op),
		slog.Int("postings", len(unit.postings)),
		slog.Int("transactions", len(unit.events)),
		slog.Int("accounts_touched", len(unit.touched)))

	if b.publisher == nil {
		return
	}
	if err := b.publisher.PublishTransactions(ctx, unit.events); err != nil {
		b.metrics.PublishFailed(len(unit.events))
		b.LogError(ctx, err, "Failed to publish ledger events", slog.String("operation", op))
	}
}

// noopPublisher drops events. It is used when no broker is configured.
type noopPublisher struct{}

func (noopPublisher) PublishTransactions(context.Context, []domain.LedgerEvent) error { return nil }
