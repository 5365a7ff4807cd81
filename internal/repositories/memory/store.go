// Package memory is an in-process implementation of every repository port. A unit of work
// runs against a private copy of the committed state and replaces it on commit, so a
// rolled-back unit leaves no trace. Units are serialized.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type state struct {
	companies     map[string]domain.Company
	accounts      map[string]domain.Account
	lines         []domain.JournalLine
	counters      map[string]int64
	parties       map[string]domain.Party
	products      map[string]domain.Product
	orders        map[string]domain.Order
	payRuns       map[string]domain.PayRun
	subscriptions map[string]domain.Subscription
	dailyUsage    map[string]int64
	monthlyUsage  map[string]int64
}

func newState() *state {
	return &state{
		companies:     make(map[string]domain.Company),
		accounts:      make(map[string]domain.Account),
		counters:      make(map[string]int64),
		parties:       make(map[string]domain.Party),
		products:      make(map[string]domain.Product),
		orders:        make(map[string]domain.Order),
		payRuns:       make(map[string]domain.PayRun),
		subscriptions: make(map[string]domain.Subscription),
		dailyUsage:    make(map[string]int64),
		monthlyUsage:  make(map[string]int64),
	}
}

func cloneMap[V any](src map[string]V, cp func(V) V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		if cp != nil {
			v = cp(v)
		}
		dst[k] = v
	}
	return dst
}

func (st *state) clone() *state {
	return &state{
		companies:     cloneMap(st.companies, nil),
		accounts:      cloneMap(st.accounts, nil),
		lines:         append([]domain.JournalLine(nil), st.lines...),
		counters:      cloneMap(st.counters, nil),
		parties:       cloneMap(st.parties, nil),
		products:      cloneMap(st.products, nil),
		orders:        cloneMap(st.orders, copyOrder),
		payRuns:       cloneMap(st.payRuns, copyPayRun),
		subscriptions: cloneMap(st.subscriptions, nil),
		dailyUsage:    cloneMap(st.dailyUsage, nil),
		monthlyUsage:  cloneMap(st.monthlyUsage, nil),
	}
}

func copyOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}

func copyPayRun(r domain.PayRun) domain.PayRun {
	slips := make([]domain.PaySlip, len(r.Slips))
	for i, s := range r.Slips {
		s.Items = append([]domain.PaySlipItem(nil), s.Items...)
		slips[i] = s
	}
	r.Slips = slips
	return r
}

// Store holds the committed state.
type Store struct {
	mu        sync.RWMutex
	committed *state

	// unit serializes units of work; it is held from Begin to Commit or Rollback.
	unit sync.Mutex

	failMu      sync.Mutex
	commitFails []error
}

func New() *Store {
	return &Store{committed: newState()}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:        s,
		AccountRepo:      s,
		JournalRepo:      s,
		ReportingRepo:    s,
		CompanyRepo:      s,
		ProductRepo:      s,
		OrderRepo:        s,
		PayrollRepo:      s,
		SubscriptionRepo: s,
		UsageRepo:        s,
	}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// FailNextCommits makes the next commits fail with the given errors, in order.
func (s *Store) FailNextCommits(errs ...error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.commitFails = append(s.commitFails, errs...)
}

func (s *Store) nextCommitFailure() error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if len(s.commitFails) == 0 {
		return nil
	}
	err := s.commitFails[0]
	s.commitFails = s.commitFails[1:]
	return err
}

// memTx satisfies pgx.Tx for the transaction manager. Only Commit and Rollback are
// implemented; the embedded interface is nil.
type memTx struct {
	pgx.Tx
	store *Store
	st    *state
	done  bool
}

func (t *memTx) Commit(ctx context.Context) error   { return t.store.Commit(ctx, t) }
func (t *memTx) Rollback(ctx context.Context) error { return t.store.Rollback(ctx, t) }

func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	s.unit.Lock()
	s.mu.RLock()
	snapshot := s.committed.clone()
	s.mu.RUnlock()
	return &memTx{store: s, st: snapshot}, nil
}

func (s *Store) Commit(ctx context.Context, tx pgx.Tx) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}
	if mt.done {
		return pgx.ErrTxClosed
	}
	if err := s.nextCommitFailure(); err != nil {
		mt.done = true
		s.unit.Unlock()
		return err
	}
	s.mu.Lock()
	s.committed = mt.st
	s.mu.Unlock()
	mt.done = true
	s.unit.Unlock()
	return nil
}

func (s *Store) Rollback(ctx context.Context, tx pgx.Tx) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}
	if mt.done {
		return nil
	}
	mt.done = true
	s.unit.Unlock()
	return nil
}

func asMemTx(tx pgx.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt == nil {
		return nil, errors.New("memory store: foreign transaction")
	}
	return mt, nil
}

// view returns the state a call operates on: the unit's copy, or the committed state for
// a nil tx. release must be called when done.
func (s *Store) view(tx pgx.Tx) (*state, func(), error) {
	if tx == nil {
		s.mu.RLock()
		return s.committed, s.mu.RUnlock, nil
	}
	mt, err := asMemTx(tx)
	if err != nil {
		return nil, nil, err
	}
	if mt.done {
		return nil, nil, pgx.ErrTxClosed
	}
	return mt.st, func() {}, nil
}

// mutate returns the unit's state. Writes outside a unit are rejected.
func (s *Store) mutate(tx pgx.Tx) (*state, error) {
	if tx == nil {
		return nil, errors.New("memory store: write outside a unit of work")
	}
	st, _, err := s.view(tx)
	return st, err
}

// direct runs fn against the committed state as a unit of its own.
func (s *Store) direct(fn func(st *state) error) error {
	s.unit.Lock()
	defer s.unit.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.committed)
}
