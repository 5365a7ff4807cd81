package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

var (
	_ portsrepo.JournalRepositoryFacade = (*Store)(nil)
	_ portsrepo.ReportingRepository     = (*Store)(nil)
)

func (s *Store) NextTransactionID(ctx context.Context, tx pgx.Tx, companyID string) (int64, error) {
	st, err := s.mutate(tx)
	if err != nil {
		return 0, err
	}
	st.counters[companyID]++
	return st.counters[companyID], nil
}

func (s *Store) FindLinesByTransaction(ctx context.Context, tx pgx.Tx, companyID string, transactionID int64) ([]domain.JournalLine, error) {
	st, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()

	var out []domain.JournalLine
	for _, l := range st.lines {
		if l.CompanyID == companyID && l.TransactionID == transactionID && !l.IsDeleted {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) IsTransactionReversed(ctx context.Context, tx pgx.Tx, companyID string, transactionID int64) (bool, error) {
	st, release, err := s.view(tx)
	if err != nil {
		return false, err
	}
	defer release()

	for _, l := range st.lines {
		if l.CompanyID == companyID && !l.IsDeleted && l.ReversesTransactionID != nil && *l.ReversesTransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SumAccount(ctx context.Context, tx pgx.Tx, accountID string) (domain.Totals, error) {
	st, release, err := s.view(tx)
	if err != nil {
		return domain.Totals{}, err
	}
	defer release()

	var t domain.Totals
	for _, l := range st.lines {
		if l.AccountID == accountID && !l.IsDeleted {
			t = t.Add(l.Side, l.Amount)
		}
	}
	return t, nil
}

// lineBefore orders ledger lines newest first.
func lineBefore(a, b domain.JournalLine) bool {
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.After(b.EntryDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.LineID > b.LineID
}

func (s *Store) ListLinesByAccount(ctx context.Context, companyID, accountID string, limit int, after *domain.LedgerCursor) ([]domain.JournalLine, error) {
	st, release, err := s.view(nil)
	if err != nil {
		return nil, err
	}
	defer release()

	var out []domain.JournalLine
	for _, l := range st.lines {
		if l.CompanyID != companyID || l.AccountID != accountID || l.IsDeleted {
			continue
		}
		if after != nil {
			cursor := domain.JournalLine{EntryDate: after.EntryDate, AuditFields: domain.AuditFields{CreatedAt: after.CreatedAt}, LineID: after.LineID}
			if !lineBefore(cursor, l) {
				continue
			}
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return lineBefore(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListTransactionTotals(ctx context.Context, companyID string) ([]domain.TransactionTotals, error) {
	st, release, err := s.view(nil)
	if err != nil {
		return nil, err
	}
	defer release()

	byID := make(map[int64]domain.Totals)
	for _, l := range st.lines {
		if l.CompanyID == companyID && !l.IsDeleted {
			byID[l.TransactionID] = byID[l.TransactionID].Add(l.Side, l.Amount)
		}
	}
	out := make([]domain.TransactionTotals, 0, len(byID))
	for id, t := range byID {
		out = append(out, domain.TransactionTotals{TransactionID: id, Totals: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out, nil
}

func (s *Store) SaveLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if _, ok := st.accounts[l.AccountID]; !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, l.AccountID)
		}
	}
	st.lines = append(st.lines, lines...)
	return nil
}

func inRange(l domain.JournalLine, f domain.AggregateFilter) bool {
	if f.From != nil && l.EntryDate.Before(*f.From) {
		return false
	}
	if f.To != nil && l.EntryDate.After(*f.To) {
		return false
	}
	return true
}

func (s *Store) AggregateByAccount(ctx context.Context, companyID string, filter domain.AggregateFilter) (map[string]domain.Totals, error) {
	st, release, err := s.view(nil)
	if err != nil {
		return nil, err
	}
	defer release()

	out := make(map[string]domain.Totals)
	for _, l := range st.lines {
		if l.CompanyID == companyID && !l.IsDeleted && inRange(l, filter) {
			out[l.AccountID] = out[l.AccountID].Add(l.Side, l.Amount)
		}
	}
	return out, nil
}

func (s *Store) AggregateByMovementType(ctx context.Context, companyID, accountID string, filter domain.AggregateFilter) ([]domain.MovementTotals, error) {
	st, release, err := s.view(nil)
	if err != nil {
		return nil, err
	}
	defer release()

	byType := make(map[domain.MovementType]domain.Totals)
	for _, l := range st.lines {
		if l.CompanyID == companyID && l.AccountID == accountID && !l.IsDeleted && inRange(l, filter) {
			byType[l.MovementType] = byType[l.MovementType].Add(l.Side, l.Amount)
		}
	}
	out := make([]domain.MovementTotals, 0, len(byType))
	for mt, t := range byType {
		out = append(out, domain.MovementTotals{MovementType: mt, Totals: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovementType < out[j].MovementType })
	return out, nil
}

// LineCount returns the number of committed journal lines.
func (s *Store) LineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.committed.lines)
}
