package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var _ portsrepo.AccountRepositoryFacade = (*Store)(nil)

func liveAccount(st *state, companyID, accountID string) (domain.Account, bool) {
	acc, ok := st.accounts[accountID]
	if !ok || acc.IsDeleted || acc.CompanyID != companyID {
		return domain.Account{}, false
	}
	return acc, true
}

func (s *Store) FindAccountByID(ctx context.Context, tx pgx.Tx, companyID, accountID string) (*domain.Account, error) {
	st, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()

	acc, ok := liveAccount(st, companyID, accountID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return &acc, nil
}

func (s *Store) FindAccountsByTitles(ctx context.Context, tx pgx.Tx, companyID string, titles []string) (map[string]domain.Account, error) {
	st, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()

	wanted := make(map[string]bool, len(titles))
	for _, t := range titles {
		wanted[t] = true
	}
	out := make(map[string]domain.Account, len(titles))
	for _, acc := range st.accounts {
		if acc.CompanyID == companyID && !acc.IsDeleted && wanted[acc.Title] {
			out[acc.Title] = acc
		}
	}
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context, tx pgx.Tx, companyID string) ([]domain.Account, error) {
	st, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()

	var out []domain.Account
	for _, acc := range st.accounts {
		if acc.CompanyID == companyID && !acc.IsDeleted {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Store) SaveAccounts(ctx context.Context, tx pgx.Tx, accounts []domain.Account) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}

	taken := make(map[string]bool)
	for _, acc := range st.accounts {
		if !acc.IsDeleted {
			taken[acc.CompanyID+"|"+acc.Title] = true
		}
	}
	for _, acc := range accounts {
		key := acc.CompanyID + "|" + acc.Title
		if taken[key] {
			return fmt.Errorf("%w: account title %q", apperrors.ErrDuplicate, acc.Title)
		}
		if _, exists := st.accounts[acc.AccountID]; exists {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, acc.AccountID)
		}
		taken[key] = true
	}
	for _, acc := range accounts {
		st.accounts[acc.AccountID] = acc
	}
	return nil
}

func (s *Store) UpdateCachedBalance(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}
	acc, ok := st.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	acc.Balance = balance
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = userID
	st.accounts[accountID] = acc
	return nil
}

func (s *Store) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	st, err := s.mutate(tx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := liveAccount(st, companyID, id); ok {
			out[id] = acc
		}
	}
	return out, nil
}

// DeleteAccountByTitle soft-deletes an account outside any unit of work.
func (s *Store) DeleteAccountByTitle(companyID, title string) bool {
	var found bool
	_ = s.direct(func(st *state) error {
		for id, acc := range st.accounts {
			if acc.CompanyID == companyID && acc.Title == title && !acc.IsDeleted {
				acc.IsDeleted = true
				st.accounts[id] = acc
				found = true
			}
		}
		return nil
	})
	return found
}
