package memory

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

var (
	_ portsrepo.SubscriptionRepository = (*Store)(nil)
	_ portsrepo.UsageRepository        = (*Store)(nil)
)

func (s *Store) FindSubscription(ctx context.Context, companyID string) (*domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.committed.subscriptions[companyID]
	if !ok {
		return nil, apperrors.NewNotFoundError("subscription")
	}
	return &sub, nil
}

func (s *Store) UpsertSubscription(ctx context.Context, sub domain.Subscription) error {
	return s.direct(func(st *state) error {
		st.subscriptions[sub.CompanyID] = sub
		return nil
	})
}

func (s *Store) GetUsage(ctx context.Context, tx pgx.Tx, companyID, day, month string) (domain.UsageCounters, error) {
	st, release, err := s.view(tx)
	if err != nil {
		return domain.UsageCounters{}, err
	}
	defer release()

	return domain.UsageCounters{
		CompanyID:    companyID,
		Day:          day,
		Month:        month,
		JournalCount: st.dailyUsage[companyID+"|"+day],
		BackupCount:  st.monthlyUsage[companyID+"|"+month],
	}, nil
}

func (s *Store) IncrementJournalCount(ctx context.Context, tx pgx.Tx, companyID, day string) (int64, error) {
	st, err := s.mutate(tx)
	if err != nil {
		return 0, err
	}
	key := companyID + "|" + day
	st.dailyUsage[key]++
	return st.dailyUsage[key], nil
}

func (s *Store) IncrementBackupCount(ctx context.Context, tx pgx.Tx, companyID, month string) (int64, error) {
	st, err := s.mutate(tx)
	if err != nil {
		return 0, err
	}
	key := companyID + "|" + month
	st.monthlyUsage[key]++
	return st.monthlyUsage[key], nil
}
