package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/SscSPs/bizledger_app/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SubscriptionReader ---
type MockSubscriptionReader struct {
	mock.Mock
}

func (m *MockSubscriptionReader) FindSubscription(ctx context.Context, companyID string) (*domain.Subscription, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

// --- Mock UsageRepository ---
type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) GetUsage(ctx context.Context, tx pgx.Tx, companyID, day, month string) (domain.UsageCounters, error) {
	args := m.Called(ctx, tx, companyID, day, month)
	return args.Get(0).(domain.UsageCounters), args.Error(1)
}

func (m *MockUsageRepository) IncrementJournalCount(ctx context.Context, tx pgx.Tx, companyID, day string) (int64, error) {
	args := m.Called(ctx, tx, companyID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUsageRepository) IncrementBackupCount(ctx context.Context, tx pgx.Tx, companyID, month string) (int64, error) {
	args := m.Called(ctx, tx, companyID, month)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite ---
type UsageGuardTestSuite struct {
	suite.Suite
	subs  *MockSubscriptionReader
	usage *MockUsageRepository
	guard *services.UsageGuard
	now   time.Time
	ctx   context.Context
}

func (suite *UsageGuardTestSuite) SetupTest() {
	suite.subs = new(MockSubscriptionReader)
	suite.usage = new(MockUsageRepository)
	suite.guard = services.NewUsageGuard(suite.subs, suite.usage, 72*time.Hour, 3, nil)
	suite.now = time.Date(2026, 2, 10, 23, 59, 0, 0, time.UTC)
	suite.ctx = context.Background()
}

func (suite *UsageGuardTestSuite) TearDownTest() {
	suite.subs.AssertExpectations(suite.T())
	suite.usage.AssertExpectations(suite.T())
}

func (suite *UsageGuardTestSuite) subscription(endsAt *time.Time, dailyLimit *int64) *domain.Subscription {
	return &domain.Subscription{
		CompanyID: "c1",
		Plan:      domain.Plan{PlanCode: "pro", DailyTransactionLimit: dailyLimit},
		StartsAt:  suite.now.AddDate(-1, 0, 0),
		EndsAt:    endsAt,
	}
}

func (suite *UsageGuardTestSuite) TestFreePlanUsesConfiguredLimit() {
	suite.subs.On("FindSubscription", suite.ctx, "c1").Return(nil, apperrors.NewNotFoundError("subscription"))
	suite.usage.On("GetUsage", suite.ctx, mock.Anything, "c1", "2026-02-10", "2026-02").
		Return(domain.UsageCounters{JournalCount: 3}, nil).Once()

	err := suite.guard.AssertCanCreateJournal(suite.ctx, nil, "c1", suite.now)
	suite.ErrorIs(err, apperrors.ErrLimitReached)
}

func (suite *UsageGuardTestSuite) TestUnlimitedPlanSkipsCounters() {
	suite.subs.On("FindSubscription", suite.ctx, "c1").Return(suite.subscription(nil, nil), nil).Once()

	suite.NoError(suite.guard.AssertCanCreateJournal(suite.ctx, nil, "c1", suite.now))
}

func (suite *UsageGuardTestSuite) TestUpcomingSubscriptionStaysOnFreePlan() {
	sub := suite.subscription(nil, nil)
	sub.StartsAt = suite.now.Add(time.Hour)
	suite.subs.On("FindSubscription", suite.ctx, "c1").Return(sub, nil)
	suite.usage.On("GetUsage", suite.ctx, mock.Anything, "c1", "2026-02-10", "2026-02").
		Return(domain.UsageCounters{JournalCount: 3}, nil).Once()

	err := suite.guard.AssertCanCreateJournal(suite.ctx, nil, "c1", suite.now)
	suite.ErrorIs(err, apperrors.ErrLimitReached)

	suite.NoError(suite.guard.AssertCanCreateJournal(suite.ctx, nil, "c1", suite.now.Add(time.Hour)))
}

func (suite *UsageGuardTestSuite) TestGraceWindow() {
	ended := suite.now.Add(-48 * time.Hour)
	suite.subs.On("FindSubscription", suite.ctx, "c1").Return(suite.subscription(&ended, nil), nil)

	suite.NoError(suite.guard.AssertCanCreateJournal(suite.ctx, nil, "c1", suite.now))
	err := suite.guard.AssertCanCreateJournal(suite.ctx, nil, "c1", suite.now.Add(24*time.Hour))
	suite.ErrorIs(err, apperrors.ErrSubscriptionExpired)
}

func (suite *UsageGuardTestSuite) TestRecordJournalRechecksIncrement() {
	limit := int64(5)
	suite.subs.On("FindSubscription", suite.ctx, "c1").Return(suite.subscription(nil, &limit), nil)
	suite.usage.On("IncrementJournalCount", suite.ctx, mock.Anything, "c1", "2026-02-10").Return(int64(5), nil).Once()
	suite.usage.On("IncrementJournalCount", suite.ctx, mock.Anything, "c1", "2026-02-10").Return(int64(6), nil).Once()

	suite.NoError(suite.guard.RecordJournal(suite.ctx, nil, "c1", suite.now))
	suite.ErrorIs(suite.guard.RecordJournal(suite.ctx, nil, "c1", suite.now), apperrors.ErrLimitReached)
}

func (suite *UsageGuardTestSuite) TestLookupFailureIsNotFree() {
	suite.subs.On("FindSubscription", suite.ctx, "c1").Return(nil, apperrors.ErrInternal).Once()

	err := suite.guard.AssertCanCreateJournal(suite.ctx, nil, "c1", suite.now)
	suite.ErrorIs(err, apperrors.ErrInternal)
}

func TestUsageGuardTestSuite(t *testing.T) {
	suite.Run(t, new(UsageGuardTestSuite))
}
