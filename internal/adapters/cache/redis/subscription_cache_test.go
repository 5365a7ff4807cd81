package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryKV is a map-backed kv.
type memoryKV struct {
	values  map[string]string
	ttls    map[string]time.Duration
	readErr error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryKV) Get(_ context.Context, key string) *redis.StringCmd {
	if m.readErr != nil {
		return redis.NewStringResult("", m.readErr)
	}
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.values[key] = string(value.([]byte))
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type mockReader struct {
	mock.Mock
}

func (m *mockReader) FindSubscription(ctx context.Context, companyID string) (*domain.Subscription, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func subscription() *domain.Subscription {
	limit := int64(100)
	return &domain.Subscription{
		CompanyID: "company-1",
		Plan:      domain.Plan{PlanCode: "pro", Name: "Pro", DailyTransactionLimit: &limit},
		StartsAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFindSubscription_ReadThrough(t *testing.T) {
	store := newMemoryKV()
	reader := new(mockReader)
	reader.On("FindSubscription", mock.Anything, "company-1").Return(subscription(), nil).Once()
	cache := newSubscriptionCache(store, reader, 5*time.Minute, nil)

	first, err := cache.FindSubscription(context.Background(), "company-1")
	require.NoError(t, err)
	second, err := cache.FindSubscription(context.Background(), "company-1")
	require.NoError(t, err)

	assert.Equal(t, "pro", second.Plan.PlanCode)
	assert.Equal(t, *first.Plan.DailyTransactionLimit, *second.Plan.DailyTransactionLimit)
	assert.Equal(t, 5*time.Minute, store.ttls[keyNamespace+"company-1"])
	reader.AssertExpectations(t)
}

func TestFindSubscription_NotFoundIsNotCached(t *testing.T) {
	store := newMemoryKV()
	reader := new(mockReader)
	reader.On("FindSubscription", mock.Anything, "company-2").Return(nil, apperrors.ErrNotFound).Twice()
	cache := newSubscriptionCache(store, reader, time.Minute, nil)

	_, err := cache.FindSubscription(context.Background(), "company-2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = cache.FindSubscription(context.Background(), "company-2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Empty(t, store.values)
	reader.AssertExpectations(t)
}

func TestFindSubscription_RedisDownFallsBack(t *testing.T) {
	store := newMemoryKV()
	store.readErr = errors.New("connection refused")
	reader := new(mockReader)
	reader.On("FindSubscription", mock.Anything, "company-1").Return(subscription(), nil).Once()
	cache := newSubscriptionCache(store, reader, time.Minute, nil)

	sub, err := cache.FindSubscription(context.Background(), "company-1")
	require.NoError(t, err)
	assert.Equal(t, "company-1", sub.CompanyID)
}

func TestInvalidate(t *testing.T) {
	store := newMemoryKV()
	reader := new(mockReader)
	reader.On("FindSubscription", mock.Anything, "company-1").Return(subscription(), nil).Twice()
	cache := newSubscriptionCache(store, reader, time.Minute, nil)

	_, err := cache.FindSubscription(context.Background(), "company-1")
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background(), "company-1"))
	_, err = cache.FindSubscription(context.Background(), "company-1")
	require.NoError(t, err)

	reader.AssertExpectations(t)
}
