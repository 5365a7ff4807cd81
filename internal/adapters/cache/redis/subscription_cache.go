// Package redis caches subscription lookups in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "bizledger:subscription:"

// kv is the part of a redis client the cache uses.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SubscriptionCache is a read-through cache in front of a SubscriptionReader.
// Redis failures fall back to the underlying reader.
type SubscriptionCache struct {
	client kv
	next   portsrepo.SubscriptionReader
	ttl    time.Duration
	logger *slog.Logger
}

var _ portsrepo.SubscriptionReader = (*SubscriptionCache)(nil)

// NewSubscriptionCache wraps next with a cache whose entries live for ttl.
func NewSubscriptionCache(client redis.UniversalClient, next portsrepo.SubscriptionReader, ttl time.Duration, logger *slog.Logger) *SubscriptionCache {
	return newSubscriptionCache(client, next, ttl, logger)
}

func newSubscriptionCache(client kv, next portsrepo.SubscriptionReader, ttl time.Duration, logger *slog.Logger) *SubscriptionCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionCache{client: client, next: next, ttl: ttl, logger: logger}
}

// NewClient parses a redis:// URL into a client.
func NewClient(url string) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

func (c *SubscriptionCache) FindSubscription(ctx context.Context, companyID string) (*domain.Subscription, error) {
	key := keyNamespace + companyID

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var sub domain.Subscription
		if jsonErr := json.Unmarshal(raw, &sub); jsonErr == nil {
			return &sub, nil
		}
		c.logger.Warn("Discarding unreadable cached subscription", slog.String("company_id", companyID))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Subscription cache read failed", slog.String("company_id", companyID), slog.String("error", err.Error()))
	}

	sub, err := c.next.FindSubscription(ctx, companyID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(sub)
	if err == nil {
		err = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("Subscription cache write failed", slog.String("company_id", companyID), slog.String("error", err.Error()))
	}
	return sub, nil
}

// Invalidate drops the cached subscription of a company.
func (c *SubscriptionCache) Invalidate(ctx context.Context, companyID string) error {
	return c.client.Del(ctx, keyNamespace+companyID).Err()
}
