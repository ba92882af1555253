package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pos-checkout/internal/pkg/config"
	"pos-checkout/internal/pkg/errs"
	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReplayCache remembers which sale a completed idempotency key produced. It is an
// accelerator only: a miss or an outage falls back to the durable guard record.
type ReplayCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReplayCache(client *redis.Client, ttl time.Duration) *ReplayCache {
	return &ReplayCache{client: client, ttl: ttl}
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Get returns nil, nil on a miss.
func (c *ReplayCache) Get(ctx context.Context, businessID uuid.UUID, key string) (*shared.ReplayEntry, error) {
	data, err := c.client.Get(ctx, replayKey(businessID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "redis get failed")
	}

	var entry shared.ReplayEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errs.Wrap(err, "unmarshal replay entry failed")
	}
	return &entry, nil
}

func (c *ReplayCache) Put(ctx context.Context, businessID uuid.UUID, key string, entry shared.ReplayEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return errs.Wrap(err, "marshal replay entry failed")
	}
	if err := c.client.Set(ctx, replayKey(businessID, key), data, c.ttl).Err(); err != nil {
		return errs.Wrap(err, "redis set failed")
	}
	return nil
}

func replayKey(businessID uuid.UUID, key string) string {
	return fmt.Sprintf("pos:replay:%s:%s", businessID, key)
}
