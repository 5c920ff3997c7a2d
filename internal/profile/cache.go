package profile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/listinghub/listinghub/internal/trust"
)

const cachePrefix = "profile:v1:"

// Cache stores evaluations in Redis keyed by their inputs, so a changed
// signal or an expiring premium override never serves a stale tier.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache returns nil when client is nil; a nil cache is a no-op.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// Key hashes the snapshot, the override mode and the premium state.
func Key(signals trust.UserSignals, mode trust.OverrideMode, premiumActive bool) (string, error) {
	payload, err := json.Marshal(struct {
		Signals       trust.UserSignals  `json:"s"`
		Mode          trust.OverrideMode `json:"m"`
		PremiumActive bool               `json:"p"`
	}{signals, mode, premiumActive})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return cachePrefix + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached evaluation, if any.
func (c *Cache) Get(ctx context.Context, key string) (trust.Evaluation, bool, error) {
	if c == nil {
		return trust.Evaluation{}, false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return trust.Evaluation{}, false, nil
	}
	if err != nil {
		return trust.Evaluation{}, false, fmt.Errorf("profile cache get: %w", err)
	}
	var eval trust.Evaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		return trust.Evaluation{}, false, fmt.Errorf("profile cache decode: %w", err)
	}
	return eval, true, nil
}

// Set stores an evaluation for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, eval trust.Evaluation) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(eval)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}
