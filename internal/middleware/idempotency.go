package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyHeader    = "Idempotency-Key"
	idempotencyReplayHeader = "Idempotent-Replayed"
	idempotencyPrefix       = "idempotency:v1:"
	idempotencyOpTimeout    = 2 * time.Second
)

// replayEntry is what Redis holds under an idempotency key. Pending entries
// mark a request still being served.
type replayEntry struct {
	Fingerprint string `json:"fingerprint"`
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

type replayStore struct {
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func (s replayStore) lookup(ctx context.Context, key string) (replayEntry, bool, error) {
	raw, err := s.cache.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return replayEntry{}, false, nil
	}
	if err != nil {
		return replayEntry{}, false, err
	}
	var entry replayEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return replayEntry{}, false, err
	}
	return entry, true, nil
}

// reserve claims key for this request. It reports false when another
// request claimed it first.
func (s replayStore) reserve(ctx context.Context, key, fingerprint string) (bool, error) {
	payload, err := json.Marshal(replayEntry{Fingerprint: fingerprint, Pending: true})
	if err != nil {
		return false, err
	}
	return s.cache.SetNX(ctx, key, payload, s.ttl).Result()
}

func (s replayStore) save(ctx context.Context, key string, entry replayEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, payload, s.ttl).Err()
}

func (s replayStore) release(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), idempotencyOpTimeout)
	defer cancel()
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("idempotency release failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Idempotency makes unsafe requests replayable. Responses are stored in
// Redis per caller, route and Idempotency-Key; a repeated key returns the
// stored response without running the handler again. Reusing a key with a
// different body is rejected. Without Redis it passes requests through.
func Idempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	store := replayStore{cache: cache, ttl: ttl, logger: logger}

	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		key := c.Get(idempotencyKeyHeader)
		if key == "" {
			return fiber.NewError(fiber.StatusBadRequest, "missing Idempotency-Key header")
		}

		uid, _ := c.Locals(localUserID).(string)
		cacheKey := idempotencyPrefix + uid + ":" + c.Path() + ":" + key
		sum := sha256.Sum256(c.Body())
		fingerprint := hex.EncodeToString(sum[:])

		ctx, cancel := context.WithTimeout(c.UserContext(), idempotencyOpTimeout)
		defer cancel()

		entry, found, err := store.lookup(ctx, cacheKey)
		if err != nil {
			logger.Error("idempotency lookup failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}
		if found {
			return replay(c, entry, fingerprint)
		}

		reserved, err := store.reserve(ctx, cacheKey, fingerprint)
		if err != nil {
			logger.Error("idempotency reservation failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency reservation failure")
		}
		if !reserved {
			return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
		}

		if err := c.Next(); err != nil {
			store.release(cacheKey)
			return err
		}

		// Server errors are not worth replaying; let the client retry.
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			store.release(cacheKey)
			return nil
		}

		done := replayEntry{
			Fingerprint: fingerprint,
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.save(ctx, cacheKey, done); err != nil {
			logger.Error("failed to persist idempotent response", slog.String("key", key), slog.Any("error", err))
			store.release(cacheKey)
		}
		return nil
	}
}

func replay(c *fiber.Ctx, entry replayEntry, fingerprint string) error {
	if entry.Fingerprint != fingerprint {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Idempotency-Key reused with a different request body")
	}
	if entry.Pending {
		return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
	}
	if entry.ContentType != "" {
		c.Set(fiber.HeaderContentType, entry.ContentType)
	}
	c.Set(idempotencyReplayHeader, "true")
	return c.Status(entry.Status).Send(entry.Body)
}
