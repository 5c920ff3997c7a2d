package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listinghub/listinghub/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *int32) {
	t.Helper()
	mr := miniredis.RunT(t)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	var calls int32
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(localUserID, c.Get("X-Test-User"))
		return c.Next()
	})
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/deals", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": n})
	})

	return app, &calls
}

func post(t *testing.T, app *fiber.App, user, key string) (int, string) {
	t.Helper()
	return postBody(t, app, user, key, "{}")
}

func postBody(t *testing.T, app *fiber.App, user, key, payload string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/deals", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("X-Test-User", user)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	app, _ := setupTestApp(t)
	status, _ := post(t, app, "u1", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, calls := setupTestApp(t)

	status, first := post(t, app, "u1", "abc123")
	require.Equal(t, fiber.StatusCreated, status)

	status, second := post(t, app, "u1", "abc123")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestIdempotencyKeysAreScopedPerUser(t *testing.T) {
	app, calls := setupTestApp(t)

	_, first := post(t, app, "u1", "shared")
	_, second := post(t, app, "u2", "shared")

	assert.NotEqual(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotencyWithoutRedisPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(Idempotency(nil, time.Minute, logging.Discard()))
	app.Post("/deals", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/deals", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestIdempotencyRejectsChangedBody(t *testing.T) {
	app, calls := setupTestApp(t)

	status, _ := postBody(t, app, "u1", "k1", `{"listing_id":"a"}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = postBody(t, app, "u1", "k1", `{"listing_id":"b"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestIdempotencyMarksReplays(t *testing.T) {
	app, _ := setupTestApp(t)
	post(t, app, "u1", "k2")

	req := httptest.NewRequest(fiber.MethodPost, "/deals", strings.NewReader("{}"))
	req.Header.Set("X-Test-User", "u1")
	req.Header.Set(idempotencyKeyHeader, "k2")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "true", resp.Header.Get(idempotencyReplayHeader))
	assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	var calls int32
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/deals", func(c *fiber.Ctx) error {
		atomic.AddInt32(&calls, 1)
		return fiber.NewError(fiber.StatusConflict, "listing is not active")
	})

	for i := 0; i < 2; i++ {
		status, _ := post(t, app, "", "k3")
		assert.Equal(t, fiber.StatusConflict, status)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Empty(t, mr.Keys())
}
