package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listinghub/listinghub/internal/config"
	"github.com/listinghub/listinghub/internal/middleware"
	"github.com/listinghub/listinghub/internal/notification"
	"github.com/listinghub/listinghub/internal/trust"
)

const adminEmail = "admin@listinghub.test"

type testApp struct {
	t        *testing.T
	app      *fiber.App
	notifier *notification.Recorder
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Config{
		AppName:         "ListingHub",
		AppEnv:          "test",
		JWTSecret:       "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		IdempotencyTTL:  time.Minute,
		ProfileCacheTTL: time.Minute,
		LoginRateLimit:  5,
		OverrideMode:    trust.OverrideReplace,
		AdminEmails:     []string{adminEmail},
	}
	notifier := &notification.Recorder{}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler, Immutable: true})
	require.NoError(t, Setup(app, Deps{Cfg: cfg, Notifier: notifier}))
	return &testApp{t: t, app: app, notifier: notifier}
}

func (a *testApp) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

// signup registers and logs a user in, returning the id and access token.
func (a *testApp) signup(email, phone string) (string, string) {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/api/v1/identity/register", "", map[string]any{
		"email": email, "phone": phone, "password": "correct-horse", "display_name": email,
	})
	require.Equal(a.t, http.StatusCreated, status, body)

	status, body = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": email, "password": "correct-horse",
	})
	require.Equal(a.t, http.StatusOK, status, body)
	return body["user_id"].(string), body["access_token"].(string)
}

func TestMarketplaceFlowFeedsProfile(t *testing.T) {
	a := newTestApp(t)
	sellerID, sellerToken := a.signup("seller@listinghub.test", "+242060000001")
	_, buyerToken := a.signup("buyer@listinghub.test", "")

	status, listing := a.do(http.MethodPost, "/api/v1/listings", sellerToken, map[string]any{
		"title": "Studio in Poto-Poto", "price_minor": 120_000,
	})
	require.Equal(t, http.StatusCreated, status, listing)

	status, deal := a.do(http.MethodPost, "/api/v1/deals", buyerToken, map[string]any{
		"listing_id": listing["id"], "client_tx_id": "deal-1",
	})
	require.Equal(t, http.StatusCreated, status, deal)

	status, _ = a.do(http.MethodPost, "/api/v1/deals", buyerToken, map[string]any{
		"listing_id": listing["id"], "client_tx_id": "deal-1",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, review := a.do(http.MethodPost, "/api/v1/reviews", buyerToken, map[string]any{
		"deal_id": deal["id"], "rating": 5, "comment": "as described",
	})
	require.Equal(t, http.StatusCreated, status, review)
	assert.Equal(t, sellerID, review["subject_id"])

	for _, step := range []string{"email", "phone"} {
		status, _ = a.do(http.MethodPost, "/api/v1/verification/"+step, sellerToken, nil)
		require.Equal(t, http.StatusOK, status, step)
	}
	status, doc := a.do(http.MethodPost, "/api/v1/verification/document", sellerToken, map[string]any{
		"kind": "national_id", "number": "CG-1234", "country": "CG",
	})
	require.Equal(t, http.StatusOK, status, doc)
	assert.Equal(t, true, doc["verification"].(map[string]any)["verified"])

	status, p := a.do(http.MethodGet, "/api/v1/users/"+sellerID+"/profile", "", nil)
	require.Equal(t, http.StatusOK, status, p)
	assert.Equal(t, 62.0, p["trust_score"])
	membership := p["membership"].(map[string]any)
	assert.Equal(t, "basic", membership["level"])
	assert.Equal(t, "Basic", membership["label"])
	assert.Equal(t, "beginner", p["experience"].(map[string]any)["level"])

	progress := p["progress"].(map[string]any)
	assert.Equal(t, "premium", progress["next_level"])
	assert.Equal(t, 75.0, progress["percent"])
	unmet := progress["unmet_requirements"].([]any)
	require.Len(t, unmet, 1)
	assert.Equal(t, "completed_transactions", unmet[0].(map[string]any)["key"])

	kinds := map[string]bool{}
	for _, msg := range a.notifier.Messages {
		kinds[msg.Kind] = true
	}
	assert.True(t, kinds[notification.KindDealCompleted])
	assert.True(t, kinds[notification.KindReviewReceived])
	assert.True(t, kinds[notification.KindVerificationUpdated])
}

func TestAdminPremiumOverride(t *testing.T) {
	a := newTestApp(t)
	_, adminToken := a.signup(adminEmail, "")
	userID, userToken := a.signup("member@listinghub.test", "")
	until := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	status, _ := a.do(http.MethodPut, "/api/v1/admin/users/"+userID+"/premium", userToken, map[string]any{"until": until})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := a.do(http.MethodPut, "/api/v1/admin/users/"+userID+"/premium", adminToken, map[string]any{"until": until})
	require.Equal(t, http.StatusOK, status, body)
	msg, ok := a.notifier.Last()
	require.True(t, ok)
	assert.Equal(t, notification.KindPremiumGranted, msg.Kind)

	status, me := a.do(http.MethodGet, "/api/v1/me", userToken, nil)
	require.Equal(t, http.StatusOK, status, me)
	membership := me["profile"].(map[string]any)["membership"].(map[string]any)
	assert.Equal(t, "premium", membership["level"])
	assert.Equal(t, true, membership["premium_active"])

	status, _ = a.do(http.MethodDelete, "/api/v1/admin/users/"+userID+"/premium", adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, p := a.do(http.MethodGet, "/api/v1/users/"+userID+"/profile", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "basic", p["membership"].(map[string]any)["level"])

	status, me = a.do(http.MethodGet, "/api/v1/me", userToken, nil)
	require.Equal(t, http.StatusOK, status, me)
	assert.Nil(t, me["user"].(map[string]any)["premium_until"])

	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	status, _ = a.do(http.MethodPut, "/api/v1/admin/users/"+userID+"/premium", adminToken, map[string]any{"until": past})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLogoutRevokesAccess(t *testing.T) {
	a := newTestApp(t)
	status, _ := a.do(http.MethodPost, "/api/v1/identity/register", "", map[string]any{
		"email": "leaver@listinghub.test", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, status)
	status, login := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "leaver@listinghub.test", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, status)
	access := login["access_token"].(string)

	status, _ = a.do(http.MethodGet, "/api/v1/me", access, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(http.MethodPost, "/api/v1/auth/logout", "", map[string]any{"refresh_token": login["refresh_token"]})
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(http.MethodGet, "/api/v1/me", access, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPublicEndpoints(t *testing.T) {
	a := newTestApp(t)

	status, health := a.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "memory", health["status"].(map[string]any)["postgres"])

	status, tiers := a.do(http.MethodGet, "/api/v1/membership/tiers", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, tiers["tiers"], 4)

	status, _ = a.do(http.MethodGet, "/api/v1/users/00000000-0000-0000-0000-000000000000/profile", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = a.do(http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "listinghub_http_requests_total")
}
