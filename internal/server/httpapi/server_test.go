package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
	"github.com/vitortiger/utm-tracker-saas/internal/server/auth"
	"github.com/vitortiger/utm-tracker-saas/internal/server/campaigns"
	"github.com/vitortiger/utm-tracker-saas/internal/server/users"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type stub struct {
	t      *testing.T
	server *Server
	http   *httptest.Server
}

func newStub(t *testing.T, ttl time.Duration) *stub {
	t.Helper()
	us := users.NewService(users.NewMemoryRepository(), []byte(testSecret), ttl, users.WithHashCost(bcrypt.MinCost))
	cs := campaigns.NewService(campaigns.NewMemoryRepository(), "http://stub.local")
	s := NewServer("127.0.0.1:0", logging.Nop(), us, cs)
	hs := httptest.NewServer(s.Handler())
	t.Cleanup(hs.Close)
	return &stub{t: t, server: s, http: hs}
}

// call sends body as JSON and decodes the response into a generic map.
func (s *stub) call(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, s.http.URL+"/api"+path, r)
	require.NoError(s.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.http.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (s *stub) register(email string) (token, userID string) {
	s.t.Helper()
	code, body := s.call(http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ann", "email": email, "password": "secret1",
	})
	require.Equal(s.t, http.StatusCreated, code, body)
	return body["access_token"].(string), body["user"].(map[string]any)["id"].(string)
}

func TestAuthFlow(t *testing.T) {
	s := newStub(t, time.Hour)

	token, _ := s.register("a@b.com")

	code, body := s.call(http.MethodPost, "/auth/register", "", map[string]string{"name": "X", "email": "a@b.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User already exists", body["error"])

	code, body = s.call(http.MethodPost, "/auth/register", "", map[string]string{"name": "X", "email": "x@b.com", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Password must be at least 6 characters long", body["error"])

	code, body = s.call(http.MethodPost, "/auth/login", "", map[string]string{"email": "a@b.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password", body["error"])

	code, body = s.call(http.MethodPost, "/auth/login", "", map[string]string{"email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["access_token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, "free", user["plan"])

	code, body = s.call(http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ann", body["user"].(map[string]any)["name"])

	code, body = s.call(http.MethodPut, "/auth/profile", token, map[string]string{"name": "Annie"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Annie", body["user"].(map[string]any)["name"])

	code, body = s.call(http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logout successful", body["message"])
}

func TestAuthenticated_Rejections(t *testing.T) {
	s := newStub(t, time.Hour)
	token, userID := s.register("a@b.com")

	expired, err := auth.GenerateToken(userID, 0, []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	forged, err := auth.GenerateToken(userID, 0, []byte("other"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		msg   string
	}{
		{"missing", "", "Missing Authorization Header"},
		{"garbage", "abc", "Invalid token"},
		{"forged", forged, "Invalid token"},
		{"expired", expired, "Token has expired"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, body := s.call(http.MethodGet, "/campaigns", tc.token, nil)
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, tc.msg, body["msg"])
		})
	}

	code, _ := s.call(http.MethodGet, "/campaigns", token, nil)
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, s.server.Revoke(context.Background(), userID))

	code, body := s.call(http.MethodGet, "/campaigns", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token has been revoked", body["msg"])
}

func TestCampaignsAndBots(t *testing.T) {
	s := newStub(t, time.Hour)
	token, _ := s.register("a@b.com")

	code, body := s.call(http.MethodPost, "/telegram-bots", token, map[string]any{"bot_token": "1:A", "chat_id": "-1001"})
	require.Equal(t, http.StatusCreated, code, body)
	botID := body["bot"].(map[string]any)["id"].(string)

	code, body = s.call(http.MethodPost, "/campaigns", token, map[string]any{"name": "Spring", "telegram_bot_id": "nope"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Telegram bot not found", body["error"])

	code, body = s.call(http.MethodPost, "/campaigns", token, map[string]any{"name": "Spring", "telegram_bot_id": botID})
	require.Equal(t, http.StatusCreated, code, body)
	campaignID := body["campaign"].(map[string]any)["id"].(string)

	code, body = s.call(http.MethodGet, "/campaigns?is_active=true&per_page=5", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["campaigns"], 1)
	assert.Equal(t, float64(5), body["pagination"].(map[string]any)["per_page"])

	code, body = s.call(http.MethodGet, "/campaigns?page=x", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid page", body["error"])

	code, _ = s.call(http.MethodPost, "/webhooks/capture/"+campaignID, "", map[string]any{"telegram_id": 42, "utm_source": "fb"})
	require.Equal(t, http.StatusCreated, code)

	code, body = s.call(http.MethodGet, "/campaigns/"+campaignID+"/leads", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["leads"], 1)

	code, body = s.call(http.MethodGet, "/campaigns/"+campaignID+"/script", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body["script"], "/api/webhooks/capture/"+campaignID)

	code, body = s.call(http.MethodPut, "/campaigns/"+campaignID, token, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["campaign"].(map[string]any)["is_active"])

	code, body = s.call(http.MethodPost, "/webhooks/telegram-member/"+campaignID+"/setup", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "http://stub.local/api/webhooks/telegram-member/"+campaignID, body["webhook_url"])

	code, _ = s.call(http.MethodPost, "/webhooks/telegram-member/"+campaignID+"/remove", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = s.call(http.MethodPost, "/telegram-bots/"+botID+"/test", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, _ = s.call(http.MethodDelete, "/telegram-bots/"+botID, token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.call(http.MethodDelete, "/campaigns/"+campaignID, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, body = s.call(http.MethodGet, "/campaigns/"+campaignID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Campaign not found", body["error"])

	other, _ := s.register("other@b.com")
	code, _ = s.call(http.MethodGet, "/telegram-bots/"+botID, other, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDashboard(t *testing.T) {
	s := newStub(t, time.Hour)
	token, _ := s.register("a@b.com")

	code, body := s.call(http.MethodGet, "/dashboard/overview", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["total_campaigns"])

	code, body = s.call(http.MethodGet, "/dashboard/analytics?period=7d", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["daily_leads"], 7)

	code, body = s.call(http.MethodPost, "/dashboard/export", token, map[string]string{"type": "campaigns"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "campaigns", body["export_type"])
	assert.Equal(t, float64(0), body["total_records"])

	code, body = s.call(http.MethodPost, "/dashboard/export", token, map[string]string{"type": "bots"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid export type", body["error"])
}

func TestRouter_Misc(t *testing.T) {
	s := newStub(t, time.Hour)

	code, body := s.call(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", body["error"])

	req, err := http.NewRequest(http.MethodPost, s.http.URL+"/api/auth/login", bytes.NewBufferString("{"))
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "rid-1")
	resp, err := s.http.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "rid-1", resp.Header.Get("X-Request-ID"))
}

func TestServer_Run_StopsOnCancel(t *testing.T) {
	s := newStub(t, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.server.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
