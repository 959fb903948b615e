package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitortiger/utm-tracker-saas/internal/client/api"
	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
	"github.com/vitortiger/utm-tracker-saas/internal/client/store"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
)

// backend is a minimal server that accepts a@b.com/secret1, issues tok123
// and rejects every credential once expired is set.
type backend struct {
	expired atomic.Bool
	// when gate is set, /campaigns reports on arrived and waits for gate
	gate    chan struct{}
	arrived chan struct{}
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/api/auth/login" {
		var req struct{ Email, Password string }
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		if req.Email != "a@b.com" || req.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"Invalid email or password"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"tok123","user":{"id":1,"email":"a@b.com","name":"A"}}`)
		return
	}

	if r.URL.Path == "/api/campaigns" && b.gate != nil {
		b.arrived <- struct{}{}
		<-b.gate
	}
	if r.Header.Get("Authorization") != "Bearer tok123" || b.expired.Load() {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"msg":"Token has expired"}`)
		return
	}

	switch r.URL.Path {
	case "/api/auth/me":
		_, _ = io.WriteString(w, `{"user":{"id":1,"email":"a@b.com","name":"A"}}`)
	case "/api/auth/logout":
		_, _ = io.WriteString(w, `{"message":"Logged out"}`)
	case "/api/campaigns":
		_, _ = io.WriteString(w, `{"campaigns":[]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type harness struct {
	store     *store.CredentialStore
	manager   *Manager
	campaigns *api.CampaignsAPI
	backend   *backend
	navigated atomic.Int32
}

func newHarness(t *testing.T, b *backend) *harness {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	st := newTestStore(t)
	gw, err := api.NewGateway(srv.URL+"/api", st, logging.Nop(), api.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	h := &harness{store: st, backend: b}
	h.manager = NewManager(st, api.NewAuthAPI(gw), logging.Nop())
	h.campaigns = api.NewCampaignsAPI(gw)
	gw.OnInvalidated(h.manager.Invalidate)
	gw.OnInvalidated(func(context.Context, string) { h.navigated.Add(1) })
	return h
}

func (h *harness) token(t *testing.T) string {
	t.Helper()
	tok, err := h.store.Token(context.Background())
	require.NoError(t, err)
	return tok
}

func TestScenario_LoginThenExpiredCredential(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, &backend{})
	require.NoError(t, h.manager.Start(ctx))

	u, err := h.manager.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, "tok123", h.token(t))
	assert.True(t, h.manager.IsAuthenticated())

	_, err = h.campaigns.List(ctx, models.CampaignFilter{})
	require.NoError(t, err)

	h.backend.expired.Store(true)
	_, err = h.campaigns.List(ctx, models.CampaignFilter{})
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	assert.Empty(t, h.token(t))
	cached, err := h.store.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
	assert.Nil(t, h.manager.User())
	assert.Equal(t, StateUnauthenticated, h.manager.State())
	assert.Equal(t, int32(1), h.navigated.Load())
}

func TestScenario_BadLoginDoesNotNavigate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, &backend{})
	require.NoError(t, h.manager.Start(ctx))

	_, err := h.manager.Login(ctx, "a@b.com", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.Zero(t, h.navigated.Load())
	assert.Equal(t, StateUnauthenticated, h.manager.State())
}

func TestScenario_ConcurrentUnauthorized_OneNavigation(t *testing.T) {
	ctx := context.Background()
	b := &backend{gate: make(chan struct{}), arrived: make(chan struct{}, 2)}
	h := newHarness(t, b)

	_, err := h.manager.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	b.expired.Store(true)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.campaigns.List(ctx, models.CampaignFilter{})
			assert.ErrorIs(t, err, api.ErrUnauthorized)
		}()
	}
	// both requests carry tok123 before either 401 is observed
	<-b.arrived
	<-b.arrived
	close(b.gate)
	wg.Wait()

	assert.Equal(t, int32(1), h.navigated.Load())
	assert.Empty(t, h.token(t))
	assert.False(t, h.manager.IsAuthenticated())
}

func TestScenario_StartWithRevokedCredential(t *testing.T) {
	ctx := context.Background()
	b := &backend{}
	b.expired.Store(true)
	h := newHarness(t, b)
	require.NoError(t, h.store.Save(ctx, "tok123", mustUser(t, `{"id":1,"email":"a@b.com"}`)))

	require.NoError(t, h.manager.Start(ctx))

	snap := h.manager.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.User)
	assert.Empty(t, h.token(t))
}

func TestScenario_StartThenLogout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, &backend{})
	require.NoError(t, h.store.Save(ctx, "tok123", mustUser(t, `{"id":1,"email":"a@b.com"}`)))

	require.NoError(t, h.manager.Start(ctx))
	assert.Equal(t, StateAuthenticated, h.manager.State())

	require.NoError(t, h.manager.Logout(ctx))
	assert.Empty(t, h.token(t))
	assert.Zero(t, h.navigated.Load(), "explicit logout is not a forced one")
}

func TestScenario_LogoutWithExpiredCredential(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, &backend{})

	_, err := h.manager.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	h.backend.expired.Store(true)

	require.NoError(t, h.manager.Logout(ctx))
	assert.Zero(t, h.navigated.Load(), "the logout's own 401 is not a forced logout")
	assert.Empty(t, h.token(t))
	assert.Equal(t, StateUnauthenticated, h.manager.State())
}
