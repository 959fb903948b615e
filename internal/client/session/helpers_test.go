package session

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vitortiger/utm-tracker-saas/internal/client/api"
	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
	"github.com/vitortiger/utm-tracker-saas/internal/client/store"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
)

func mustUser(t *testing.T, raw string) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	return &u
}

func newTestStore(t *testing.T) *store.CredentialStore {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store.NewCredentialStore(db, logging.Nop())
}

// ---- fake auth client ----

var errOffline = &api.Error{Method: "GET", Path: "/auth/me", Err: api.ErrUnavailable}

type fakeAuth struct {
	mu sync.Mutex

	LoginFn    func(ctx context.Context, email, password string) (*api.AuthResponse, error)
	RegisterFn func(ctx context.Context, name, email, password string) (*api.AuthResponse, error)
	MeFn       func(ctx context.Context) (*models.User, error)
	UpdateFn   func(ctx context.Context, fields map[string]any) (*models.User, error)
	LogoutErr  error

	MeCalls     int
	LogoutCalls int
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	if f.LoginFn == nil {
		return nil, errors.New("login not expected")
	}
	return f.LoginFn(ctx, email, password)
}

func (f *fakeAuth) Register(ctx context.Context, name, email, password string) (*api.AuthResponse, error) {
	if f.RegisterFn == nil {
		return nil, errors.New("register not expected")
	}
	return f.RegisterFn(ctx, name, email, password)
}

func (f *fakeAuth) Me(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	f.MeCalls++
	f.mu.Unlock()
	if f.MeFn == nil {
		return nil, errOffline
	}
	return f.MeFn(ctx)
}

func (f *fakeAuth) UpdateProfile(ctx context.Context, fields map[string]any) (*models.User, error) {
	if f.UpdateFn == nil {
		return nil, errors.New("update not expected")
	}
	return f.UpdateFn(ctx, fields)
}

func (f *fakeAuth) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	return f.LogoutErr
}

func loginAs(token string, u *models.User) func(context.Context, string, string) (*api.AuthResponse, error) {
	return func(context.Context, string, string) (*api.AuthResponse, error) {
		return &api.AuthResponse{AccessToken: token, User: u}, nil
	}
}
