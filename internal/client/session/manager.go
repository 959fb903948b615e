package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vitortiger/utm-tracker-saas/internal/client/api"
	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
)

// LogoutNotifyTimeout bounds the best-effort server notification on Logout.
const LogoutNotifyTimeout = 5 * time.Second

type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, token string, u *models.User) error
	SetUser(ctx context.Context, u *models.User) error
	Remove(ctx context.Context) error
}

type AuthClient interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*api.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, fields map[string]any) (*models.User, error)
	Logout(ctx context.Context) error
}

type Manager struct {
	store  CredentialStore
	auth   AuthClient
	logger logging.Logger

	// mu guards the fields below. Store writes that must agree with the
	// in-memory state happen while it is held.
	mu        sync.RWMutex
	user      *models.User
	state     State
	verifying bool
	inflight  int
	gen       uint64
	started   bool

	nextSub   int
	listeners map[int]func(Snapshot)
}

func NewManager(store CredentialStore, auth AuthClient, logger logging.Logger) *Manager {
	return &Manager{
		store:     store,
		auth:      auth,
		logger:    logger.With("component", "session"),
		state:     StateUninitialized,
		listeners: make(map[int]func(Snapshot)),
	}
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) User() *models.User    { return m.Snapshot().User }
func (m *Manager) Loading() bool         { return m.Snapshot().Loading }
func (m *Manager) IsAuthenticated() bool { return m.Snapshot().IsAuthenticated() }
func (m *Manager) State() State          { return m.Snapshot().State }

// snapshotLocked copies the user so callers cannot write through it.
func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		User:    m.user.Clone(),
		Loading: m.verifying || m.inflight > 0,
		State:   m.state,
	}
}

// Subscribe registers fn to receive every new snapshot. fn runs on the
// goroutine that changed the session, outside of any lock. The returned
// func removes the subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) publish() {
	m.mu.RLock()
	snap := m.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Start reconciles the persisted credential with the server. Without a
// credential the session resolves to Unauthenticated immediately. With one,
// the cached user is shown while GET /auth/me confirms it; any failure
// clears the store. Calling Start again returns without re-verifying.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	gen := m.gen
	m.mu.Unlock()

	token, err := m.store.Token(ctx)
	if err != nil {
		m.resolveUnauthenticated(gen)
		return fmt.Errorf("read stored credential: %w", err)
	}
	if token == "" {
		m.resolveUnauthenticated(gen)
		return nil
	}

	cached, err := m.store.User(ctx)
	if err != nil {
		m.logger.Warn(ctx, "failed to read cached user", "error", err)
		cached = nil
	}

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return nil
	}
	m.user = cached
	m.state = StateVerifying
	m.verifying = true
	m.mu.Unlock()
	m.publish()

	u, verr := m.auth.Me(ctx)

	m.mu.Lock()
	m.verifying = false
	switch {
	case m.gen != gen:
		// a login, logout or forced invalidation already decided the state
	case verr != nil:
		m.logger.Info(ctx, "stored credential rejected, signing out", "error", verr)
		if err := m.store.Remove(ctx); err != nil {
			m.logger.Error(ctx, "failed to clear stored credential", "error", err)
		}
		m.user = nil
		m.state = StateUnauthenticated
	default:
		if err := m.store.SetUser(ctx, u); err != nil {
			m.logger.Warn(ctx, "failed to cache verified user", "error", err)
		}
		m.user = u
		m.state = StateAuthenticated
	}
	m.mu.Unlock()
	m.publish()
	return nil
}

func (m *Manager) resolveUnauthenticated(gen uint64) {
	m.mu.Lock()
	if m.gen == gen {
		m.user = nil
		m.state = StateUnauthenticated
	}
	m.mu.Unlock()
	m.publish()
}

func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	m.begin()
	resp, err := m.auth.Login(ctx, email, password)
	return m.establish(ctx, OpLogin, resp, err)
}

func (m *Manager) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	m.begin()
	resp, err := m.auth.Register(ctx, name, email, password)
	return m.establish(ctx, OpRegister, resp, err)
}

func (m *Manager) begin() {
	m.mu.Lock()
	m.inflight++
	m.mu.Unlock()
	m.publish()
}

// establish commits a successful login or registration.
func (m *Manager) establish(ctx context.Context, op Op, resp *api.AuthResponse, err error) (*models.User, error) {
	defer m.publish()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--

	if err != nil {
		m.logger.Info(ctx, "authentication failed", "op", op, "error", err)
		return nil, newFailure(op, err)
	}
	if err := m.store.Save(ctx, resp.AccessToken, resp.User); err != nil {
		return nil, newFailure(op, fmt.Errorf("persist credential: %w", err))
	}

	m.gen++
	m.user = resp.User.Clone()
	m.state = StateAuthenticated
	m.logger.Info(ctx, "signed in", "op", op, "user_id", resp.User.ID)
	return resp.User, nil
}

// Logout ends the session. It notifies the server when a credential is
// stored, ignoring the outcome, and always clears local state. Logging out
// without a session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	token, err := m.store.Token(ctx)
	if err != nil {
		m.logger.Warn(ctx, "failed to read stored credential", "error", err)
	}
	if token != "" {
		// the session is cleared below either way, so a 401 here must not
		// count as a forced logout
		nctx, cancel := context.WithTimeout(api.WithoutInvalidation(ctx), LogoutNotifyTimeout)
		if err := m.auth.Logout(nctx); err != nil {
			m.logger.Debug(ctx, "server logout notification failed", "error", err)
		}
		cancel()
	}

	m.mu.Lock()
	wasSignedIn := m.user != nil || m.state != StateUnauthenticated
	m.gen++
	rerr := m.store.Remove(ctx)
	m.user = nil
	m.state = StateUnauthenticated
	m.verifying = false
	m.mu.Unlock()

	if wasSignedIn {
		m.publish()
	}
	if rerr != nil {
		return fmt.Errorf("clear stored credential: %w", rerr)
	}
	return nil
}

// Invalidate drops the in-memory session after the gateway cleared the
// rejected credential. It matches api.InvalidationFunc. When the store
// already holds a different credential, a login completed in between and
// its session is kept.
func (m *Manager) Invalidate(ctx context.Context, rejected string) {
	m.mu.Lock()
	current, err := m.store.Token(ctx)
	if err != nil {
		m.logger.Warn(ctx, "failed to read stored credential", "error", err)
	}
	if current != "" && current != rejected {
		m.mu.Unlock()
		m.logger.Info(ctx, "ignoring rejection of a replaced credential")
		return
	}
	m.gen++
	m.user = nil
	m.state = StateUnauthenticated
	m.verifying = false
	m.mu.Unlock()

	m.logger.Info(ctx, "session invalidated")
	m.publish()
}

// UpdateProfile sends fields to the server and replaces the cached user with
// the result. The credential is left untouched.
func (m *Manager) UpdateProfile(ctx context.Context, fields map[string]any) (*models.User, error) {
	m.mu.Lock()
	if m.user == nil || m.state != StateAuthenticated {
		m.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	gen := m.gen
	m.inflight++
	m.mu.Unlock()
	m.publish()
	defer m.publish()

	u, err := m.auth.UpdateProfile(ctx, fields)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--

	if err != nil {
		return nil, newFailure(OpUpdateProfile, err)
	}
	if m.gen != gen {
		m.logger.Info(ctx, "discarding profile update for an ended session")
		return nil, ErrSessionChanged
	}
	if err := m.store.SetUser(ctx, u); err != nil {
		return nil, newFailure(OpUpdateProfile, fmt.Errorf("cache user: %w", err))
	}
	m.user = u.Clone()
	return u, nil
}
