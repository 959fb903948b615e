package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
)

func mustUser(t *testing.T, raw string) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	return &u
}

func TestCredentialStore_EmptyStore(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCredentialStore_SaveThenRead(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok123", mustUser(t, `{"id":1,"email":"a@b.com","plan":"pro"}`)))

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok123", tok)

	u, err := s.User(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, "pro", u.StringField("plan"))
}

func TestCredentialStore_SetTokenAndSetUserIndividually(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "t1"))
	require.NoError(t, s.SetUser(ctx, &models.User{ID: "u1", Email: "x@y.z"}))

	tok, _ := s.Token(ctx)
	u, _ := s.User(ctx)
	assert.Equal(t, "t1", tok)
	assert.Equal(t, "x@y.z", u.Email)
}

func TestCredentialStore_RemoveClearsBoth(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok", &models.User{ID: "1"}))
	require.NoError(t, s.Remove(ctx))
	require.NoError(t, s.Remove(ctx))

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCredentialStore_CorruptUserReadsAsAbsent(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "tok"))
	require.NoError(t, NewSQLiteRepository(db).Set(ctx, UserKey, []byte("{not json")))

	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestCredentialStore_RemoveIf(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "new", &models.User{ID: "1"}))

	removed, err := s.RemoveIf(ctx, "old")
	require.NoError(t, err)
	assert.False(t, removed, "stale credential must not clear the newer session")

	removed, err = s.RemoveIf(ctx, "new")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveIf(ctx, "new")
	require.NoError(t, err)
	assert.False(t, removed)

	u, _ := s.User(ctx)
	assert.Nil(t, u)
}

func TestCredentialStore_RemoveIfConcurrentRemovesOnce(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "tok", &models.User{ID: "1"}))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		removed int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.RemoveIf(ctx, "tok")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				removed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, removed)
}
