// Package store persists the bearer credential and the cached user record in
// a local SQLite key/value table so a session survives process restarts.
//
// The credential and the user are written and cleared in one transaction
// (Save, Remove); a corrupted user record reads back as absent instead of
// failing the caller.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
	"github.com/vitortiger/utm-tracker-saas/internal/dbx"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
)

const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// CredentialStore is the session persistence facade over the kv table.
type CredentialStore struct {
	db     *sql.DB
	repo   Repository
	logger logging.Logger
}

func NewCredentialStore(db *sql.DB, logger logging.Logger) *CredentialStore {
	return &CredentialStore{db: db, repo: NewSQLiteRepository(db), logger: logger}
}

// Token returns the persisted credential, or "" when there is none.
func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *CredentialStore) SetToken(ctx context.Context, token string) error {
	return s.repo.Set(ctx, TokenKey, []byte(token))
}

// User returns the cached user, or nil when none is stored or the stored
// record cannot be decoded.
func (s *CredentialStore) User(ctx context.Context) (*models.User, error) {
	v, err := s.repo.Get(ctx, UserKey)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		s.logger.Warn(ctx, "cached user record is corrupt, ignoring it", "error", err)
		return nil, nil
	}
	return &u, nil
}

func (s *CredentialStore) SetUser(ctx context.Context, u *models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.repo.Set(ctx, UserKey, b)
}

// Save stores the credential and its owner together.
func (s *CredentialStore) Save(ctx context.Context, token string, u *models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, UserKey, b)
	})
}

// Remove clears the credential and the cached user together. Removing an
// empty store is not an error.
func (s *CredentialStore) Remove(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, TokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, UserKey)
	})
}

// RemoveIf clears the session only while the persisted credential is still
// token. It reports whether anything was removed. The gateway uses it so a
// late 401 for an old credential cannot wipe a newer session.
func (s *CredentialStore) RemoveIf(ctx context.Context, token string) (bool, error) {
	removed := false
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		current, err := repo.Get(ctx, TokenKey)
		if err != nil {
			return err
		}
		if current == nil || string(current) != token {
			return nil
		}
		if err := repo.Delete(ctx, TokenKey); err != nil {
			return err
		}
		if err := repo.Delete(ctx, UserKey); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
