package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestStore(t *testing.T) (*CredentialStore, *sql.DB) {
	t.Helper()
	db := openTestDB(t)
	return NewCredentialStore(db, logging.Nop()), db
}
