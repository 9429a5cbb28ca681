package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/shellframe-tools/shellframe/internal/history"
)

// NewTestStore creates a history store backed by an in-memory SQLite
// database. The store is automatically closed when the test finishes.
func NewTestStore(t *testing.T) *history.Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "failed to open in-memory database")

	store, err := history.NewWithDB(db)
	require.NoError(t, err, "failed to initialize history schema")

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedHistory inserts lines into the store under a fixed session id.
func SeedHistory(t *testing.T, store *history.Store, sessionID string, lines []string) {
	t.Helper()

	for _, line := range lines {
		err := store.Append(sessionID, "", line)
		require.NoError(t, err, "failed to seed history line: %q", line)
	}
}
