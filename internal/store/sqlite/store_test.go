package sqlite

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(context.Background(), dbPath, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// tickingClock returns a strictly increasing time on every call.
type tickingClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{t: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func countRows(t *testing.T, s *Store, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	for _, table := range []string{"sessions", "coffees", "cups", "selected_flavors", "migrations"} {
		assert.Equal(t, 1, countRows(t, s,
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table), table)
	}

	for _, index := range []string{
		"idx_sessions_created_at", "idx_sessions_session_type", "idx_sessions_user_id",
		"idx_coffees_session_id", "idx_cups_coffee_id",
		"idx_selected_flavors_cup_id", "idx_selected_flavors_flavor_id",
		"idx_sessions_updated_at",
	} {
		assert.Equal(t, 1, countRows(t, s,
			"SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", index), index)
	}
}

func TestOpen_ForeignKeysOnEveryConnection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Hold several connections at once so the pool has to open new ones.
	conns := make([]interface{ Close() error }, 0, 3)
	for range 3 {
		conn, err := s.db.Conn(ctx)
		require.NoError(t, err)
		var fk int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		assert.Equal(t, 1, fk)
		conns = append(conns, conn)
	}
	for _, c := range conns {
		c.Close()
	}
}

func TestOpen_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "journal.db")

	s, err := Open(context.Background(), dbPath, discardLogger())
	require.NoError(t, err)
	created, err := s.CreateSession(context.Background(), "single-coffee")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(context.Background(), dbPath, discardLogger())
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetSession(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
}

func TestLazy_CoalescesConcurrentOpens(t *testing.T) {
	lazy := NewLazy(filepath.Join(t.TempDir(), "journal.db"), discardLogger())
	t.Cleanup(func() { lazy.Close() })

	const callers = 8
	stores := make([]*Store, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := lazy.Get(context.Background())
			assert.NoError(t, err)
			stores[i] = s
		}(i)
	}
	wg.Wait()

	require.NotNil(t, stores[0])
	for _, s := range stores[1:] {
		assert.Same(t, stores[0], s)
	}

	again, err := lazy.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, stores[0], again)
}

func TestLazy_FailedOpenIsRetried(t *testing.T) {
	// A regular file where the data directory should be makes Open fail.
	blocker := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	lazy := NewLazy(filepath.Join(blocker, "journal.db"), discardLogger())
	_, err := lazy.Get(context.Background())
	require.Error(t, err)

	require.NoError(t, os.Remove(blocker))
	s, err := lazy.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.NoError(t, lazy.Close())
}
