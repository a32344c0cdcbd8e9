package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaSnapshot(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT type || ':' || name || ':' || COALESCE(sql, '')
		FROM sqlite_master ORDER BY type, name`)
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var line string
		require.NoError(t, rows.Scan(&line))
		out = append(out, line)
	}
	require.NoError(t, rows.Err())
	return out
}

func openRaw(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", dsn(filepath.Join(t.TempDir(), "raw.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := schemaSnapshot(t, s.db)
	require.NoError(t, ApplyMigrations(ctx, s.db, discardLogger()))
	require.NoError(t, ApplyMigrations(ctx, s.db, discardLogger()))
	after := schemaSnapshot(t, s.db)

	assert.Equal(t, before, after)

	applied, err := AppliedMigrations(ctx, s.db)
	require.NoError(t, err)
	require.Len(t, applied, len(migrations))
	for i, m := range applied {
		assert.Equal(t, migrations[i].Version, m.Version)
		assert.False(t, m.AppliedAt.IsZero())
	}
	assert.Equal(t, LatestVersion(), applied[len(applied)-1].Version)
}

func TestApplyMigrations_VersionsAscend(t *testing.T) {
	for i := 1; i < len(migrations); i++ {
		assert.Greater(t, migrations[i].Version, migrations[i-1].Version)
	}
}

func TestApplyMigrations_FailedMigrationRollsBack(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()

	broken := []Migration{
		{Version: 1, Name: "first", Statements: []string{`CREATE TABLE first (id TEXT)`}},
		{Version: 2, Name: "broken", Statements: []string{
			`CREATE TABLE second (id TEXT)`,
			`CREATE TABLE first (id TEXT)`, // already exists
		}},
	}

	err := applyMigrations(ctx, db, discardLogger(), broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 2 (broken)")

	applied, err := AppliedMigrations(ctx, db)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, 1, applied[0].Version)

	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='second'`).Scan(&n))
	assert.Zero(t, n, "statements of a failed migration are rolled back")

	fixed := []Migration{
		broken[0],
		{Version: 2, Name: "fixed", Statements: []string{`CREATE TABLE second (id TEXT)`}},
	}
	require.NoError(t, applyMigrations(ctx, db, discardLogger(), fixed))

	applied, err = AppliedMigrations(ctx, db)
	require.NoError(t, err)
	assert.Len(t, applied, 2)
}

func TestApplyMigrations_PendingOnly(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()

	require.NoError(t, applyMigrations(ctx, db, discardLogger(), migrations[:1]))
	assert.Equal(t, 1, mustVersion(t, db))

	require.NoError(t, ApplyMigrations(ctx, db, discardLogger()))
	assert.Equal(t, LatestVersion(), mustVersion(t, db))
}

func mustVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	v, err := currentVersion(context.Background(), db)
	require.NoError(t, err)
	return v
}
