package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Migration is one versioned schema change.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

// migrations lists every schema change in ascending version order.
// Applied versions must never be edited; add a new version instead.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Statements: []string{
			`CREATE TABLE sessions (
				id           TEXT PRIMARY KEY,
				created_at   TEXT NOT NULL,
				updated_at   TEXT NOT NULL,
				mode         TEXT NOT NULL DEFAULT 'taste'
				             CHECK (mode IN ('taste', 'pro')),
				session_type TEXT NOT NULL
				             CHECK (session_type IN ('single-coffee', 'multi-coffee', 'table-cupping')),
				notes        TEXT NOT NULL DEFAULT '',
				tags         TEXT NOT NULL DEFAULT '[]',
				sync_status  TEXT NOT NULL DEFAULT 'local-only'
				             CHECK (sync_status IN ('local-only', 'synced', 'pending', 'conflict')),
				user_id      TEXT,
				CHECK (updated_at >= created_at)
			)`,
			`CREATE TABLE coffees (
				id          TEXT PRIMARY KEY,
				session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
				name        TEXT NOT NULL CHECK (length(trim(name)) > 0),
				roaster     TEXT,
				origin      TEXT,
				brew_method TEXT,
				roast_level TEXT
				            CHECK (roast_level IN ('light', 'medium-light', 'medium', 'medium-dark', 'dark')),
				roast_date  TEXT
			)`,
			`CREATE TABLE cups (
				id        TEXT PRIMARY KEY,
				coffee_id TEXT NOT NULL REFERENCES coffees(id) ON DELETE CASCADE,
				position  INTEGER NOT NULL CHECK (position >= 1),
				acidity   INTEGER CHECK (acidity BETWEEN 1 AND 5),
				sweetness INTEGER CHECK (sweetness BETWEEN 1 AND 5),
				body      INTEGER CHECK (body BETWEEN 1 AND 5),
				clarity   INTEGER CHECK (clarity BETWEEN 1 AND 5),
				finish    INTEGER CHECK (finish BETWEEN 1 AND 5),
				enjoyment INTEGER CHECK (enjoyment BETWEEN 1 AND 5),
				notes     TEXT NOT NULL DEFAULT '',
				UNIQUE (coffee_id, position)
			)`,
			`CREATE TABLE selected_flavors (
				id        INTEGER PRIMARY KEY AUTOINCREMENT,
				cup_id    TEXT NOT NULL REFERENCES cups(id) ON DELETE CASCADE,
				flavor_id INTEGER NOT NULL,
				intensity INTEGER NOT NULL CHECK (intensity BETWEEN 1 AND 5),
				dominant  INTEGER NOT NULL DEFAULT 0 CHECK (dominant IN (0, 1))
			)`,
			`CREATE INDEX idx_sessions_created_at ON sessions(created_at)`,
			`CREATE INDEX idx_sessions_session_type ON sessions(session_type)`,
			`CREATE INDEX idx_sessions_user_id ON sessions(user_id)`,
			`CREATE INDEX idx_coffees_session_id ON coffees(session_id)`,
			`CREATE INDEX idx_cups_coffee_id ON cups(coffee_id)`,
			`CREATE INDEX idx_selected_flavors_cup_id ON selected_flavors(cup_id)`,
			`CREATE INDEX idx_selected_flavors_flavor_id ON selected_flavors(flavor_id)`,
		},
	},
	{
		Version: 2,
		Name:    "sessions_updated_at_index",
		Statements: []string{
			`CREATE INDEX idx_sessions_updated_at ON sessions(updated_at)`,
		},
	},
}

// LatestVersion is the highest defined migration version.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// AppliedMigration is one row of the version tracking table.
type AppliedMigration struct {
	Version   int
	AppliedAt time.Time
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS migrations (
	version    INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// ApplyMigrations brings db up to LatestVersion. It is safe to call on every
// start. Each migration and its version row commit together, so a failed
// migration leaves the previous version recorded and returns the error.
func ApplyMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	return applyMigrations(ctx, db, logger, migrations)
}

func applyMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger, set []Migration) error {
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range set {
		if m.Version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		logger.Info("migration applied", "version", m.Version, "name", m.Name)
		current = m.Version
	}
	return nil
}

func currentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func applyMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO migrations (version, applied_at) VALUES (?, ?)`,
		m.Version, formatTime(time.Now())); err != nil {
		return err
	}
	return tx.Commit()
}

// AppliedMigrations lists recorded versions in ascending order.
func AppliedMigrations(ctx context.Context, db *sql.DB) ([]AppliedMigration, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, applied_at FROM migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var (
			m         AppliedMigration
			appliedAt string
		)
		if err := rows.Scan(&m.Version, &appliedAt); err != nil {
			return nil, err
		}
		if m.AppliedAt, err = parseTime(appliedAt); err != nil {
			return nil, err
		}
		applied = append(applied, m)
	}
	return applied, rows.Err()
}
