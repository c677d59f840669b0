// Package sqlite provides SQLite-based persistent storage for Sparfuchs.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
// It implements domain.Store.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout. A fresh
// database is seeded with the default XP catalog.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := d.seedXPCatalog(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// ─── XP catalog (immutable per session) ────────────────────────
		`CREATE TABLE IF NOT EXISTS xp_levels (
			id           TEXT PRIMARY KEY,
			level_number INTEGER NOT NULL,
			name         TEXT NOT NULL,
			emoji        TEXT NOT NULL DEFAULT '',
			xp_required  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS xp_event_types (
			id             TEXT PRIMARY KEY,
			key            TEXT NOT NULL UNIQUE,
			name           TEXT NOT NULL DEFAULT '',
			base_xp        INTEGER NOT NULL,
			active         BOOLEAN NOT NULL DEFAULT 1,
			max_per_user   INTEGER,
			cooldown_hours INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS xp_event_rules (
			id             TEXT PRIMARY KEY,
			event_type_id  TEXT NOT NULL,
			multiplier     TEXT NOT NULL DEFAULT '1',
			condition_kind TEXT NOT NULL DEFAULT '',
			condition_day  INTEGER NOT NULL DEFAULT 0,
			active         BOOLEAN NOT NULL DEFAULT 1,
			starts_at      TEXT NOT NULL DEFAULT '',
			ends_at        TEXT NOT NULL DEFAULT ''
		)`,

		// ─── Per-user progress + append-only event log ─────────────────
		`CREATE TABLE IF NOT EXISTS xp_progress (
			user_id          TEXT PRIMARY KEY,
			xp_total         INTEGER NOT NULL DEFAULT 0,
			current_level_id TEXT NOT NULL,
			current_streak   INTEGER NOT NULL DEFAULT 0,
			longest_streak   INTEGER NOT NULL DEFAULT 0,
			last_login_at    INTEGER,
			last_streak_date TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS xp_events (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			event_type_id TEXT NOT NULL,
			event_key     TEXT NOT NULL,
			base_xp       INTEGER NOT NULL,
			multiplier    REAL NOT NULL,
			delta         INTEGER NOT NULL,
			source_type   TEXT,
			source_id     TEXT,
			meta          TEXT,
			created_at    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_xp_events_user_type
			ON xp_events(user_id, event_type_id, created_at)`,

		// ─── Financial entities ────────────────────────────────────────
		`CREATE TABLE IF NOT EXISTS income_entries (
			id     TEXT PRIMARY KEY,
			label  TEXT NOT NULL,
			amount REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS expense_entries (
			id     TEXT PRIMARY KEY,
			label  TEXT NOT NULL,
			amount REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS budgets (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			icon         TEXT NOT NULL DEFAULT '',
			limit_amount REAL NOT NULL DEFAULT 0,
			current      REAL NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS budget_expenses (
			id          TEXT PRIMARY KEY,
			budget_id   TEXT NOT NULL,
			name        TEXT NOT NULL,
			date_label  TEXT NOT NULL DEFAULT '',
			amount      REAL NOT NULL,
			occurred_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_budget_expenses_budget
			ON budget_expenses(budget_id)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			date_label  TEXT NOT NULL DEFAULT '',
			amount      REAL NOT NULL,
			icon        TEXT NOT NULL DEFAULT '',
			occurred_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_occurred
			ON transactions(occurred_at)`,
		`CREATE TABLE IF NOT EXISTS goals (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			icon     TEXT NOT NULL DEFAULT '',
			target   REAL NOT NULL,
			current  REAL NOT NULL DEFAULT 0,
			deposits INTEGER NOT NULL DEFAULT 0
		)`,

		// App metadata key-value (budget reset month etc.)
		`CREATE TABLE IF NOT EXISTS app_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
