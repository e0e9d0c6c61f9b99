package storage

import (
	"database/sql"
	"fmt"
)

// migrations is the ordered chain of schema changes. Each entry runs in
// its own transaction; schema_version records the last applied index.
var migrations = []string{
	// 1: initial schema
	`
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT,
		handicap REAL,
		club TEXT,
		marketing_consent BOOLEAN NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS in_app_messages (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		content_type TEXT NOT NULL,
		image_url TEXT,
		type TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		target_user_ids TEXT,
		requires_marketing_consent INTEGER NOT NULL DEFAULT 0,
		start_date TEXT,
		end_date TEXT,
		is_active INTEGER NOT NULL DEFAULT 0,
		action_url TEXT,
		action_label TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		reset_token TEXT,
		reset_expires TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES profiles(id)
	);

	CREATE TABLE IF NOT EXISTS swing_analyses (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		club TEXT,
		score REAL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES profiles(id)
	);
	`,
}

// LatestSchemaVersion returns the version the migration chain produces.
func LatestSchemaVersion() int {
	return len(migrations)
}

// MigrateDB applies any pending migrations.
// PRE: db is a valid connection with foreign keys enabled
// POST: schema_version equals LatestSchemaVersion(); idempotent
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	var version int
	err := db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("failed to seed schema_version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("failed to read schema_version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}
	}
	return nil
}
