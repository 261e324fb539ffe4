// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/planning-poker/cliparse"
)

// Open connects to the configured database. Postgres uses lib/pq; sqlite uses
// the CGO-free modernc driver with foreign keys enabled.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	switch cfg.DatabaseType {
	case "postgres":
		return sql.Open("postgres", cfg.DatabaseURL)
	case "sqlite":
		dsn := cfg.DatabaseURL
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			// Ensure the parent directory exists for file-backed databases
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
			dsn = "file:" + dsn
		}
		if !strings.Contains(dsn, "_pragma") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_pragma=foreign_keys(1)"
		}
		return sql.Open("sqlite", dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema stays inside the common dialect of PostgreSQL and SQLite:
// timestamps are always bound from Go, placeholders are $1..$n in
// first-occurrence order, and upserts use ON CONFLICT ... excluded.
const schema = `
-- Rooms
CREATE TABLE IF NOT EXISTS rooms (
    room_id TEXT PRIMARY KEY,
    room_code TEXT NOT NULL UNIQUE,
    scrum_master_id TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    voting_started BOOLEAN NOT NULL DEFAULT FALSE,
    voting_frozen BOOLEAN NOT NULL DEFAULT FALSE,
    is_revote BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rooms_room_code ON rooms(room_code);

-- Members
CREATE TABLE IF NOT EXISTS members (
    member_id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES rooms(room_id) ON DELETE CASCADE,
    member_name TEXT NOT NULL,
    is_done BOOLEAN NOT NULL DEFAULT FALSE,
    joined_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_members_room_id ON members(room_id);

-- Votes
CREATE TABLE IF NOT EXISTS votes (
    vote_id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES rooms(room_id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES members(member_id) ON DELETE CASCADE,
    vote_value INTEGER NOT NULL,
    UNIQUE (room_id, member_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_room_id ON votes(room_id);
`
