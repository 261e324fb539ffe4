// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Opening a Connection

Open picks the driver from the configuration:

	conn, err := db.Open(cfg)

PostgreSQL connects through lib/pq with the URL as-is. SQLite uses the
CGO-free modernc.org/sqlite driver, creates the parent directory for
file-backed databases, and enables foreign keys via pragma.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - rooms: room identity, shareable code, and lifecycle flags
  - members: roster entries with the per-member done flag
  - votes: one current vote per (room_id, member_id)

# Relationships

	rooms 1──* members
	rooms 1──* votes
	members 1──1 votes (per round)

All foreign keys use ON DELETE CASCADE.

# Dialect

All SQL stays inside the common PostgreSQL/SQLite dialect: $1..$n
placeholders in first-occurrence order, timestamps bound from Go rather
than NOW(), and ON CONFLICT upserts referencing excluded.

# Indexes

Performance indexes on:

  - rooms.room_code (unique; every request resolves a code)
  - members.room_id
  - votes.room_id

Pollers and SSE streams re-read room state at sub-5-second intervals, so
the code lookup must stay an indexed point read.
*/
package db
