// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the planning poker API server.

Planning poker is a real-time estimation tool for scrum teams: a scrum
master opens a room, teammates join with a shareable code, everyone votes
in private, and the scrum master reveals all votes at once.

# Starting the Server

The server runs on an embedded SQLite database by default:

	MASTER_KEY_SALT=secret go run .

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..." --master-salt secret

A .env file in the working directory is loaded automatically.

# Configuration

Required settings:

  - MASTER_KEY_SALT (--master-salt): Secret for scrum master key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - DATABASE_URL (-d): Connection string or SQLite path
    (default: ./data/planning-poker.db)

# Architecture

The server uses a manager-based architecture with dependency injection:

  - room: Room lifecycle state machine, roster, and vote ledger
  - events: In-process change broker feeding the SSE streams
  - handlers: HTTP request handlers (rooms, voting, results, events)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Room code and master key generation
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
