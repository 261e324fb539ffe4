// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3000)
  - DatabaseURL: PostgreSQL connection string or SQLite file path
  - DatabaseType: "sqlite" (default) or "postgres"
  - MasterKeySalt: Secret for scrum master key HMAC (required)

# CLI Flags

	-p            Server port
	-d            Database URL or file path
	-t            Database type (sqlite or postgres)
	--master-salt Master key salt

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	MASTER_KEY_SALT → --master-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - MASTER_KEY_SALT must be provided
  - DATABASE_URL must be provided when the type is postgres
    (sqlite falls back to ./data/planning-poker.db)

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg)
	// ...
	mux := router.NewRouter(mgr, broker)
*/
package cliparse
