// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Before environment fallbacks are read, the dotenv file named by -env
(default .env) is loaded with godotenv. A missing file is ignored and
variables already present in the process environment are not overridden.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path/DSN or PostgreSQL connection string (required)
  - DatabaseType: sqlite (default) or postgres
  - CSRFSalt: Secret for CSRF token HMAC and IP hashing (required)
  - CatalogPath: Question catalog JSON file
  - SaveURL: Save endpoint (default: this service's POST /results)
  - RewindURL, NextQuestionURL: Optional server-side flow endpoints
  - EvidenceURL: When set, saves answer with a redirect to this URL
  - BackHref, BackText: Secondary action on the result view

# CLI Flags

	-env          Dotenv file
	-p            Server port
	-d            Database URL
	-t            Database type
	-csrf-salt    CSRF salt
	-catalog      Catalog file
	-save-url     Save endpoint
	-rewind-url   Rewind endpoint
	-next-url     Next-question endpoint
	-evidence-url Evidence upload URL
	-back-href    Back link href
	-back-text    Back link label

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	CSRF_SALT         → -csrf-salt
	CATALOG_PATH      → -catalog
	SAVE_URL          → -save-url
	REWIND_URL        → -rewind-url
	NEXT_QUESTION_URL → -next-url
	EVIDENCE_URL      → -evidence-url
	BACK_HREF         → -back-href
	BACK_TEXT         → -back-text

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - CSRF_SALT must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
