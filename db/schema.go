// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names registered by the imported database drivers
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to a sqlite or postgres database and verifies the connection
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypeSQLite, TypePostgres:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}

	// SQLite allows one writer; serialize through a single connection
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dbType, err)
	}
	return conn, nil
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

// The schema sticks to types and syntax both SQLite and PostgreSQL accept.
// JSON payloads are stored as TEXT.
const schema = `
-- Assessment sessions (controller state between requests)
CREATE TABLE IF NOT EXISTS assessment_session (
    id TEXT PRIMARY KEY,
    survey_question_id TEXT NOT NULL,
    state TEXT NOT NULL,
    version INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessment_session_survey ON assessment_session(survey_question_id);

-- Saved results (finished assessment paths)
CREATE TABLE IF NOT EXISTS saved_result (
    id TEXT PRIMARY KEY,
    survey_question_id TEXT NOT NULL,
    final_label TEXT,
    payload TEXT NOT NULL,
    step_count INTEGER NOT NULL,
    ip_hash TEXT,
    saved_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saved_result_survey ON saved_result(survey_question_id, saved_at);

-- Builder definitions
CREATE TABLE IF NOT EXISTS survey_definition (
    version_id TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS routing_definition (
    version_id TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`
