// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the assessment path API server.

The server walks a respondent through a branching questionnaire. Each answer
is recorded as a step in the assessment path; re-answering an earlier
question discards every later step. When a question resolves to a final
label the whole path is saved and the result view offers the evidence
upload link.

# Starting the Server

The server requires environment variables, a .env file or CLI flags:

	DATABASE_URL=assessment.db CSRF_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -csrf-salt ... -catalog questions.json

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file/DSN or PostgreSQL connection string
  - CSRF_SALT (-csrf-salt): Secret for CSRF token signing and IP hashing

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - CATALOG_PATH (-catalog): Question catalog JSON
  - SAVE_URL, REWIND_URL, NEXT_QUESTION_URL: Bridge endpoints
  - EVIDENCE_URL, BACK_HREF, BACK_TEXT: Result view actions

# Architecture

  - assessment: Path, view, interaction handlers, hydration
  - catalog: Question catalog and saved-path parsing
  - routing: Builder survey and routing-rule validation (expr-lang)
  - bridge: HTTP client for save, rewind and next-question endpoints
  - handlers: HTTP request handlers (sessions, results, builder)
  - render: HTML view of a session
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, CSRF, logging, JSON helpers
  - models: Wire and domain types
  - auth: Session ids, CSRF tokens, IP hashing
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
