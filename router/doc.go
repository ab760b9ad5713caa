// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the assessment path API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, cat, client)

cat is the question catalog served to sessions and used to check builder
routing rules. client is the bridge used for final saves and rewinds; a nil
client makes every final save fail with a persistence error.

# Endpoints

Health:

	GET /health

Sessions:

	POST /sessions                     - Start (or resume) a session
	GET  /sessions/{id}                - Path and view as JSON
	GET  /sessions/{id}/page           - Path and view as HTML
	POST /sessions/{id}/interactions   - Apply one interaction

Results:

	POST /results          - Save a finished path (CSRF)
	GET  /results/{survey} - Recent results for a survey

Builder:

	POST /builder/surveys           - Store a survey definition (CSRF)
	GET  /builder/surveys/{version} - Fetch a survey definition
	POST /builder/routing           - Store routing rules (CSRF)
	GET  /builder/routing/{version} - Fetch routing rules

CSRF-protected routes require the X-CSRFToken header to match the csrftoken
cookie and carry a valid signature for the configured salt.
*/
package router
