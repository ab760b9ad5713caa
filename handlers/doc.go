// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the assessment path API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SessionHandler: Session start, interactions and rendering
  - ResultsHandler: Saving finished paths and listing results
  - BuilderHandler: Survey and routing-rule definitions

Handlers are created via constructor functions:

	sessionHandler := handlers.NewSessionHandler(db, cfg, cat, client)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

# Sessions

A session stores its controller state as JSON next to a version counter:

	POST /sessions                   → StartSession (optionally resumes the latest saved path)
	POST /sessions/{id}/interactions → Interact
	GET  /sessions/{id}              → GetSession
	GET  /sessions/{id}/page         → GetPage

Interact loads the state, dispatches the interaction and writes the state
back only if the stored version is unchanged. A concurrent writer gets 409.
Rejected input is answered with 422 and the validation cue; a failed final
save with 502 and the alert message.

# Results

	POST /results          → SaveResult (the bridge's default save endpoint)
	GET  /results/{survey} → ListResults

SaveResult answers with status "redirect" and the evidence URL when one is
configured, otherwise "success".

# Builder

	POST /builder/surveys → SaveSurvey
	POST /builder/routing → SaveRouting

Definitions are validated, then stored per version_id; saving the same
version again replaces it.
*/
package handlers
