// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). Completions with a 4xx or 5xx status log at warn level.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with headers Content-Type and X-CSRFToken.
Preflight requests answer 204 without reaching the mux.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.SaveErrorResponse(w, http.StatusForbidden, "CSRF token missing")

Parse JSON request bodies (capped at 1 MiB):

	var req models.InteractionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for IP hashing of saved results.

# CSRF

Endpoints that accept writes require the double-submit token:

	mux.HandleFunc("POST /builder/surveys", middleware.WithLogging(
		middleware.RequireCSRF(cfg.CSRFSalt, builderHandler.SaveSurvey)))

The X-CSRFToken header must equal the csrftoken cookie and carry a valid
HMAC signature. Failures answer 403. The save endpoint answers in its own
envelope, so its rejections carry status "error":

	middleware.RequireCSRFWith(cfg.CSRFSalt, middleware.SaveErrorResponse, resultsHandler.SaveResult)
*/
package middleware
