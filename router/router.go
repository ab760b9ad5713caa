// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/assessment-path/bridge"
	"github.com/danielhkuo/assessment-path/catalog"
	"github.com/danielhkuo/assessment-path/cliparse"
	"github.com/danielhkuo/assessment-path/handlers"
	"github.com/danielhkuo/assessment-path/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, cat *catalog.Catalog, client *bridge.Client) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(db, cfg, cat, client)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	builderHandler := handlers.NewBuilderHandler(db, cfg, cat)

	csrf := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireCSRF(cfg.CSRFSalt, next)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Assessment sessions
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.StartSession))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("GET /sessions/{id}/page", middleware.WithLogging(sessionHandler.GetPage))
	mux.HandleFunc("POST /sessions/{id}/interactions", middleware.WithLogging(sessionHandler.Interact))

	// Saved results (save requires the CSRF double-submit pair and answers
	// rejections in the save envelope)
	mux.HandleFunc("POST /results", middleware.WithLogging(
		middleware.RequireCSRFWith(cfg.CSRFSalt, middleware.SaveErrorResponse, resultsHandler.SaveResult)))
	mux.HandleFunc("GET /results/{survey}", middleware.WithLogging(resultsHandler.ListResults))

	// Builder definitions
	mux.HandleFunc("POST /builder/surveys", middleware.WithLogging(csrf(builderHandler.SaveSurvey)))
	mux.HandleFunc("GET /builder/surveys/{version}", middleware.WithLogging(builderHandler.GetSurvey))
	mux.HandleFunc("POST /builder/routing", middleware.WithLogging(csrf(builderHandler.SaveRouting)))
	mux.HandleFunc("GET /builder/routing/{version}", middleware.WithLogging(builderHandler.GetRouting))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("assessment-path API v1"))
	})

	return mux
}
