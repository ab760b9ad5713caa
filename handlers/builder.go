// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/assessment-path/catalog"
	"github.com/danielhkuo/assessment-path/cliparse"
	"github.com/danielhkuo/assessment-path/middleware"
	"github.com/danielhkuo/assessment-path/models"
	"github.com/danielhkuo/assessment-path/routing"
)

// Definition tables written by the builder
const (
	surveyTable  = "survey_definition"
	routingTable = "routing_definition"
)

type BuilderHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	catalog *catalog.Catalog
}

func NewBuilderHandler(db *sql.DB, cfg cliparse.Config, cat *catalog.Catalog) *BuilderHandler {
	if cat == nil {
		cat = catalog.Empty()
	}
	return &BuilderHandler{db: db, cfg: cfg, catalog: cat}
}

// SaveSurvey handles POST /builder/surveys
func (h *BuilderHandler) SaveSurvey(w http.ResponseWriter, r *http.Request) {
	var def routing.SurveyDefinition
	if err := middleware.ParseJSONBody(r, &def); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := def.Validate(); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.upsert(w, r, surveyTable, string(def.VersionID), def) {
		return
	}
	slog.Info("survey definition saved", "version_id", def.VersionID, "questions", def.QuestionCount())

	middleware.JSONResponse(w, http.StatusOK, models.DefinitionSavedResponse{
		VersionID: string(def.VersionID),
		Message:   "Survey saved",
	})
}

// SaveRouting handles POST /builder/routing
// Question references are checked against the loaded catalog when it has questions
func (h *BuilderHandler) SaveRouting(w http.ResponseWriter, r *http.Request) {
	var def routing.Definition
	if err := middleware.ParseJSONBody(r, &def); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var known func(string) bool
	if h.catalog.Len() > 0 {
		known = h.catalog.Has
	}
	if err := def.Validate(known); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.upsert(w, r, routingTable, string(def.VersionID), def) {
		return
	}
	slog.Info("routing rules saved", "version_id", def.VersionID, "rules", len(def.Rules))

	middleware.JSONResponse(w, http.StatusOK, models.DefinitionSavedResponse{
		VersionID: string(def.VersionID),
		Message:   "Routing rules saved",
	})
}

// GetSurvey handles GET /builder/surveys/{version}
func (h *BuilderHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, surveyTable)
}

// GetRouting handles GET /builder/routing/{version}
func (h *BuilderHandler) GetRouting(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, routingTable)
}

func (h *BuilderHandler) get(w http.ResponseWriter, r *http.Request, table string) {
	versionID := r.PathValue("version")
	if versionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "version is required")
		return
	}

	var payload string
	err := h.db.QueryRowContext(r.Context(),
		`SELECT payload FROM `+table+` WHERE version_id = $1`, versionID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Definition not found")
		return
	}
	if err != nil {
		slog.Error("failed to query definition", "table", table, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, json.RawMessage(payload))
}

// upsert stores a definition under its version, replacing any earlier one
func (h *BuilderHandler) upsert(w http.ResponseWriter, r *http.Request, table, versionID string, def any) bool {
	payload, err := json.Marshal(def)
	if err != nil {
		slog.Error("failed to encode definition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save definition")
		return false
	}

	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO `+table+` (version_id, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (version_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, versionID, string(payload), time.Now().UTC())
	if err != nil {
		slog.Error("failed to store definition", "table", table, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	return true
}
