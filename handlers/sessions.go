// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/assessment-path/assessment"
	"github.com/danielhkuo/assessment-path/auth"
	"github.com/danielhkuo/assessment-path/bridge"
	"github.com/danielhkuo/assessment-path/catalog"
	"github.com/danielhkuo/assessment-path/cliparse"
	"github.com/danielhkuo/assessment-path/middleware"
	"github.com/danielhkuo/assessment-path/models"
	"github.com/danielhkuo/assessment-path/render"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrConflict = errors.New("session modified concurrently")
)

type SessionHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	catalog *catalog.Catalog
	client  *bridge.Client
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config, cat *catalog.Catalog, client *bridge.Client) *SessionHandler {
	if cat == nil {
		cat = catalog.Empty()
	}
	return &SessionHandler{db: db, cfg: cfg, catalog: cat, client: client}
}

// StartSession handles POST /sessions
// With resume set, the latest saved path for the survey is hydrated first
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if h.catalog.Len() == 0 {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "No questions configured")
		return
	}

	surveyID := req.SurveyQuestionID
	if surveyID == "" {
		surveyID = h.catalog.SurveyID()
	}

	c := assessment.New(h.catalog, surveyID, h.saver(), h.options()...)

	hydrated := false
	if req.Resume {
		saved, err := h.latestSavedPath(r.Context(), surveyID)
		if err != nil {
			slog.Error("failed to load saved path", "survey_question_id", surveyID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		hydrated = c.Resume(saved)
	}
	if !hydrated {
		c.Start()
	}

	state, err := c.MarshalState()
	if err != nil {
		slog.Error("failed to encode session state", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	sessionID := auth.NewSessionID()
	now := time.Now().UTC()
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO assessment_session (id, survey_question_id, state, version, created_at, updated_at)
		VALUES ($1, $2, $3, 1, $4, $4)
	`, sessionID, surveyID, string(state), now)
	if err != nil {
		slog.Error("failed to insert session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("session started",
		"session_id", sessionID,
		"survey_question_id", surveyID,
		"hydrated", hydrated,
		"steps", c.Path().Len(),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.StartSessionResponse{
		SessionID: sessionID,
		Hydrated:  hydrated,
		View:      c.View(),
	})
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	c, version, ok := h.load(w, r, sessionID)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		SessionID:        sessionID,
		SurveyQuestionID: c.SurveyID(),
		Version:          version,
		Steps:            c.Path().Steps(),
		View:             c.View(),
	})
}

// GetPage handles GET /sessions/{id}/page
// Renders the current view as HTML
func (h *SessionHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	c, _, ok := h.load(w, r, sessionID)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.Write(&buf, render.NewPage(sessionID, c)); err != nil {
		slog.Error("failed to render page", "session_id", sessionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Interact handles POST /sessions/{id}/interactions
// The interaction is dispatched to the session's controller and the
// resulting state is stored only if nobody else wrote it in between
func (h *SessionHandler) Interact(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req models.InteractionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	kind, err := assessment.ParseKind(req.Kind)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	c, version, ok := h.load(w, r, sessionID)
	if !ok {
		return
	}

	outcome, dispatchErr := c.Dispatch(r.Context(), toInteraction(kind, req))

	if outcome != assessment.OutcomeNoop || dispatchErr != nil {
		if err := h.store(r.Context(), sessionID, version, c); err != nil {
			if errors.Is(err, ErrConflict) {
				middleware.ErrorResponse(w, http.StatusConflict, "Session was modified by another request")
				return
			}
			slog.Error("failed to store session", "session_id", sessionID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	status, message := interactionStatus(c, dispatchErr)
	if dispatchErr != nil {
		slog.Info("interaction not applied",
			"session_id", sessionID,
			"kind", kind.String(),
			"question_id", req.QuestionID,
			"outcome", outcome.String(),
			"error", dispatchErr,
		)
	}

	middleware.JSONResponse(w, status, models.InteractionResponse{
		Outcome: outcome.String(),
		Message: message,
		View:    c.View(),
	})
}

// interactionStatus maps a dispatch error to an HTTP status and message
func interactionStatus(c *assessment.Controller, err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, assessment.ErrValidation):
		if cue := c.View().Cue; cue != nil && cue.Message != "" {
			return http.StatusUnprocessableEntity, cue.Message
		}
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, assessment.ErrNotInteractive):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, assessment.ErrConfiguration):
		return http.StatusInternalServerError, err.Error()
	case errors.Is(err, assessment.ErrPersistence):
		if alert := c.View().Alert; alert != "" {
			return http.StatusBadGateway, alert
		}
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, assessment.ErrUnknownInteraction):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func toInteraction(kind assessment.Kind, req models.InteractionRequest) assessment.Interaction {
	in := assessment.Interaction{
		Kind:       kind,
		QuestionID: string(req.QuestionID),
		OptionID:   string(req.OptionID),
		Text:       req.Text,
		Values:     req.Values,
		ItemIndex:  -1,
	}
	for _, id := range req.OptionIDs {
		in.OptionIDs = append(in.OptionIDs, string(id))
	}
	if req.ItemIndex != nil {
		in.ItemIndex = *req.ItemIndex
	}
	return in
}

// load fetches and restores a session, writing the error response itself
func (h *SessionHandler) load(w http.ResponseWriter, r *http.Request, sessionID string) (*assessment.Controller, int, bool) {
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return nil, 0, false
	}
	c, version, err := h.loadSession(r.Context(), sessionID)
	if errors.Is(err, ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return nil, 0, false
	}
	if err != nil {
		slog.Error("failed to load session", "session_id", sessionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, 0, false
	}
	return c, version, true
}

func (h *SessionHandler) loadSession(ctx context.Context, sessionID string) (*assessment.Controller, int, error) {
	var (
		raw     string
		version int
	)
	err := h.db.QueryRowContext(ctx, `
		SELECT state, version
		FROM assessment_session
		WHERE id = $1
	`, sessionID).Scan(&raw, &version)
	if err == sql.ErrNoRows {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query session: %w", err)
	}

	state, err := assessment.UnmarshalState([]byte(raw))
	if err != nil {
		return nil, 0, err
	}
	return assessment.Restore(h.catalog, state, h.saver(), h.options()...), version, nil
}

// store writes the controller state if the stored version is still version
func (h *SessionHandler) store(ctx context.Context, sessionID string, version int, c *assessment.Controller) error {
	state, err := c.MarshalState()
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}

	result, err := h.db.ExecContext(ctx, `
		UPDATE assessment_session
		SET state = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4
	`, string(state), time.Now().UTC(), sessionID, version)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if rows == 0 {
		return ErrConflict
	}
	return nil
}

// latestSavedPath returns the most recently saved path for a survey, or nil
func (h *SessionHandler) latestSavedPath(ctx context.Context, surveyID string) ([]models.SavedStep, error) {
	var payload string
	err := h.db.QueryRowContext(ctx, `
		SELECT payload
		FROM saved_result
		WHERE survey_question_id = $1
		ORDER BY saved_at DESC
		LIMIT 1
	`, surveyID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query saved result: %w", err)
	}
	return catalog.ParseSavedPath([]byte(payload)), nil
}

func (h *SessionHandler) saver() assessment.Saver {
	if h.client == nil {
		return nil
	}
	return h.client
}

func (h *SessionHandler) options() []assessment.Option {
	opts := []assessment.Option{assessment.WithBackLink(h.cfg.BackHref, h.cfg.BackText)}
	if h.client != nil {
		opts = append(opts, assessment.WithRewinder(h.client))
	}
	return opts
}
