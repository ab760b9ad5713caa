// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/assessment-path/auth"
	"github.com/danielhkuo/assessment-path/cliparse"
	"github.com/danielhkuo/assessment-path/middleware"
	"github.com/danielhkuo/assessment-path/models"
)

// listLimit caps how many saved results are returned per survey
const listLimit = 50

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// SaveResult handles POST /results
// Stores a finished assessment path. Answers "redirect" with the evidence
// upload URL when one is configured, otherwise "success". Errors are reported
// in the same envelope so the caller can show the message.
func (h *ResultsHandler) SaveResult(w http.ResponseWriter, r *http.Request) {
	var req models.SaveRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.SaveErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.AssessmentPath) == 0 {
		middleware.SaveErrorResponse(w, http.StatusBadRequest, "assessment_path is required")
		return
	}

	payload, err := json.Marshal(req.AssessmentPath)
	if err != nil {
		slog.Error("failed to encode assessment path", "error", err)
		middleware.SaveErrorResponse(w, http.StatusInternalServerError, "Failed to save result")
		return
	}

	var finalLabel sql.NullString
	if req.FinalLabel != nil {
		finalLabel = sql.NullString{String: *req.FinalLabel, Valid: true}
	}

	resultID := uuid.NewString()
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.CSRFSalt)
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO saved_result (id, survey_question_id, final_label, payload, step_count, ip_hash, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, resultID, string(req.SurveyQuestionID), finalLabel, string(payload), len(req.AssessmentPath), ipHash, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert saved result", "error", err)
		middleware.SaveErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("result saved",
		"result_id", resultID,
		"survey_question_id", req.SurveyQuestionID,
		"final_label", finalLabel.String,
		"steps", len(req.AssessmentPath),
	)

	resp := models.SaveResponse{
		Status:     models.SaveStatusSuccess,
		FinalLabel: finalLabel.String,
	}
	if h.cfg.EvidenceURL != "" {
		target, err := evidenceURL(h.cfg.EvidenceURL, resultID)
		if err != nil {
			slog.Error("invalid evidence url", "url", h.cfg.EvidenceURL, "error", err)
		} else {
			resp.Status = models.SaveStatusRedirect
			resp.URL = target
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// ListResults handles GET /results/{survey}
// Returns the most recent saved results for a survey, newest first
func (h *ResultsHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("survey")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "survey is required")
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, survey_question_id, final_label, step_count, saved_at
		FROM saved_result
		WHERE survey_question_id = $1
		ORDER BY saved_at DESC
		LIMIT $2
	`, surveyID, listLimit)
	if err != nil {
		slog.Error("failed to query saved results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	results := []models.SavedResult{}
	for rows.Next() {
		var (
			res        models.SavedResult
			finalLabel sql.NullString
		)
		if err := rows.Scan(&res.ID, &res.SurveyQuestionID, &finalLabel, &res.StepCount, &res.SavedAt); err != nil {
			slog.Error("failed to scan saved result", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		res.FinalLabel = finalLabel.String
		res.SavedAgo = humanize.Time(res.SavedAt)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate saved results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListResultsResponse{Results: results})
}

// evidenceURL appends the saved result id to the configured upload URL
func evidenceURL(base, resultID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse evidence url: %w", err)
	}
	q := u.Query()
	q.Set("result", resultID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
