// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Save response status constants
const (
	SaveStatusSuccess  = "success"
	SaveStatusRedirect = "redirect"
	SaveStatusError    = "error"
)

// Domain types

// Step is one recorded question/answer pair in the assessment path.
// OptionID is always a list, possibly singleton or empty.
type Step struct {
	QuestionID   string   `json:"questionId"`
	QuestionText string   `json:"question"`
	Answer       Answer   `json:"answer"`
	OptionID     []string `json:"optionId"`
}

// NewStep normalises option ids so a step never carries a nil list
func NewStep(questionID, questionText string, answer Answer, optionIDs ...string) Step {
	ids := make([]string, 0, len(optionIDs))
	for _, id := range optionIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return Step{
		QuestionID:   questionID,
		QuestionText: questionText,
		Answer:       answer,
		OptionID:     ids,
	}
}

// SavedStep is a step as stored by a previous save, used for hydration
type SavedStep struct {
	QuestionID ID     `json:"questionId"`
	OptionID   IDList `json:"optionId"`
	Answer     Answer `json:"answer"`
}

// SaveOutcome is the interpreted result of a save call
type SaveOutcome struct {
	Settled     bool
	Status      string
	RedirectURL string
	FinalLabel  string
	Message     string
}

// Wire types for the save, rewind and next-question endpoints

type SaveRequest struct {
	FinalLabel       *string `json:"final_label"`
	SurveyQuestionID ID      `json:"survey_question_id"`
	AssessmentPath   []Step  `json:"assessment_path"`
}

type SaveResponse struct {
	Status     string `json:"status,omitempty"`
	URL        string `json:"url,omitempty"`
	FinalLabel string `json:"final_label,omitempty"`
	Message    string `json:"message,omitempty"`
}

type RewindRequest struct {
	QuestionID string `json:"question_id"`
}

type NextQuestionRequest struct {
	QuestionID string   `json:"question_id"`
	OptionIDs  []string `json:"option_ids"`
}

// Session API types

type StartSessionRequest struct {
	SurveyQuestionID string `json:"survey_question_id"`
	Resume           bool   `json:"resume"`
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	Hydrated  bool   `json:"hydrated"`
	View      any    `json:"view"`
}

// InteractionRequest is one user interaction. Ids may be sent as JSON
// numbers or strings. A missing item_index closes the inline editor.
type InteractionRequest struct {
	Kind       string   `json:"kind"`
	QuestionID ID       `json:"question_id"`
	OptionID   ID       `json:"option_id,omitempty"`
	OptionIDs  []ID     `json:"option_ids,omitempty"`
	Text       string   `json:"text,omitempty"`
	Values     []string `json:"values,omitempty"`
	ItemIndex  *int     `json:"item_index,omitempty"`
}

type SessionResponse struct {
	SessionID        string `json:"session_id"`
	SurveyQuestionID string `json:"survey_question_id"`
	Version          int    `json:"version"`
	Steps            []Step `json:"steps"`
	View             any    `json:"view"`
}

type InteractionResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
	View    any    `json:"view"`
}

// Results API types

type SavedResult struct {
	ID               string    `json:"id"`
	SurveyQuestionID string    `json:"survey_question_id"`
	FinalLabel       string    `json:"final_label"`
	StepCount        int       `json:"step_count"`
	SavedAt          time.Time `json:"saved_at"`
	SavedAgo         string    `json:"saved_ago"`
}

type ListResultsResponse struct {
	Results []SavedResult `json:"results"`
}

// Builder API types

type DefinitionSavedResponse struct {
	VersionID string `json:"version_id"`
	Message   string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
