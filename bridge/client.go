// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/assessment-path/auth"
	"github.com/danielhkuo/assessment-path/models"
)

var (
	ErrNoEndpoint     = errors.New("endpoint not configured")
	ErrUnexpectedCode = errors.New("unexpected status code")
	ErrNoSaveStatus   = errors.New("save response has no status")
)

// CSRF header and cookie checked by the save endpoint
const (
	CSRFHeader     = auth.CSRFHeader
	CSRFCookieName = auth.CSRFCookieName
)

type Config struct {
	SaveURL         string
	RewindURL       string
	NextQuestionURL string
	CSRFToken       string
	HTTPClient      *http.Client
}

// Client talks to the endpoints that own persistence and server-side flow
// state. Calls are never retried.
type Client struct {
	http      *http.Client
	saveURL   string
	rewindURL string
	nextURL   string
	csrfToken string
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		http:      hc,
		saveURL:   cfg.SaveURL,
		rewindURL: cfg.RewindURL,
		nextURL:   cfg.NextQuestionURL,
		csrfToken: cfg.CSRFToken,
	}
}

// SaveResult posts the finished path and interprets the response status.
// The returned outcome is settled for "success", "redirect" with a url, and
// (leniently) any other status present on a 2xx response. "error" responses,
// responses without a status, non-2xx responses and transport or decode
// failures are not settled.
func (c *Client) SaveResult(ctx context.Context, finalLabel, surveyID string, path []models.Step) (models.SaveOutcome, error) {
	if c.saveURL == "" {
		return models.SaveOutcome{}, fmt.Errorf("save: %w", ErrNoEndpoint)
	}

	req := models.SaveRequest{
		SurveyQuestionID: models.ID(surveyID),
		AssessmentPath:   path,
	}
	if finalLabel != "" {
		req.FinalLabel = &finalLabel
	}
	if req.AssessmentPath == nil {
		req.AssessmentPath = []models.Step{}
	}

	resp, err := c.post(ctx, c.saveURL, req)
	if err != nil {
		return models.SaveOutcome{}, fmt.Errorf("save: %w", err)
	}
	defer resp.Body.Close()

	var data models.SaveResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.SaveOutcome{}, fmt.Errorf("save: failed to decode response: %w", err)
	}

	outcome := models.SaveOutcome{
		Status:     data.Status,
		FinalLabel: data.FinalLabel,
		Message:    data.Message,
	}
	switch {
	case data.Status == models.SaveStatusRedirect && data.URL != "":
		outcome.Settled = true
		outcome.RedirectURL = data.URL
	case data.Status == models.SaveStatusSuccess:
		outcome.Settled = true
	case data.Status == models.SaveStatusError:
		slog.Error("save error", "message", data.Message, "http_status", resp.StatusCode)
	case data.Status == "":
		slog.Error("save response without status", "http_status", resp.StatusCode, "message", data.Message)
		return outcome, fmt.Errorf("save: %w (http %d)", ErrNoSaveStatus, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		slog.Error("save rejected", "status", data.Status, "http_status", resp.StatusCode)
		return outcome, fmt.Errorf("save: %w %d", ErrUnexpectedCode, resp.StatusCode)
	default:
		// Unknown statuses keep the lenient behavior of showing the result.
		slog.Warn("unrecognized save status, treating as success",
			"status", data.Status,
			"http_status", resp.StatusCode,
		)
		outcome.Settled = true
	}
	return outcome, nil
}

// Rewind asks the server to invalidate its state at and after questionID.
// Without a configured endpoint it does nothing.
func (c *Client) Rewind(ctx context.Context, questionID string) error {
	if c.rewindURL == "" {
		return nil
	}
	resp, err := c.post(ctx, c.rewindURL, models.RewindRequest{QuestionID: questionID})
	if err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("rewind: %w %d", ErrUnexpectedCode, resp.StatusCode)
	}
	return nil
}

// NextQuestion fetches the HTML fragment of the next question. complete is
// true when the server answers 204, meaning the assessment is finished.
func (c *Client) NextQuestion(ctx context.Context, questionID string, optionIDs []string) (fragment string, complete bool, err error) {
	if c.nextURL == "" {
		return "", false, fmt.Errorf("next question: %w", ErrNoEndpoint)
	}
	if optionIDs == nil {
		optionIDs = []string{}
	}
	resp, err := c.post(ctx, c.nextURL, models.NextQuestionRequest{QuestionID: questionID, OptionIDs: optionIDs})
	if err != nil {
		return "", false, fmt.Errorf("next question: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return "", true, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false, fmt.Errorf("next question: %w %d", ErrUnexpectedCode, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("next question: failed to read body: %w", err)
	}
	return string(body), false, nil
}

func (c *Client) post(ctx context.Context, url string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.csrfToken != "" {
		req.Header.Set(CSRFHeader, c.csrfToken)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: c.csrfToken})
	}
	return c.http.Do(req)
}
