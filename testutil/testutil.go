// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/assessment-path/auth"
	"github.com/danielhkuo/assessment-path/catalog"
	"github.com/danielhkuo/assessment-path/cliparse"
	"github.com/danielhkuo/assessment-path/db"
)

// TestCSRFSalt is the salt used by GetTestConfig
const TestCSRFSalt = "test-csrf-salt"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The database lives in the test's temp dir and is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file:test.db",
		DatabaseType: db.TypeSQLite,
		CSRFSalt:     TestCSRFSalt,
		SaveURL:      "http://localhost:3318/results",
	}
}

// SampleDocument is a small survey exercising every question style:
//
//	q1 static (yes -> q2, no -> final, other -> free text -> q2, skip -> q6)
//	q2 multi-select -> q3
//	q3 dynamic choices from q2 -> q4
//	q4 static with URL and numeric inputs -> q5
//	q5 single-select, every option final
//	q6 static with a dead-end option
func SampleDocument() catalog.Document {
	return catalog.Document{
		SurveyQuestionID: "survey-1",
		FirstQuestion:    "q1",
		Questions: []catalog.Question{
			{
				ID: "q1", Text: "Do you have a security policy?",
				Section: "Governance", SectionStarter: true,
				Options: []catalog.Option{
					{ID: "1", Text: "Yes", NextQuestion: "q2"},
					{ID: "2", Text: "No", AnswerText: "No policy", FinalLabel: "Not compliant"},
					{ID: "3", Text: "Other", ResponseType: catalog.ResponseFreeText, NextQuestion: "q2"},
					{ID: "4", Text: "Skip", NextQuestion: "q6"},
				},
			},
			{
				ID: "q2", Text: "Which cloud providers do you use?",
				Section: "Infrastructure", SectionStarter: true,
				Modality:                  catalog.ModalityMultiSelect,
				NextQuestionAfterMultiple: "q3",
				Options: []catalog.Option{
					{ID: "21", Text: "AWS"},
					{ID: "22", Text: "Azure"},
					{ID: "23", Text: "GCP"},
				},
			},
			{
				ID: "q3", Text: "Which provider hosts production?",
				Modality:        catalog.ModalityDynamic,
				DynamicSourceID: "q2",
				NextQuestion:    "q4",
			},
			{
				ID: "q4", Text: "Tell us more",
				Options: []catalog.Option{
					{ID: "41", Text: "Policy link", ResponseType: catalog.ResponseURL, NextQuestion: "q5"},
					{ID: "42", Text: "Staff count", ResponseType: catalog.ResponseNumerical, NextQuestion: "q5"},
				},
			},
			{
				ID: "q5", Text: "Rate your maturity",
				Modality: catalog.ModalitySingleSelect,
				Options: []catalog.Option{
					{ID: "51", Text: "Low", FinalLabel: "Level 1"},
					{ID: "52", Text: "High", FinalLabel: "Level 3"},
				},
			},
			{
				ID: "q6", Text: "Unfinished question",
				Options: []catalog.Option{
					{ID: "61", Text: "Dead end"},
				},
			},
		},
	}
}

// SampleCatalog indexes SampleDocument
func SampleCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(SampleDocument())
	if err != nil {
		t.Fatalf("Failed to build sample catalog: %v", err)
	}
	return cat
}

// CSRFHeaders returns a signed token set as both header and cookie
func CSRFHeaders(t *testing.T, salt string) map[string]string {
	t.Helper()
	token, err := auth.GenerateCSRFToken(salt)
	if err != nil {
		t.Fatalf("Failed to generate CSRF token: %v", err)
	}
	return map[string]string{
		auth.CSRFHeader: token,
		"Cookie":        auth.CSRFCookieName + "=" + token,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
