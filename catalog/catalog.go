// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/danielhkuo/assessment-path/models"
)

// Modality is the declared input style of a question
type Modality string

const (
	ModalityChoice       Modality = "STATIC"
	ModalitySingleSelect Modality = "SINGLE_SELECT"
	ModalityMultiSelect  Modality = "MULTI_SELECT"
	ModalityDynamic      Modality = "DYNAMIC_FROM_PREVIOUS_MULTI_SELECT"
)

// Option response types
const (
	ResponsePredefined = "PREDEFINED"
	ResponseFreeText   = "FREE_TEXT"
	ResponseNumerical  = "NUMERICAL"
	ResponseURL        = "URL"
)

type Option struct {
	ID           models.ID `json:"id"`
	Text         string    `json:"text"`
	AnswerText   string    `json:"answer_text"`
	NextQuestion models.ID `json:"next_question"`
	FinalLabel   string    `json:"final_label"`
	ResponseType string    `json:"response_type"`
	Explanation  string    `json:"explanation"`
}

// Answer returns the configured answer text, falling back to the label
func (o Option) Answer() string {
	if o.AnswerText != "" {
		return o.AnswerText
	}
	return o.Text
}

// TakesInput reports whether choosing the option requires typed text
func (o Option) TakesInput() bool {
	switch o.ResponseType {
	case ResponseFreeText, ResponseNumerical, ResponseURL:
		return true
	}
	return false
}

type Question struct {
	ID                        models.ID `json:"id"`
	Text                      string    `json:"text"`
	Explanation               string    `json:"explanation"`
	Section                   string    `json:"section"`
	SectionStarter            bool      `json:"section_starter"`
	Modality                  Modality  `json:"modality"`
	Options                   []Option  `json:"options"`
	NextQuestion              models.ID `json:"next_question"`
	NextQuestionAfterMultiple models.ID `json:"next_question_after_multiple"`
	FinalLabel                string    `json:"final_label"`
	DynamicSourceID           models.ID `json:"dynamic_source_id"`
	AllowMultiple             bool      `json:"allow_multiple"`
}

// Option looks up an option by id
func (q *Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if string(o.ID) == id {
			return o, true
		}
	}
	return Option{}, false
}

// Document is the bootstrap payload embedded in the assessment page
type Document struct {
	SurveyQuestionID models.ID  `json:"survey_question_id"`
	FirstQuestion    models.ID  `json:"first_question"`
	Questions        []Question `json:"questions"`
}

// Catalog is the read-only question metadata map, keyed by question id.
type Catalog struct {
	surveyID string
	first    string
	order    []string
	byID     map[string]*Question
}

// New indexes a bootstrap document. Duplicate ids are rejected.
func New(doc Document) (*Catalog, error) {
	c := &Catalog{
		surveyID: string(doc.SurveyQuestionID),
		first:    string(doc.FirstQuestion),
		byID:     make(map[string]*Question, len(doc.Questions)),
	}
	for i := range doc.Questions {
		q := doc.Questions[i]
		id := string(q.ID)
		if id == "" {
			return nil, fmt.Errorf("question %d has no id", i)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate question id %q", id)
		}
		if q.Modality == "" {
			q.Modality = ModalityChoice
		}
		c.byID[id] = &q
		c.order = append(c.order, id)
	}
	if c.first == "" && len(c.order) > 0 {
		c.first = c.order[0]
	}
	return c, nil
}

// Empty returns a catalog with no questions
func Empty() *Catalog {
	c, _ := New(Document{})
	return c
}

// SafeParse decodes bootstrap JSON. Malformed input is logged and yields
// an empty catalog so the rest of the page still initializes.
func SafeParse(raw []byte) *Catalog {
	var doc Document
	if err := decodeEmbedded(raw, &doc); err != nil {
		slog.Error("failed to parse question data", "error", err)
		return Empty()
	}
	c, err := New(doc)
	if err != nil {
		slog.Error("invalid question data", "error", err)
		return Empty()
	}
	return c
}

// LoadFile reads a bootstrap document from disk
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return SafeParse(raw), nil
}

// ParseSavedPath decodes a saved-path payload, falling back to an empty list
func ParseSavedPath(raw []byte) []models.SavedStep {
	var steps []models.SavedStep
	if err := decodeEmbedded(raw, &steps); err != nil {
		slog.Error("failed to parse saved path data", "error", err)
		return []models.SavedStep{}
	}
	if steps == nil {
		steps = []models.SavedStep{}
	}
	return steps
}

// decodeEmbedded unmarshals v, unwrapping one level of string encoding since
// page templates sometimes serialize JSON into a JSON string.
func decodeEmbedded(raw []byte, v any) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return err
		}
		trimmed = inner
	}
	return json.Unmarshal([]byte(trimmed), v)
}

func (c *Catalog) SurveyID() string { return c.surveyID }

func (c *Catalog) FirstQuestion() string { return c.first }

func (c *Catalog) Len() int { return len(c.order) }

// Question returns the question with id
func (c *Catalog) Question(id string) (*Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// Has reports whether the question exists
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Text returns the display text of a question
func (c *Catalog) Text(id string) string {
	if q, ok := c.byID[id]; ok && q.Text != "" {
		return q.Text
	}
	return "Unknown Question"
}

// OptionText resolves an option id to its display answer
func (c *Catalog) OptionText(questionID, optionID string) (string, bool) {
	q, ok := c.byID[questionID]
	if !ok {
		return "", false
	}
	o, ok := q.Option(optionID)
	if !ok {
		return "", false
	}
	text := o.Answer()
	return text, text != ""
}

// IDs returns question ids in document order
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
