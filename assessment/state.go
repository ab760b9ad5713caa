// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assessment

import (
	"encoding/json"
	"fmt"

	"github.com/danielhkuo/assessment-path/catalog"
	"github.com/danielhkuo/assessment-path/models"
)

// State is the serializable form of a controller between requests
type State struct {
	SurveyID string        `json:"survey_question_id"`
	Steps    []models.Step `json:"steps"`
	View     *View         `json:"view"`
}

// State captures the controller's path and view
func (c *Controller) State() State {
	return State{
		SurveyID: c.surveyID,
		Steps:    c.path.Steps(),
		View:     c.view.clone(),
	}
}

// MarshalState encodes the controller state as JSON
func (c *Controller) MarshalState() ([]byte, error) {
	return json.Marshal(c.State())
}

// Restore rebuilds a controller from a saved state. View items are rebuilt
// from the steps if the two are not index-aligned.
func Restore(cat *catalog.Catalog, state State, saver Saver, opts ...Option) *Controller {
	c := New(cat, state.SurveyID, saver, opts...)
	c.path = NewPath(state.Steps)
	if state.View != nil {
		c.view = state.View.clone()
	}
	if c.view.Items == nil {
		c.view.Items = []PathItem{}
	}
	if !aligned(c.path, c.view) {
		c.view.Items = make([]PathItem, 0, c.path.Len())
		for i, s := range c.path.Steps() {
			c.view.addItem(PathItem{
				QuestionID:   s.QuestionID,
				QuestionText: s.QuestionText,
				Answer:       s.Answer,
				Final:        i == c.path.Len()-1 && c.view.Result != nil,
			})
		}
		c.view.Editor = -1
	}
	return c
}

// UnmarshalState decodes JSON produced by MarshalState
func UnmarshalState(data []byte) (State, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("failed to decode session state: %w", err)
	}
	return state, nil
}

func aligned(p *Path, v *View) bool {
	if p.Len() != len(v.Items) {
		return false
	}
	for i, s := range p.steps {
		if v.Items[i].QuestionID != s.QuestionID {
			return false
		}
	}
	return true
}
