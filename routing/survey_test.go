// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package routing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/danielhkuo/assessment-path/models"
)

func TestSurveyDefinitionValidate(t *testing.T) {
	group := models.ID("12")

	tests := []struct {
		name    string
		def     SurveyDefinition
		wantErr []error
	}{
		{
			name: "sections",
			def: SurveyDefinition{VersionID: "v1", Sections: []Section{
				{Title: "Governance", Questions: []SurveyQuestion{{ID: "1", Source: SourceBank}, {ID: "2"}}},
				{Title: "Security", Questions: []SurveyQuestion{{ID: "3", IsMatrix: true, MatrixItemGroupID: &group}}},
			}},
		},
		{
			name: "flat queue",
			def:  SurveyDefinition{VersionID: "v1", Questions: []SurveyQuestion{{ID: "1", Source: SourceCustom}}},
		},
		{
			name:    "missing version",
			def:     SurveyDefinition{Questions: []SurveyQuestion{{ID: "1"}}},
			wantErr: []error{ErrMissingVersion},
		},
		{
			name:    "no questions",
			def:     SurveyDefinition{VersionID: "v1", Sections: []Section{{Title: "Empty"}}},
			wantErr: []error{ErrEmptySurvey},
		},
		{
			name: "all problems reported",
			def: SurveyDefinition{VersionID: "v1", Sections: []Section{
				{Title: " ", Questions: []SurveyQuestion{{ID: "1"}, {ID: ""}}},
				{Title: "B", Questions: []SurveyQuestion{{ID: "1", IsMatrix: true}, {ID: "4", Source: "import"}}},
			}},
			wantErr: []error{ErrMissingTitle, ErrMissingQuestionID, ErrDuplicateQuestion, ErrMissingMatrixGroup, ErrInvalidSource},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Validate() error = %v, want it to include %v", err, want)
				}
			}
		})
	}
}

func TestSurveyDefinitionDecode(t *testing.T) {
	raw := `{"version_id": "7", "sections": [{"title": "Intro", "description": "", "questions": [
		{"id": 5, "label": "Owner?", "response_group_id": null, "response_type_id": 2, "matrix_item_group_id": null, "is_required": true, "is_matrix": false, "source": "bank"}
	]}]}`
	var def SurveyDefinition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	q := def.Sections[0].Questions[0]
	if q.ID != "5" || q.ResponseGroupID != nil || q.ResponseTypeID == nil || *q.ResponseTypeID != "2" {
		t.Errorf("unexpected question: %+v", q)
	}
	if def.QuestionCount() != 1 {
		t.Errorf("QuestionCount() = %d, want 1", def.QuestionCount())
	}
	if err := def.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
