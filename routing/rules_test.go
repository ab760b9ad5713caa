// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package routing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/expr-lang/expr"
)

func TestExpression(t *testing.T) {
	tests := []struct {
		name      string
		condition Condition
		want      string
		wantErr   error
	}{
		{
			name:      "fallback",
			condition: Condition{Fallback: true},
			want:      "true",
		},
		{
			name:      "string equality",
			condition: Condition{Conditions: []Clause{{Question: "q1", Operator: "==", Value: "yes"}}},
			want:      `answers["q1"] == "yes"`,
		},
		{
			name:      "numeric comparison",
			condition: Condition{Conditions: []Clause{{Question: "q2", Operator: ">", Value: "3"}}},
			want:      `answers["q2"] > 3`,
		},
		{
			name:      "in list",
			condition: Condition{Conditions: []Clause{{Question: "q3", Operator: "in", Value: "a, b,2"}}},
			want:      `answers["q3"] in ["a", "b", 2]`,
		},
		{
			name:      "contains",
			condition: Condition{Conditions: []Clause{{Question: "q4", Operator: "contains", Value: "cloud"}}},
			want:      `string(answers["q4"]) contains "cloud"`,
		},
		{
			name: "conjunction",
			condition: Condition{Conditions: []Clause{
				{Question: "q1", Operator: "!=", Value: "no"},
				{Question: "q2", Operator: "<", Value: "10"},
			}},
			want: `answers["q1"] != "no" && answers["q2"] < 10`,
		},
		{
			name:      "values that only look numeric stay quoted",
			condition: Condition{Conditions: []Clause{{Question: "q1", Operator: "==", Value: "NaN"}}},
			want:      `answers["q1"] == "NaN"`,
		},
		{
			name:      "no clauses",
			condition: Condition{},
			wantErr:   ErrEmptyCondition,
		},
		{
			name:      "invalid operator",
			condition: Condition{Conditions: []Clause{{Question: "q1", Operator: "~=", Value: "x"}}},
			wantErr:   ErrInvalidOperator,
		},
		{
			name:      "clause without question",
			condition: Condition{Conditions: []Clause{{Operator: "==", Value: "x"}}},
			wantErr:   ErrUnknownQuestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expression(tt.condition)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expression() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Expression() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCompileAndRun(t *testing.T) {
	program, err := Compile(Condition{Conditions: []Clause{
		{Question: "q1", Operator: "==", Value: "yes"},
		{Question: "q3", Operator: "in", Value: "a,b"},
	}})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	tests := []struct {
		name    string
		answers map[string]any
		want    bool
	}{
		{"both match", map[string]any{"q1": "yes", "q3": "b"}, true},
		{"first fails", map[string]any{"q1": "no", "q3": "a"}, false},
		{"second fails", map[string]any{"q1": "yes", "q3": "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := expr.Run(program, map[string]any{"answers": tt.answers})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if out != tt.want {
				t.Errorf("Run() = %v, want %v", out, tt.want)
			}
		})
	}
}

func TestDefinitionValidate(t *testing.T) {
	known := func(id string) bool {
		return id == "1" || id == "2" || id == "3"
	}
	clause := func(q string) Condition {
		return Condition{Conditions: []Clause{{Question: "1", Operator: "==", Value: q}}}
	}

	tests := []struct {
		name    string
		def     Definition
		wantErr []error
	}{
		{
			name: "valid rules",
			def: Definition{VersionID: "v1", Rules: []Rule{
				{ToQuestion: "2", Condition: clause("yes"), Priority: 1},
				{ToQuestion: "3", Condition: Condition{Fallback: true}, Priority: 2},
			}},
		},
		{
			name:    "missing version",
			def:     Definition{Rules: []Rule{{ToQuestion: "2", Condition: clause("yes")}}},
			wantErr: []error{ErrMissingVersion},
		},
		{
			name:    "missing target",
			def:     Definition{VersionID: "v1", Rules: []Rule{{Condition: clause("yes")}}},
			wantErr: []error{ErrMissingTarget},
		},
		{
			name:    "unknown target",
			def:     Definition{VersionID: "v1", Rules: []Rule{{ToQuestion: "9", Condition: clause("yes")}}},
			wantErr: []error{ErrUnknownQuestion},
		},
		{
			name: "duplicate connection and bad operator reported together",
			def: Definition{VersionID: "v1", Rules: []Rule{
				{ToQuestion: "2", Condition: clause("yes")},
				{ToQuestion: "2", Condition: clause("no")},
				{ToQuestion: "3", Condition: Condition{Conditions: []Clause{{Question: "2", Operator: "like", Value: "x"}}}},
			}},
			wantErr: []error{ErrDuplicateRule, ErrInvalidOperator},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate(known)
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

func TestDefinitionValidate_SelfRoute(t *testing.T) {
	def := Definition{VersionID: "v1", Rules: []Rule{{
		ToQuestion: "1",
		Condition:  Condition{Conditions: []Clause{{Question: "1", Operator: "==", Value: "x"}}},
	}}}
	if err := def.Validate(nil); err == nil {
		t.Error("expected error for a rule routing a question to itself")
	}
}

func TestDefinitionDecode(t *testing.T) {
	raw := `{
		"version_id": 4,
		"layout": {"1": {"x": 10, "y": 20}},
		"rules": [
			{"to_question": 2, "condition": {"conditions": [{"question": 1, "operator": "==", "value": "yes"}]}, "priority": 1, "description": "yes path"},
			{"to_question": "3", "condition": {"fallback": true}, "priority": 2}
		]
	}`
	var def Definition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if def.VersionID != "4" {
		t.Errorf("VersionID = %q, want 4", def.VersionID)
	}
	if len(def.Rules) != 2 || def.Rules[0].ToQuestion != "2" || def.Rules[0].Condition.Conditions[0].Question != "1" {
		t.Fatalf("unexpected rules: %+v", def.Rules)
	}
	if !def.Rules[1].Condition.Fallback {
		t.Error("expected second rule to be a fallback")
	}
	if def.Layout["1"].Y != 20 {
		t.Errorf("Layout y = %v, want 20", def.Layout["1"].Y)
	}
	if err := def.Validate(nil); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
