// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"context"
	"strings"
	"testing"

	"github.com/danielhkuo/assessment-path/assessment"
	"github.com/danielhkuo/assessment-path/models"
	"github.com/danielhkuo/assessment-path/testutil"
)

type stubSaver struct{}

func (stubSaver) SaveResult(context.Context, string, string, []models.Step) (models.SaveOutcome, error) {
	return models.SaveOutcome{
		Settled:     true,
		Status:      models.SaveStatusRedirect,
		RedirectURL: "https://evidence.example.com/upload?id=1&lang=en",
	}, nil
}

func dispatch(t *testing.T, c *assessment.Controller, in assessment.Interaction) {
	t.Helper()
	if _, err := c.Dispatch(context.Background(), in); err != nil {
		t.Fatalf("Dispatch %s failed: %v", in.Kind, err)
	}
}

func renderHTML(t *testing.T, c *assessment.Controller) string {
	t.Helper()
	var sb strings.Builder
	if err := Write(&sb, NewPage("session-1", c)); err != nil {
		t.Fatalf("Failed to render: %v", err)
	}
	return sb.String()
}

func TestNewPage(t *testing.T) {
	c := assessment.New(testutil.SampleCatalog(t), "survey-1", nil)
	c.Start()
	dispatch(t, c, assessment.Interaction{Kind: assessment.KindOptionChoice, QuestionID: "q1", OptionID: "1"})
	dispatch(t, c, assessment.Interaction{Kind: assessment.KindPathItemClick, ItemIndex: 0})

	p := NewPage("session-1", c)
	if p.Active == nil || string(p.Active.Question.ID) != "q2" {
		t.Fatalf("Expected q2 as the active question, got %+v", p.Active)
	}
	if p.Active.Name != assessment.ControlMultiSelect || len(p.Active.Choices) != 3 {
		t.Errorf("Expected multi-select with 3 choices, got %+v", p.Active)
	}
	if p.SectionTitle != "Infrastructure" {
		t.Errorf("Expected section Infrastructure, got %q", p.SectionTitle)
	}
	if len(p.Items) != 1 || !p.Items[0].Editing || !p.Items[0].Editable {
		t.Errorf("Unexpected items %+v", p.Items)
	}
	if p.Items[0].Display.Text != "Yes" {
		t.Errorf("Expected display text Yes, got %q", p.Items[0].Display.Text)
	}
	if ed := p.Items[0].Editor; ed == nil || string(ed.Question.ID) != "q1" || len(ed.Choices) != 4 {
		t.Errorf("Expected q1 editor with its 4 options, got %+v", ed)
	}
}

func TestWrite_InlineEditor(t *testing.T) {
	c := assessment.New(testutil.SampleCatalog(t), "survey-1", nil)
	c.Start()
	dispatch(t, c, assessment.Interaction{Kind: assessment.KindOptionChoice, QuestionID: "q1", OptionID: "1"})
	dispatch(t, c, assessment.Interaction{Kind: assessment.KindMultiSelectContinue, QuestionID: "q2", OptionIDs: []string{"21", "23"}})
	dispatch(t, c, assessment.Interaction{Kind: assessment.KindDynamicChoice, QuestionID: "q3", Values: []string{"AWS"}})

	html := renderHTML(t, c)
	if !strings.Contains(html, `<span class="answer">&#34;AWS&#34;</span>`) {
		t.Fatalf("Expected q3 answer shown before the editor opens, got:\n%s", html)
	}

	dispatch(t, c, assessment.Interaction{Kind: assessment.KindPathItemClick, ItemIndex: 2})
	html = renderHTML(t, c)

	start := strings.Index(html, `<li class="path-item editing" data-index="2"`)
	if start == -1 {
		t.Fatalf("Expected item 2 marked as editing, got:\n%s", html)
	}
	item := html[start:strings.Index(html, "</ol>")]
	for _, want := range []string{
		`<div class="inline-editor">`,
		`<select name="dynamic-select" data-question="q3">`,
		`<option value="AWS">AWS</option>`,
		`<option value="GCP">GCP</option>`,
	} {
		if !strings.Contains(item, want) {
			t.Errorf("Expected editor to contain %q, got:\n%s", want, item)
		}
	}
	if strings.Contains(item, `class="answer"`) {
		t.Error("Expected display text hidden while editing")
	}

	// The active question q4 keeps its own control outside the path list
	if !strings.Contains(html, `id="question-q4"`) || strings.Count(html, `name="dynamic-select"`) != 1 {
		t.Error("Expected one dynamic select, inside the editor only")
	}
}

func TestWrite_SelectedOptions(t *testing.T) {
	t.Run("multi-select shows picked option text", func(t *testing.T) {
		c := assessment.New(testutil.SampleCatalog(t), "survey-1", nil)
		c.Start()
		dispatch(t, c, assessment.Interaction{Kind: assessment.KindOptionChoice, QuestionID: "q1", OptionID: "1"})
		dispatch(t, c, assessment.Interaction{Kind: assessment.KindMultiSelectPick, QuestionID: "q2", OptionID: "23"})
		dispatch(t, c, assessment.Interaction{Kind: assessment.KindMultiSelectPick, QuestionID: "q2", OptionID: "21"})

		html := renderHTML(t, c)
		for _, want := range []string{
			`<ul class="selected"><li data-option="23">GCP</li><li data-option="21">AWS</li></ul>`,
			`<option value="21" disabled>AWS</option>`,
			`<option value="22">Azure</option>`,
		} {
			if !strings.Contains(html, want) {
				t.Errorf("Expected page to contain %q, got:\n%s", want, html)
			}
		}
	})

	t.Run("hydrated single-select is selected", func(t *testing.T) {
		c := assessment.New(testutil.SampleCatalog(t), "survey-1", nil)
		c.Hydrate([]models.SavedStep{{
			QuestionID: "q5",
			OptionID:   models.IDList{IDs: []string{"52"}, Present: true},
			Answer:     models.SingleAnswer("High"),
		}})
		c.ShowQuestion("q5")

		html := renderHTML(t, c)
		if !strings.Contains(html, `<option value="52" selected>High</option>`) {
			t.Errorf("Expected saved option selected, got:\n%s", html)
		}
		if !strings.Contains(html, `<option value="51">Low</option>`) {
			t.Error("Expected other option unselected")
		}
	})
}

func TestWrite(t *testing.T) {
	c := assessment.New(testutil.SampleCatalog(t), "survey-1", nil)
	c.Start()

	html := renderHTML(t, c)
	for _, want := range []string{`data-session="session-1"`, `id="question-q1"`, "Governance", `name="response"`} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}

	dispatch(t, c, assessment.Interaction{Kind: assessment.KindOptionChoice, QuestionID: "q1", OptionID: "1"})
	dispatch(t, c, assessment.Interaction{Kind: assessment.KindMultiSelectContinue, QuestionID: "q2", OptionIDs: []string{"21", "22"}})

	html = renderHTML(t, c)
	for _, want := range []string{"1st", "2nd", "<li>AWS</li>", "<li>Azure</li>", `name="dynamic-select"`, `<option value="AWS">AWS</option>`} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}
}

func TestWrite_Placeholder(t *testing.T) {
	c := assessment.New(testutil.SampleCatalog(t), "survey-1", nil)
	c.Hydrate([]models.SavedStep{{
		QuestionID: "q2",
		OptionID:   models.IDList{IDs: []string{}, List: true, Present: true},
		Answer:     models.MultiAnswer(nil),
	}})

	html := renderHTML(t, c)
	if !strings.Contains(html, "<em>No selection made</em>") {
		t.Errorf("Expected no-selection placeholder, got:\n%s", html)
	}
}

func TestWrite_Result(t *testing.T) {
	c := assessment.New(testutil.SampleCatalog(t), "survey-1", stubSaver{}, assessment.WithBackLink("/home", "Home"))
	c.Start()
	dispatch(t, c, assessment.Interaction{Kind: assessment.KindOptionChoice, QuestionID: "q1", OptionID: "2"})

	html := renderHTML(t, c)
	for _, want := range []string{
		`data-status="redirect"`,
		"<h2>Not compliant</h2>",
		`href="https://evidence.example.com/upload?id=1&amp;lang=en" class="primary"`,
		`href="/home"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}
	if strings.Contains(html, `class="question"`) {
		t.Error("Expected no question section on the result view")
	}
	if strings.Contains(html, `data-editable="true"`) {
		t.Error("Expected final item not to be editable")
	}
}
