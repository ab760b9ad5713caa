// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/assessment-path/assessment"
	"github.com/danielhkuo/assessment-path/catalog"
)

//go:embed templates/*.html
var files embed.FS

var page = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"ordinal": func(i int) string { return humanize.Ordinal(i + 1) },
}).ParseFS(files, "templates/page.html"))

// Choice is one entry of a control. Selected marks the current single or
// dynamic selection; Disabled marks an option already picked in a
// multi-select.
type Choice struct {
	ID       string
	Text     string
	Selected bool
	Disabled bool
	Input    bool
}

// Control is a question's input control, rendered for the active question
// or cloned into the inline editor of a path item.
type Control struct {
	Question *catalog.Question
	// Name is the select control name; empty means option buttons
	Name     string
	Multiple bool
	Choices  []Choice
	// Picked is the pending multi-select list, as option text
	Picked []Choice
	Text   string
	Cue    *assessment.Cue
}

// Item is a path item ready for display. Editor is set while the inline
// editor is open on it.
type Item struct {
	Index    int
	Display  assessment.Display
	Editable bool
	Editing  bool
	Editor   *Control
}

// Page is the data rendered into the assessment page
type Page struct {
	SessionID    string
	SurveyID     string
	SectionTitle string
	Active       *Control
	Items        []Item
	Result       *assessment.Result
	Alert        string
	Focus        string
}

// NewPage resolves a controller's view into page data
func NewPage(sessionID string, c *assessment.Controller) Page {
	v := c.View()
	cat := c.Catalog()
	p := Page{
		SessionID:    sessionID,
		SurveyID:     c.SurveyID(),
		SectionTitle: v.SectionTitle,
		Result:       v.Result,
		Alert:        v.Alert,
		Focus:        v.Focus,
	}
	if q, ok := cat.Question(v.Active); ok {
		p.Active = newControl(cat, q, v.Choices, v.Control(v.Active), v.Cue)
	}
	noSelection := c.Messages().NoSelection
	for i, it := range v.Items {
		item := Item{
			Index:    i,
			Display:  it.Display(noSelection),
			Editable: !it.Final,
			Editing:  v.Editor == i,
		}
		if item.Editing {
			if q, ok := cat.Question(it.QuestionID); ok {
				item.Editor = newControl(cat, q, v.EditorChoices, v.Control(it.QuestionID), v.Cue)
			}
		}
		p.Items = append(p.Items, item)
	}
	return p
}

func newControl(cat *catalog.Catalog, q *catalog.Question, derived []string, state assessment.ControlState, cue *assessment.Cue) *Control {
	ctl := &Control{Question: q, Text: state.Text}
	if cue != nil && cue.QuestionID == string(q.ID) {
		ctl.Cue = cue
	}
	selected := func(id string) bool { return slices.Contains(state.Selected, id) }

	switch q.Modality {
	case catalog.ModalityDynamic:
		ctl.Name = assessment.ControlDynamicSelect
		ctl.Multiple = q.AllowMultiple
		for _, text := range derived {
			ctl.Choices = append(ctl.Choices, Choice{ID: text, Text: text, Selected: selected(text)})
		}
	case catalog.ModalitySingleSelect:
		ctl.Name = assessment.ControlSingleSelect
		for _, o := range q.Options {
			ctl.Choices = append(ctl.Choices, Choice{ID: string(o.ID), Text: o.Text, Selected: selected(string(o.ID))})
		}
	case catalog.ModalityMultiSelect:
		ctl.Name = assessment.ControlMultiSelect
		for _, o := range q.Options {
			ctl.Choices = append(ctl.Choices, Choice{ID: string(o.ID), Text: o.Text, Disabled: selected(string(o.ID))})
		}
		for _, id := range state.Selected {
			text, ok := cat.OptionText(string(q.ID), id)
			if !ok {
				text = id
			}
			ctl.Picked = append(ctl.Picked, Choice{ID: id, Text: text})
		}
	default:
		for _, o := range q.Options {
			ctl.Choices = append(ctl.Choices, Choice{ID: string(o.ID), Text: o.Text, Input: o.TakesInput()})
		}
	}
	return ctl
}

// Write renders the page as HTML
func Write(w io.Writer, p Page) error {
	if err := page.Execute(w, p); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
