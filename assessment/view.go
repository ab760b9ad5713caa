// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assessment

import "github.com/danielhkuo/assessment-path/models"

// PathItem is the display element rendered for one step
type PathItem struct {
	QuestionID   string        `json:"question_id"`
	QuestionText string        `json:"question_text"`
	Answer       models.Answer `json:"answer"`
	Final        bool          `json:"final"`
}

// Display is the resolved presentation of a path item's answer
type Display struct {
	Question    string   `json:"question"`
	Text        string   `json:"text,omitempty"`
	List        []string `json:"list,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Display resolves how the answer should be shown: plain text, a bulleted
// list, or the placeholder for an empty list.
func (it PathItem) Display(noSelection string) Display {
	d := Display{Question: it.QuestionText}
	switch {
	case !it.Answer.Multi:
		d.Text = it.Answer.Text
	case len(it.Answer.Items) == 0:
		d.Placeholder = noSelection
	default:
		d.List = append([]string(nil), it.Answer.Items...)
	}
	return d
}

// Cue is a visible validation marker on a control
type Cue struct {
	QuestionID string `json:"question_id"`
	Control    string `json:"control"`
	Message    string `json:"message,omitempty"`
}

// Control names used by cues and focus targets
const (
	ControlResponseInput = "response"
	ControlSingleSelect  = "single-select"
	ControlMultiSelect   = "multi-select"
	ControlDynamicSelect = "dynamic-select"
)

type Action struct {
	Label   string `json:"label"`
	Href    string `json:"href"`
	Primary bool   `json:"primary"`
}

// Result is the terminal view shown after a settled save
type Result struct {
	Status     string   `json:"status"`
	FinalLabel string   `json:"final_label,omitempty"`
	Actions    []Action `json:"actions,omitempty"`
}

// ControlState is the live state of a question's input control
type ControlState struct {
	Selected []string `json:"selected,omitempty"`
	Text     string   `json:"text,omitempty"`
}

// View is the render state: which question is visible, the path list and the
// transient cues around it. At most one question and at most one inline
// editor are visible at any time. EditorChoices are the derived choices of a
// dynamic question open in the inline editor.
type View struct {
	Active        string                  `json:"active_question"`
	SectionTitle  string                  `json:"section_title,omitempty"`
	Choices       []string                `json:"derived_choices,omitempty"`
	Items         []PathItem              `json:"path_items"`
	Editor        int                     `json:"editor_index"`
	EditorChoices []string                `json:"editor_choices,omitempty"`
	Result        *Result                 `json:"result,omitempty"`
	Cue           *Cue                    `json:"cue,omitempty"`
	Alert         string                  `json:"alert,omitempty"`
	Focus         string                  `json:"focus,omitempty"`
	Controls      map[string]ControlState `json:"controls,omitempty"`
}

// NewView returns an empty view with no active question
func NewView() *View {
	return &View{Items: []PathItem{}, Editor: -1}
}

func (v *View) addItem(item PathItem) {
	v.Items = append(v.Items, item)
}

func (v *View) truncateItems(index int) {
	if index < 0 || index >= len(v.Items) {
		return
	}
	v.Items = v.Items[:index]
	if v.Editor >= index {
		v.Editor = -1
	}
}

func (v *View) reset() {
	v.Items = []PathItem{}
	v.Editor = -1
	v.EditorChoices = nil
	v.Controls = nil
	v.hideAll()
}

// hideAll hides every question and the result view, and drops the section marker
func (v *View) hideAll() {
	v.Active = ""
	v.SectionTitle = ""
	v.Choices = nil
	v.Result = nil
}

func (v *View) clearTransient() {
	v.Cue = nil
	v.Alert = ""
	v.Focus = ""
}

// toggleEditor opens the inline editor on item index, or closes it when it is
// already open there. Opening closes any other open editor. The final item
// never opens an editor.
func (v *View) toggleEditor(index int) bool {
	if index < 0 || index >= len(v.Items) || v.Items[index].Final {
		return false
	}
	if v.Editor == index {
		v.Editor = -1
		return true
	}
	v.Editor = index
	return true
}

// EditorQuestion returns the question id edited inline, if any
func (v *View) EditorQuestion() (string, bool) {
	if v.Editor < 0 || v.Editor >= len(v.Items) {
		return "", false
	}
	return v.Items[v.Editor].QuestionID, true
}

func (v *View) setControl(questionID string, state ControlState) {
	if v.Controls == nil {
		v.Controls = make(map[string]ControlState)
	}
	v.Controls[questionID] = state
}

// Control returns the live control state for a question
func (v *View) Control(questionID string) ControlState {
	return v.Controls[questionID]
}

func (v *View) clone() *View {
	out := *v
	out.Items = append([]PathItem{}, v.Items...)
	out.Choices = append([]string(nil), v.Choices...)
	out.EditorChoices = append([]string(nil), v.EditorChoices...)
	if v.Result != nil {
		r := *v.Result
		r.Actions = append([]Action(nil), v.Result.Actions...)
		out.Result = &r
	}
	if v.Cue != nil {
		c := *v.Cue
		out.Cue = &c
	}
	if v.Controls != nil {
		out.Controls = make(map[string]ControlState, len(v.Controls))
		for k, s := range v.Controls {
			out.Controls[k] = ControlState{
				Selected: append([]string(nil), s.Selected...),
				Text:     s.Text,
			}
		}
	}
	return &out
}
