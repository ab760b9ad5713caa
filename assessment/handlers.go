// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assessment

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/danielhkuo/assessment-path/catalog"
	"github.com/danielhkuo/assessment-path/models"
)

// handleOptionChoice handles a link/button choice, optionally carrying typed
// text from the form attached to the option.
func (c *Controller) handleOptionChoice(ctx context.Context, in Interaction) (Outcome, error) {
	q, err := c.interactive(in.QuestionID)
	if err != nil {
		return OutcomeRejected, err
	}
	opt, ok := q.Option(in.OptionID)
	if !ok {
		return OutcomeRejected, fmt.Errorf("%w: unknown option %q on question %s", ErrValidation, in.OptionID, in.QuestionID)
	}

	response := opt.Answer()
	if opt.TakesInput() {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return c.reject(in.QuestionID, ControlResponseInput, c.messages.InputRequired)
		}
		switch opt.ResponseType {
		case catalog.ResponseURL:
			if !validURL(text) {
				return c.reject(in.QuestionID, ControlResponseInput, c.messages.InvalidURL)
			}
		case catalog.ResponseNumerical:
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return c.reject(in.QuestionID, ControlResponseInput, c.messages.InvalidNumber)
			}
		}
		response = text
	}

	step := models.NewStep(in.QuestionID, c.catalog.Text(in.QuestionID), models.SingleAnswer(response), string(opt.ID))
	outcome, err := c.record(ctx, step, string(opt.NextQuestion), opt.FinalLabel)
	if err == nil && opt.TakesInput() {
		c.view.setControl(in.QuestionID, ControlState{Selected: []string{string(opt.ID)}, Text: response})
	}
	return outcome, err
}

// handleDropdownSelect handles a single-select dropdown choice
func (c *Controller) handleDropdownSelect(ctx context.Context, in Interaction) (Outcome, error) {
	q, err := c.interactive(in.QuestionID)
	if err != nil {
		return OutcomeRejected, err
	}
	if in.OptionID == "" {
		return c.reject(in.QuestionID, ControlSingleSelect, c.messages.SelectRequired)
	}
	opt, ok := q.Option(in.OptionID)
	if !ok {
		return c.reject(in.QuestionID, ControlSingleSelect, c.messages.SelectRequired)
	}

	next := string(opt.NextQuestion)
	if next == "" {
		next = string(q.NextQuestion)
	}
	label := opt.FinalLabel
	if label == "" {
		label = q.FinalLabel
	}

	step := models.NewStep(in.QuestionID, c.catalog.Text(in.QuestionID), models.SingleAnswer(opt.Answer()), string(opt.ID))
	outcome, err := c.record(ctx, step, next, label)
	if err == nil {
		c.view.setControl(in.QuestionID, ControlState{Selected: []string{string(opt.ID)}})
	}
	return outcome, err
}

// handleMultiSelectPick adds an option to the pending multi-select list.
// Picked options stay disabled until removed.
func (c *Controller) handleMultiSelectPick(_ context.Context, in Interaction) (Outcome, error) {
	q, err := c.interactive(in.QuestionID)
	if err != nil {
		return OutcomeRejected, err
	}
	if _, ok := q.Option(in.OptionID); !ok {
		return OutcomeNoop, nil
	}
	state := c.view.Control(in.QuestionID)
	if slices.Contains(state.Selected, in.OptionID) {
		return OutcomeNoop, nil
	}
	state.Selected = append(slices.Clone(state.Selected), in.OptionID)
	c.view.setControl(in.QuestionID, state)
	return OutcomeUpdated, nil
}

func (c *Controller) handleMultiSelectRemove(_ context.Context, in Interaction) (Outcome, error) {
	if _, err := c.interactive(in.QuestionID); err != nil {
		return OutcomeRejected, err
	}
	state := c.view.Control(in.QuestionID)
	i := slices.Index(state.Selected, in.OptionID)
	if i == -1 {
		return OutcomeNoop, nil
	}
	state.Selected = slices.Delete(slices.Clone(state.Selected), i, i+1)
	c.view.setControl(in.QuestionID, state)
	return OutcomeUpdated, nil
}

// handleMultiSelectContinue confirms the multi-select list. Explicit ids in
// the interaction replace the pending list.
func (c *Controller) handleMultiSelectContinue(ctx context.Context, in Interaction) (Outcome, error) {
	q, err := c.interactive(in.QuestionID)
	if err != nil {
		return OutcomeRejected, err
	}
	ids := in.OptionIDs
	if len(ids) == 0 {
		ids = c.view.Control(in.QuestionID).Selected
	}

	var selected, answers []string
	for _, id := range ids {
		if id == "" || slices.Contains(selected, id) {
			continue
		}
		opt, ok := q.Option(id)
		if !ok {
			continue
		}
		selected = append(selected, id)
		if text := strings.TrimSpace(opt.Answer()); text != "" {
			answers = append(answers, text)
		}
	}
	if len(selected) == 0 {
		return c.reject(in.QuestionID, ControlMultiSelect, c.messages.SelectRequired)
	}

	next := string(q.NextQuestionAfterMultiple)
	if next == "" {
		next = string(q.NextQuestion)
	}

	step := models.NewStep(in.QuestionID, c.catalog.Text(in.QuestionID), models.MultiAnswer(answers), selected...)
	outcome, err := c.record(ctx, step, next, q.FinalLabel)
	if err == nil {
		c.view.setControl(in.QuestionID, ControlState{Selected: selected})
	}
	return outcome, err
}

// handleDynamicChoice answers a question whose choices are derived from a
// previous multi-select answer. The derived text doubles as the option id.
func (c *Controller) handleDynamicChoice(ctx context.Context, in Interaction) (Outcome, error) {
	q, err := c.interactive(in.QuestionID)
	if err != nil {
		return OutcomeRejected, err
	}
	var values []string
	for _, v := range in.Values {
		if v = strings.TrimSpace(v); v != "" && !slices.Contains(values, v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 || (!q.AllowMultiple && len(values) > 1) {
		return c.reject(in.QuestionID, ControlDynamicSelect, c.messages.SelectRequired)
	}
	choices := c.DeriveChoices(q)
	for _, v := range values {
		if !slices.Contains(choices, v) {
			return c.reject(in.QuestionID, ControlDynamicSelect, c.messages.SelectRequired)
		}
	}

	var (
		answer models.Answer
		next   string
	)
	if q.AllowMultiple {
		answer = models.MultiAnswer(values)
		next = string(q.NextQuestionAfterMultiple)
		if next == "" {
			next = string(q.NextQuestion)
		}
	} else {
		answer = models.SingleAnswer(`"` + values[0] + `"`)
		next = string(q.NextQuestion)
	}

	step := models.NewStep(in.QuestionID, c.catalog.Text(in.QuestionID), answer, values...)
	return c.record(ctx, step, next, q.FinalLabel)
}

// handlePathItemClick toggles the inline editor on a path item. A negative
// index closes whatever editor is open.
func (c *Controller) handlePathItemClick(_ context.Context, in Interaction) (Outcome, error) {
	if in.ItemIndex < 0 {
		if c.view.Editor == -1 {
			return OutcomeNoop, nil
		}
		c.view.Editor = -1
		return OutcomeUpdated, nil
	}
	if !c.view.toggleEditor(in.ItemIndex) {
		return OutcomeNoop, nil
	}
	return OutcomeUpdated, nil
}

// focusControl names the control that should regain focus on a question
func (c *Controller) focusControl(questionID string) string {
	q, ok := c.catalog.Question(questionID)
	if !ok {
		return ""
	}
	switch q.Modality {
	case catalog.ModalitySingleSelect:
		return ControlSingleSelect
	case catalog.ModalityMultiSelect:
		return ControlMultiSelect
	case catalog.ModalityDynamic:
		return ControlDynamicSelect
	}
	for _, o := range q.Options {
		if o.TakesInput() {
			return ControlResponseInput
		}
	}
	return ""
}

func validURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
