// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assessment

import (
	"log/slog"

	"github.com/danielhkuo/assessment-path/catalog"
	"github.com/danielhkuo/assessment-path/models"
)

// Hydrate rebuilds the path and view from a saved path. Display answers are
// resolved through the catalog, falling back to the stored answer text, and
// each question's control is primed with the saved selection. It ends with no
// active question and reports whether any step was replayed.
func (c *Controller) Hydrate(saved []models.SavedStep) bool {
	if len(saved) == 0 {
		return false
	}

	c.path.Reset()
	c.view.reset()

	hydrated := 0
	for i, s := range saved {
		questionID := string(s.QuestionID)
		if questionID == "" || !s.OptionID.Present {
			slog.Warn("skipping invalid step in saved path", "index", i, "question_id", questionID)
			continue
		}

		var answer models.Answer
		if s.OptionID.List && c.listAnswer(questionID, s.Answer) {
			savedTexts := s.Answer.Values()
			items := make([]string, len(s.OptionID.IDs))
			for j, id := range s.OptionID.IDs {
				if text, ok := c.catalog.OptionText(questionID, id); ok {
					items[j] = text
				} else if j < len(savedTexts) {
					items[j] = savedTexts[j]
				}
			}
			answer = models.MultiAnswer(items)
		} else {
			answer = s.Answer
			if len(s.OptionID.IDs) > 0 && !c.typedAnswer(questionID, s.OptionID.IDs[0]) {
				if text, ok := c.catalog.OptionText(questionID, s.OptionID.IDs[0]); ok {
					answer = models.SingleAnswer(text)
				}
			}
		}

		step := models.NewStep(questionID, c.catalog.Text(questionID), answer, s.OptionID.IDs...)
		c.appendStep(step, false)
		c.primeControl(questionID, s)
		hydrated++
	}

	c.ShowQuestion("")
	return hydrated > 0
}

// listAnswer reports whether a saved step is shown as a list: the question
// collects several values, or the stored answer already is a list.
func (c *Controller) listAnswer(questionID string, saved models.Answer) bool {
	if saved.Multi {
		return true
	}
	q, ok := c.catalog.Question(questionID)
	if !ok {
		return false
	}
	return q.Modality == catalog.ModalityMultiSelect || (q.Modality == catalog.ModalityDynamic && q.AllowMultiple)
}

// typedAnswer reports whether the option records typed text rather than its label
func (c *Controller) typedAnswer(questionID, optionID string) bool {
	q, ok := c.catalog.Question(questionID)
	if !ok {
		return false
	}
	opt, ok := q.Option(optionID)
	return ok && opt.TakesInput()
}

// primeControl pushes a saved value into the question's live control so a
// later edit starts from it.
func (c *Controller) primeControl(questionID string, s models.SavedStep) {
	q, ok := c.catalog.Question(questionID)
	if !ok {
		return
	}
	ids := nonEmpty(s.OptionID.IDs)
	switch q.Modality {
	case catalog.ModalityMultiSelect:
		c.view.setControl(questionID, ControlState{Selected: ids})
	case catalog.ModalitySingleSelect:
		if len(ids) > 0 {
			c.view.setControl(questionID, ControlState{Selected: ids[:1]})
		}
	default:
		if len(ids) > 0 && c.typedAnswer(questionID, ids[0]) && !s.Answer.Multi && s.Answer.Text != "" {
			c.view.setControl(questionID, ControlState{Selected: ids[:1], Text: s.Answer.Text})
		}
	}
}

// ResumePoint returns the question to show after hydration: the declared
// next question of the last step, or the first question for an empty path.
// It returns "" when the last step has no onward transition.
func (c *Controller) ResumePoint() string {
	last, ok := c.path.Last()
	if !ok {
		return c.catalog.FirstQuestion()
	}
	q, ok := c.catalog.Question(last.QuestionID)
	if !ok {
		return ""
	}
	switch q.Modality {
	case catalog.ModalityMultiSelect:
		if q.NextQuestionAfterMultiple != "" {
			return string(q.NextQuestionAfterMultiple)
		}
		return string(q.NextQuestion)
	case catalog.ModalityDynamic:
		if q.AllowMultiple && q.NextQuestionAfterMultiple != "" {
			return string(q.NextQuestionAfterMultiple)
		}
		return string(q.NextQuestion)
	}
	if len(last.OptionID) > 0 {
		if opt, ok := q.Option(last.OptionID[0]); ok && opt.NextQuestion != "" {
			return string(opt.NextQuestion)
		}
	}
	return string(q.NextQuestion)
}

// Resume hydrates saved and shows the resume point, if there is one
func (c *Controller) Resume(saved []models.SavedStep) bool {
	if !c.Hydrate(saved) {
		return false
	}
	if next := c.ResumePoint(); next != "" && c.path.FindIndexByQuestionID(next) == -1 {
		c.ShowQuestion(next)
	}
	return true
}

func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
