// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/assessment-path/catalog"
	"github.com/danielhkuo/assessment-path/models"
)

// Saver submits a finished path. It is implemented by bridge.Client.
type Saver interface {
	SaveResult(ctx context.Context, finalLabel, surveyID string, path []models.Step) (models.SaveOutcome, error)
}

// Rewinder tells the server to drop state at and after a question
type Rewinder interface {
	Rewind(ctx context.Context, questionID string) error
}

// Messages are the user-facing strings the controller places in the view
type Messages struct {
	NoSelection    string
	SelectRequired string
	InputRequired  string
	InvalidURL     string
	InvalidNumber  string
	SaveFailed     string
	SaveError      string
	UploadEvidence string
	Back           string
}

// DefaultMessages returns the built-in English messages
func DefaultMessages() Messages {
	return Messages{
		NoSelection:    "No selection made",
		SelectRequired: "Please select at least one option.",
		InputRequired:  "This field is required.",
		InvalidURL:     "Please enter a valid URL.",
		InvalidNumber:  "Please enter a number.",
		SaveFailed:     "Could not save the result. Please try again.",
		SaveError:      "An error occurred while saving.",
		UploadEvidence: "Upload required evidence",
		Back:           "Back",
	}
}

type Option func(*Controller)

// WithRewinder notifies r whenever a re-answer invalidates later steps
func WithRewinder(r Rewinder) Option {
	return func(c *Controller) { c.rewinder = r }
}

func WithMessages(m Messages) Option {
	return func(c *Controller) { c.messages = m }
}

// WithBackLink configures the secondary action shown next to the upload link
func WithBackLink(href, text string) Option {
	return func(c *Controller) {
		c.backHref = href
		c.backText = text
	}
}

type handlerFunc func(ctx context.Context, in Interaction) (Outcome, error)

// Controller is the per-session application state: the path, the view and
// the collaborators every handler needs. It is not safe for concurrent use;
// callers serialize interactions for a session.
type Controller struct {
	catalog  *catalog.Catalog
	surveyID string
	path     *Path
	view     *View
	saver    Saver
	rewinder Rewinder
	messages Messages
	backHref string
	backText string
	handlers map[Kind]handlerFunc
}

// New builds a controller with an empty path and no active question
func New(cat *catalog.Catalog, surveyID string, saver Saver, opts ...Option) *Controller {
	if cat == nil {
		cat = catalog.Empty()
	}
	c := &Controller{
		catalog:  cat,
		surveyID: surveyID,
		path:     &Path{},
		view:     NewView(),
		saver:    saver,
		messages: DefaultMessages(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handlers = map[Kind]handlerFunc{
		KindOptionChoice:        c.handleOptionChoice,
		KindDropdownSelect:      c.handleDropdownSelect,
		KindMultiSelectPick:     c.handleMultiSelectPick,
		KindMultiSelectRemove:   c.handleMultiSelectRemove,
		KindMultiSelectContinue: c.handleMultiSelectContinue,
		KindDynamicChoice:       c.handleDynamicChoice,
		KindPathItemClick:       c.handlePathItemClick,
	}
	return c
}

func (c *Controller) Path() *Path { return c.path }

func (c *Controller) View() *View { return c.view }

func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

func (c *Controller) SurveyID() string { return c.surveyID }

func (c *Controller) Messages() Messages { return c.messages }

// Start shows the first question of a fresh session
func (c *Controller) Start() bool {
	return c.ShowQuestion(c.catalog.FirstQuestion())
}

// Dispatch routes an interaction to its handler
func (c *Controller) Dispatch(ctx context.Context, in Interaction) (Outcome, error) {
	h, ok := c.handlers[in.Kind]
	if !ok {
		return OutcomeNoop, fmt.Errorf("%w: %s", ErrUnknownInteraction, in.Kind)
	}
	c.view.clearTransient()
	outcome, err := h(ctx, in)
	c.syncEditor()
	return outcome, err
}

// syncEditor derives the choices of a dynamic question open in the inline
// editor. Any other editor state leaves them empty.
func (c *Controller) syncEditor() {
	c.view.EditorChoices = nil
	id, ok := c.view.EditorQuestion()
	if !ok {
		return
	}
	if q, ok := c.catalog.Question(id); ok && q.Modality == catalog.ModalityDynamic {
		c.view.EditorChoices = c.DeriveChoices(q)
	}
}

// ShowQuestion hides every question and the result view, then shows id.
// An empty id means "no active question". Unknown ids leave everything hidden.
func (c *Controller) ShowQuestion(id string) bool {
	c.view.hideAll()
	if id == "" {
		return false
	}
	q, ok := c.catalog.Question(id)
	if !ok {
		slog.Debug("question not found", "question_id", id)
		return false
	}
	if q.Modality == catalog.ModalityDynamic {
		c.view.Choices = c.DeriveChoices(q)
	}
	if name := strings.TrimSpace(q.Section); q.SectionStarter && name != "" {
		c.view.SectionTitle = name
	}
	c.view.Active = id
	return true
}

// interactive resolves a question that may currently be answered: the
// visible one, or the one open in the inline editor.
func (c *Controller) interactive(questionID string) (*catalog.Question, error) {
	q, ok := c.catalog.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown question %q", ErrValidation, questionID)
	}
	if c.view.Active == questionID {
		return q, nil
	}
	if editing, ok := c.view.EditorQuestion(); ok && editing == questionID {
		return q, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotInteractive, questionID)
}

// reject records a validation cue without touching the path
func (c *Controller) reject(questionID, control, message string) (Outcome, error) {
	c.view.Cue = &Cue{QuestionID: questionID, Control: control, Message: message}
	c.view.Focus = control
	return OutcomeRejected, fmt.Errorf("%w: %s on question %s", ErrValidation, control, questionID)
}

// invalidate truncates the path and its view items from the step recorded
// for questionID, in one operation.
func (c *Controller) invalidate(ctx context.Context, questionID string) {
	i := c.path.FindIndexByQuestionID(questionID)
	if i == -1 {
		return
	}
	c.path.TruncateFrom(i)
	c.view.truncateItems(i)
	if c.rewinder != nil {
		if err := c.rewinder.Rewind(ctx, questionID); err != nil {
			slog.Warn("rewind failed", "question_id", questionID, "error", err)
		}
	}
}

func (c *Controller) appendStep(step models.Step, final bool) {
	c.path.Append(step)
	c.view.addItem(PathItem{
		QuestionID:   step.QuestionID,
		QuestionText: step.QuestionText,
		Answer:       step.Answer,
		Final:        final,
	})
}

// record applies a valid answer: invalidate, append, then advance or finalize.
// A missing transition is a configuration error and nothing is applied.
func (c *Controller) record(ctx context.Context, step models.Step, next, finalLabel string) (Outcome, error) {
	if next != "" {
		c.invalidate(ctx, step.QuestionID)
		c.appendStep(step, false)
		c.ShowQuestion(next)
		return OutcomeAdvanced, nil
	}
	if finalLabel == "" {
		slog.Error("path configuration error: no next question and no final label",
			"question_id", step.QuestionID,
			"option_ids", step.OptionID,
		)
		return OutcomeConfigError, fmt.Errorf("%w: question %s option %v has no next question and no final label",
			ErrConfiguration, step.QuestionID, step.OptionID)
	}
	return c.finalize(ctx, step, finalLabel)
}

// finalize submits the candidate path and commits it only once the save
// settles. On failure the committed path and view items are untouched and
// the question is shown again with focus restored.
func (c *Controller) finalize(ctx context.Context, step models.Step, finalLabel string) (Outcome, error) {
	candidate := c.path.Clone()
	if i := candidate.FindIndexByQuestionID(step.QuestionID); i != -1 {
		candidate.TruncateFrom(i)
	}
	candidate.Append(step)

	var (
		outcome models.SaveOutcome
		err     error
	)
	if c.saver == nil {
		err = errors.New("no save endpoint configured")
	} else {
		outcome, err = c.saver.SaveResult(ctx, finalLabel, c.surveyID, candidate.Steps())
	}
	if err != nil || !outcome.Settled {
		message := outcome.Message
		switch {
		case message != "":
		case err == nil && outcome.Status == models.SaveStatusError:
			message = c.messages.SaveError
		default:
			message = c.messages.SaveFailed
		}
		c.ShowQuestion(step.QuestionID)
		c.view.Alert = message
		c.view.Focus = c.focusControl(step.QuestionID)
		slog.Warn("final save failed", "question_id", step.QuestionID, "final_label", finalLabel, "error", err)
		if err == nil {
			err = fmt.Errorf("server returned status %q", outcome.Status)
		}
		return OutcomeSaveFailed, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	c.invalidate(ctx, step.QuestionID)
	c.appendStep(step, true)
	c.showResult(finalLabel, outcome)
	return OutcomeFinalized, nil
}

func (c *Controller) showResult(finalLabel string, outcome models.SaveOutcome) {
	c.view.hideAll()
	label := outcome.FinalLabel
	if label == "" {
		label = finalLabel
	}
	result := &Result{Status: outcome.Status, FinalLabel: strings.TrimSpace(label)}
	if outcome.Status == models.SaveStatusRedirect && outcome.RedirectURL != "" {
		result.Actions = append(result.Actions, Action{
			Label:   c.messages.UploadEvidence,
			Href:    outcome.RedirectURL,
			Primary: true,
		})
		if c.backHref != "" && c.backHref != "#" {
			text := c.backText
			if text == "" {
				text = c.messages.Back
			}
			result.Actions = append(result.Actions, Action{Label: text, Href: c.backHref})
		}
	}
	c.view.Result = result
}
