// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package assessment implements the assessment path controller.

# Path

A Path is the ordered list of answered steps. Re-answering a question
truncates the path from that question's step onward before the new step is
appended, so a question id appears at most once:

	i := path.FindIndexByQuestionID("q1")
	if i != -1 {
		path.TruncateFrom(i)
	}
	path.Append(step)

# Controller

A Controller owns one session's path, view and collaborators. It is built
once per session and passed to whatever serves the session:

	c := assessment.New(cat, surveyID, bridgeClient, assessment.WithRewinder(bridgeClient))
	c.Start()

Interactions are classified into a Kind and dispatched through a table:

	outcome, err := c.Dispatch(ctx, assessment.Interaction{
		Kind:       assessment.KindDropdownSelect,
		QuestionID: "q1",
		OptionID:   "a",
	})

Errors wrap ErrValidation (input missing or malformed, nothing changed),
ErrConfiguration (no next question and no final label) or ErrPersistence
(the final save did not settle, nothing committed).

# Finalization

When a question has no next question but declares a final label, the
candidate path is sent through the Saver. The step is committed and the
result view shown only when the save settles.

# Hydration

Hydrate replays a saved path into an empty controller and leaves no question
active. Resume additionally shows the declared next question of the last
step.
*/
package assessment
