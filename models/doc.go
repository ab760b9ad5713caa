// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Step: one answered question in the assessment path (questionId,
    question, answer, optionId). optionId is always a list.
  - Answer: a single text or an ordered list of texts. It encodes as a
    JSON string or a JSON array.
  - SavedStep: a step as stored by an earlier save, used for hydration.
  - SaveOutcome: the interpreted response of the save endpoint.

# Lenient Decoding

Bootstrap and saved data emit ids as numbers or strings, and a saved optionId
may be a scalar or a list. ID and IDList accept both:

	var s models.SavedStep
	json.Unmarshal([]byte(`{"questionId": 4, "optionId": 7, "answer": "Yes"}`), &s)
	// s.QuestionID == "4", s.OptionID.IDs == []string{"7"}, s.OptionID.List == false

# Request Types

  - SaveRequest: final_label, survey_question_id, assessment_path
  - RewindRequest: question_id
  - NextQuestionRequest: question_id, option_ids
  - StartSessionRequest: survey_question_id, resume
  - InteractionRequest: kind, question_id, option_id, option_ids, text,
    values, item_index

# Response Types

  - SaveResponse: status, url, final_label, message
  - StartSessionResponse: session_id, hydrated, view
  - SessionResponse: session_id, survey_question_id, version, steps, view
  - InteractionResponse: outcome, message, view
  - ListResultsResponse: results
  - DefinitionSavedResponse: version_id, message
  - ErrorResponse: error, message

# Constants

Save statuses:

	SaveStatusSuccess  = "success"
	SaveStatusRedirect = "redirect"
	SaveStatusError    = "error"
*/
package models
