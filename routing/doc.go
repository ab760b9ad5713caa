// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package routing validates the definitions submitted by the survey builder.

# Survey Definitions

A SurveyDefinition is either a flat question queue or a list of titled
sections. Validate rejects a missing version_id, empty surveys, untitled
sections, duplicate question ids and matrix questions without an item group.

# Routing Rules

A routing Definition holds rules that send the respondent to to_question
when a condition matches:

	{"to_question": 7, "condition": {"conditions": [
		{"question": 3, "operator": "==", "value": "yes"}
	]}, "priority": 1}

Conditions are compiled with expr-lang/expr against an answers map, so a
rule's condition renders as:

	answers["3"] == "yes"

Supported operators are ==, !=, >, <, in (comma separated values) and
contains. A fallback condition compiles to true. Rules are validated and
stored; they are not evaluated here.
*/
package routing
