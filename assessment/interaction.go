// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assessment

import "fmt"

// Kind classifies a user interaction. Each kind maps to exactly one handler.
type Kind int

const (
	KindUnknown Kind = iota
	KindOptionChoice
	KindDropdownSelect
	KindMultiSelectPick
	KindMultiSelectRemove
	KindMultiSelectContinue
	KindDynamicChoice
	KindPathItemClick
)

var kindNames = map[Kind]string{
	KindOptionChoice:        "option_choice",
	KindDropdownSelect:      "dropdown_select",
	KindMultiSelectPick:     "multi_select_pick",
	KindMultiSelectRemove:   "multi_select_remove",
	KindMultiSelectContinue: "multi_select_continue",
	KindDynamicChoice:       "dynamic_choice",
	KindPathItemClick:       "path_item_click",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps the wire name of an interaction to its Kind
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown interaction kind %q", name)
}

// Interaction is one classified user event.
//
// OptionID is used by option_choice, dropdown_select and the multi-select
// pick/remove kinds. OptionIDs optionally overrides the pending multi-select
// list on continue. Values carries chosen derived choices and ItemIndex the
// clicked path item.
type Interaction struct {
	Kind       Kind
	QuestionID string
	OptionID   string
	OptionIDs  []string
	Text       string
	Values     []string
	ItemIndex  int
}

// Outcome summarises what an interaction did
type Outcome int

const (
	OutcomeNoop Outcome = iota
	OutcomeAdvanced
	OutcomeFinalized
	OutcomeRejected
	OutcomeConfigError
	OutcomeSaveFailed
	OutcomeUpdated
)

var outcomeNames = map[Outcome]string{
	OutcomeNoop:        "noop",
	OutcomeAdvanced:    "advanced",
	OutcomeFinalized:   "finalized",
	OutcomeRejected:    "rejected",
	OutcomeConfigError: "config_error",
	OutcomeSaveFailed:  "save_failed",
	OutcomeUpdated:     "updated",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}
