// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package routing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/danielhkuo/assessment-path/models"
)

var (
	ErrInvalidOperator = errors.New("invalid operator")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrEmptyCondition  = errors.New("condition has no clauses")
	ErrMissingTarget   = errors.New("rule has no target question")
	ErrDuplicateRule   = errors.New("duplicate connection")
	ErrMissingVersion  = errors.New("version_id is required")
)

// Supported comparison operators
const (
	OpEqual    = "=="
	OpNotEqual = "!="
	OpGreater  = ">"
	OpLess     = "<"
	OpIn       = "in"
	OpContains = "contains"
)

// Clause compares one prior question's value
type Clause struct {
	Question models.ID `json:"question"`
	Operator string    `json:"operator"`
	Value    string    `json:"value"`
}

// Condition is either a fallback (always matches) or a conjunction of clauses
type Condition struct {
	Fallback   bool     `json:"fallback,omitempty"`
	Conditions []Clause `json:"conditions,omitempty"`
}

// Source returns the question the condition reads first, "" for fallbacks
func (c Condition) Source() string {
	if c.Fallback {
		return ""
	}
	for _, cl := range c.Conditions {
		if cl.Question != "" {
			return string(cl.Question)
		}
	}
	return ""
}

type Rule struct {
	ToQuestion  models.ID `json:"to_question"`
	Condition   Condition `json:"condition"`
	Priority    int       `json:"priority"`
	Description string    `json:"description"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Definition is the routing-rule payload submitted by the builder
type Definition struct {
	VersionID models.ID           `json:"version_id"`
	Layout    map[string]Position `json:"layout,omitempty"`
	Rules     []Rule              `json:"rules"`
}

// env is the compile-time shape of the values a condition can read
var env = map[string]any{
	"answers": map[string]any{},
}

// Expression renders a condition as an expr-lang boolean expression over
// answers, e.g. answers["q1"] == "yes" && answers["q2"] > 3.
func Expression(c Condition) (string, error) {
	if c.Fallback {
		return "true", nil
	}
	if len(c.Conditions) == 0 {
		return "", ErrEmptyCondition
	}
	parts := make([]string, 0, len(c.Conditions))
	for i, cl := range c.Conditions {
		if cl.Question == "" {
			return "", fmt.Errorf("clause %d: %w", i, ErrUnknownQuestion)
		}
		ref := fmt.Sprintf("answers[%s]", strconv.Quote(string(cl.Question)))
		op := strings.TrimSpace(cl.Operator)
		switch op {
		case OpEqual, OpNotEqual, OpGreater, OpLess:
			parts = append(parts, fmt.Sprintf("%s %s %s", ref, op, literal(cl.Value)))
		case OpContains:
			parts = append(parts, fmt.Sprintf("string(%s) contains %s", ref, strconv.Quote(cl.Value)))
		case OpIn:
			items := strings.Split(cl.Value, ",")
			lits := make([]string, 0, len(items))
			for _, it := range items {
				lits = append(lits, literal(strings.TrimSpace(it)))
			}
			parts = append(parts, fmt.Sprintf("%s in [%s]", ref, strings.Join(lits, ", ")))
		default:
			return "", fmt.Errorf("clause %d: %w %q", i, ErrInvalidOperator, cl.Operator)
		}
	}
	return strings.Join(parts, " && "), nil
}

// Compile turns a condition into a boolean expr program
func Compile(c Condition) (*vm.Program, error) {
	src, err := Expression(c)
	if err != nil {
		return nil, err
	}
	program, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile %q: %w", src, err)
	}
	return program, nil
}

// Validate checks every rule. known reports whether a question id exists;
// a nil known accepts any id. All problems are returned joined.
func (d Definition) Validate(known func(string) bool) error {
	if d.VersionID == "" {
		return ErrMissingVersion
	}
	var errs []error
	seen := make(map[[2]string]bool)
	for i, r := range d.Rules {
		target := string(r.ToQuestion)
		if target == "" {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, ErrMissingTarget))
			continue
		}
		if known != nil && !known(target) {
			errs = append(errs, fmt.Errorf("rule %d: target %q: %w", i, target, ErrUnknownQuestion))
		}
		for _, cl := range r.Condition.Conditions {
			if known != nil && cl.Question != "" && !known(string(cl.Question)) {
				errs = append(errs, fmt.Errorf("rule %d: clause question %q: %w", i, cl.Question, ErrUnknownQuestion))
			}
		}
		source := r.Condition.Source()
		if source == target && source != "" {
			errs = append(errs, fmt.Errorf("rule %d: question %q routes to itself", i, source))
		}
		key := [2]string{source, target}
		if seen[key] {
			errs = append(errs, fmt.Errorf("rule %d: %w %q -> %q", i, ErrDuplicateRule, source, target))
		}
		seen[key] = true
		if _, err := Compile(r.Condition); err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// literal emits numbers as numbers and everything else as a quoted string
func literal(v string) string {
	if v != "" && strings.Trim(v, "0123456789.-") == "" {
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			return v
		}
	}
	return strconv.Quote(v)
}
