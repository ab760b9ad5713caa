// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/assessment-path/models"
)

var (
	ErrEmptySurvey        = errors.New("survey has no questions")
	ErrMissingTitle       = errors.New("section title is required")
	ErrMissingQuestionID  = errors.New("question id is required")
	ErrDuplicateQuestion  = errors.New("duplicate question")
	ErrMissingMatrixGroup = errors.New("matrix question requires matrix_item_group_id")
	ErrInvalidSource      = errors.New("invalid question source")
)

// Question sources accepted from the builder
const (
	SourceBank   = "bank"
	SourceCustom = "custom"
)

// SurveyQuestion places a bank or custom question in a survey
type SurveyQuestion struct {
	ID                models.ID  `json:"id"`
	Label             string     `json:"label"`
	ResponseGroupID   *models.ID `json:"response_group_id"`
	ResponseTypeID    *models.ID `json:"response_type_id"`
	MatrixItemGroupID *models.ID `json:"matrix_item_group_id"`
	IsRequired        bool       `json:"is_required"`
	IsMatrix          bool       `json:"is_matrix"`
	Source            string     `json:"source"`
}

type Section struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []SurveyQuestion `json:"questions"`
}

// SurveyDefinition is a survey structure submitted by the builder. The
// initial builder sends a flat question queue, the final builder sends sections.
type SurveyDefinition struct {
	VersionID models.ID        `json:"version_id"`
	Sections  []Section        `json:"sections,omitempty"`
	Questions []SurveyQuestion `json:"questions,omitempty"`
}

// QuestionCount counts questions across the flat queue and all sections
func (d SurveyDefinition) QuestionCount() int {
	n := len(d.Questions)
	for _, s := range d.Sections {
		n += len(s.Questions)
	}
	return n
}

// Validate reports every structural problem, joined
func (d SurveyDefinition) Validate() error {
	if d.VersionID == "" {
		return ErrMissingVersion
	}
	if d.QuestionCount() == 0 {
		return ErrEmptySurvey
	}

	var errs []error
	seen := make(map[string]bool)
	check := func(where string, q SurveyQuestion) {
		id := string(q.ID)
		if id == "" {
			errs = append(errs, fmt.Errorf("%s: %w", where, ErrMissingQuestionID))
			return
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("%s: %w %q", where, ErrDuplicateQuestion, id))
		}
		seen[id] = true
		switch q.Source {
		case "", SourceBank, SourceCustom:
		default:
			errs = append(errs, fmt.Errorf("%s: %w %q", where, ErrInvalidSource, q.Source))
		}
		if q.IsMatrix && (q.MatrixItemGroupID == nil || *q.MatrixItemGroupID == "") {
			errs = append(errs, fmt.Errorf("%s: %w", where, ErrMissingMatrixGroup))
		}
	}

	for i, q := range d.Questions {
		check(fmt.Sprintf("question %d", i), q)
	}
	for i, s := range d.Sections {
		if strings.TrimSpace(s.Title) == "" {
			errs = append(errs, fmt.Errorf("section %d: %w", i, ErrMissingTitle))
		}
		for j, q := range s.Questions {
			check(fmt.Sprintf("section %d question %d", i, j), q)
		}
	}
	return errors.Join(errs...)
}
