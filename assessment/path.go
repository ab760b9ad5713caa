// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assessment

import "github.com/danielhkuo/assessment-path/models"

// Path is the ordered list of answered steps, in traversal order.
type Path struct {
	steps []models.Step
}

// NewPath copies steps into a new path
func NewPath(steps []models.Step) *Path {
	p := &Path{}
	for _, s := range steps {
		p.Append(s)
	}
	return p
}

// Append adds a step to the end
func (p *Path) Append(step models.Step) {
	if step.OptionID == nil {
		step.OptionID = []string{}
	}
	p.steps = append(p.steps, step)
}

// FindIndexByQuestionID returns the position of the step for questionID, or -1
func (p *Path) FindIndexByQuestionID(questionID string) int {
	for i, s := range p.steps {
		if s.QuestionID == questionID {
			return i
		}
	}
	return -1
}

// TruncateFrom removes the step at index and everything after it
func (p *Path) TruncateFrom(index int) {
	if index < 0 || index >= len(p.steps) {
		return
	}
	clear(p.steps[index:])
	p.steps = p.steps[:index]
}

// PopLast removes the final step and reports whether one was removed
func (p *Path) PopLast() (models.Step, bool) {
	if len(p.steps) == 0 {
		return models.Step{}, false
	}
	last := p.steps[len(p.steps)-1]
	p.steps = p.steps[:len(p.steps)-1]
	return last, true
}

// Reset empties the path
func (p *Path) Reset() {
	p.steps = nil
}

func (p *Path) Len() int { return len(p.steps) }

// At returns the step at index
func (p *Path) At(index int) (models.Step, bool) {
	if index < 0 || index >= len(p.steps) {
		return models.Step{}, false
	}
	return p.steps[index], true
}

// Last returns the final step
func (p *Path) Last() (models.Step, bool) {
	return p.At(len(p.steps) - 1)
}

// Find returns the step recorded for questionID
func (p *Path) Find(questionID string) (models.Step, bool) {
	return p.At(p.FindIndexByQuestionID(questionID))
}

// Steps returns a copy of the steps, safe to hand to the persistence layer
func (p *Path) Steps() []models.Step {
	out := make([]models.Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Clone returns an independent copy of the path
func (p *Path) Clone() *Path {
	return &Path{steps: p.Steps()}
}
