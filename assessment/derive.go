// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assessment

import (
	"strings"

	"github.com/danielhkuo/assessment-path/catalog"
)

// DeriveChoices returns one choice per element of the source question's
// recorded list answer. Missing source steps and non-list answers yield no
// choices. It is recomputed on every call.
func (c *Controller) DeriveChoices(q *catalog.Question) []string {
	choices := []string{}
	source := string(q.DynamicSourceID)
	if source == "" {
		return choices
	}
	step, ok := c.path.Find(source)
	if !ok || !step.Answer.Multi {
		return choices
	}
	for _, text := range step.Answer.Items {
		if strings.TrimSpace(text) == "" {
			continue
		}
		choices = append(choices, text)
	}
	return choices
}
