// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assessment

import "errors"

var (
	// ErrValidation marks missing or malformed user input. No state changed.
	ErrValidation = errors.New("validation failed")
	// ErrConfiguration marks content that has no valid transition.
	ErrConfiguration = errors.New("path configuration error")
	// ErrPersistence marks a final save that did not settle.
	ErrPersistence = errors.New("result not saved")
	// ErrUnknownInteraction is returned for interactions with no handler.
	ErrUnknownInteraction = errors.New("unknown interaction")
	// ErrNotInteractive is returned when the question is neither visible nor open in an editor.
	ErrNotInteractive = errors.New("question is not open for answering")
)
