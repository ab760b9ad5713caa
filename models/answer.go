// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Answer is the displayable value recorded for a step: either a single text
// or an ordered list of texts (multi-select).
type Answer struct {
	Text  string
	Items []string
	Multi bool
}

// SingleAnswer builds a single-valued answer
func SingleAnswer(text string) Answer {
	return Answer{Text: text}
}

// MultiAnswer builds a list answer. A nil slice is stored as an empty list.
func MultiAnswer(items []string) Answer {
	if items == nil {
		items = []string{}
	}
	return Answer{Items: items, Multi: true}
}

// Values returns the answer as a list regardless of its shape
func (a Answer) Values() []string {
	if a.Multi {
		return a.Items
	}
	if a.Text == "" {
		return nil
	}
	return []string{a.Text}
}

func (a Answer) String() string {
	if !a.Multi {
		return a.Text
	}
	return fmt.Sprint(a.Items)
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		items := a.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(a.Text)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = Answer{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			s, err := scalarString(r)
			if err != nil {
				return fmt.Errorf("answer item: %w", err)
			}
			items = append(items, s)
		}
		*a = MultiAnswer(items)
		return nil
	default:
		s, err := scalarString(data)
		if err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = SingleAnswer(s)
		return nil
	}
}

// ID is an opaque identifier. Bootstrap data emits ids as JSON numbers or
// strings depending on the source, so both are accepted.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s, err := scalarString(bytes.TrimSpace(data))
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(s)
	return nil
}

// IDList holds saved option ids. Present reports whether the field existed in
// the payload; List reports whether it was encoded as an array.
type IDList struct {
	IDs     []string
	List    bool
	Present bool
}

func (l IDList) MarshalJSON() ([]byte, error) {
	if !l.List && len(l.IDs) == 1 {
		return json.Marshal(l.IDs[0])
	}
	ids := l.IDs
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

func (l *IDList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	l.Present = true
	if bytes.Equal(data, []byte("null")) {
		l.IDs = nil
		l.List = false
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		l.List = true
		l.IDs = make([]string, 0, len(raw))
		for _, r := range raw {
			s, err := scalarString(r)
			if err != nil {
				return fmt.Errorf("option id: %w", err)
			}
			l.IDs = append(l.IDs, s)
		}
		return nil
	}
	s, err := scalarString(data)
	if err != nil {
		return fmt.Errorf("option id: %w", err)
	}
	l.List = false
	l.IDs = []string{s}
	return nil
}

func scalarString(data []byte) (string, error) {
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return n.String(), nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		return strconv.FormatBool(b), nil
	}
	return "", fmt.Errorf("unsupported value %s", string(data))
}
