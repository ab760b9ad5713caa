// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog holds the read-only question metadata for one survey.

A catalog is built once from the bootstrap document and consulted by id:

	cat := catalog.SafeParse(raw)
	q, ok := cat.Question("q1")
	text, ok := cat.OptionText("q1", "a")

SafeParse and ParseSavedPath accept JSON that was serialized into a JSON
string once more. Malformed input is logged and yields an empty catalog or
an empty saved path instead of an error.
*/
package catalog
