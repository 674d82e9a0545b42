/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result extracts JSON objects from free-form model responses.

Judge models rarely return bare JSON. They prepend explanations, wrap the
object in a fenced code block, or trail off with closing remarks. This package
locates the object inside such text.

# Extraction

ExtractObject scans for balanced brace-delimited spans. Braces inside JSON
string literals (including escaped quotes) are ignored while scanning, so
reasoning text such as "use a map {k: v}" does not end a span early. The
first outermost balanced span must decode as a JSON object; later spans are
never tried, so stray braces in the prose before the object are an error:

	text := "Here is my evaluation:\n```json\n{\"overall_score\": 8}\n```\nThanks!"

	raw, err := result.ExtractObject(text)
	// raw == `{"overall_score": 8}`

When there is no balanced span, or the first one does not decode,
ExtractObject returns an error wrapping ErrNoObject. Callers should treat
that as unusable model output, which is different from a negative judgment.

# Typed Extraction

Extract combines ExtractObject with json.Unmarshal:

	type Scores struct {
		Overall float64 `json:"overall_score"`
	}

	s, err := result.Extract[Scores](text)

# Thread Safety

All functions are pure and safe for concurrent use.
*/
package result
