/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseError reports a response that contains no decodable JSON object.
type ParseError struct {
	// Excerpt is the start of the offending response.
	Excerpt string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("judge response is not parseable: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a decoded object that does not satisfy the rubric.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "judge response failed schema validation: " + strings.Join(e.Problems, "; ")
}

const excerptLen = 200

func excerpt(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= excerptLen {
		return text
	}
	cut := excerptLen - 3
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
