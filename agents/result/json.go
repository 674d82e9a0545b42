/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoObject is returned when the text contains no decodable JSON object.
var ErrNoObject = errors.New("no JSON object found in response")

// ExtractObject returns the first balanced {...} span in text. A first span
// that does not decode as a JSON object is an error; later spans are not tried.
func ExtractObject(text string) (json.RawMessage, error) {
	span, ok := firstSpan(text)
	if !ok {
		return nil, ErrNoObject
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoObject, err)
	}
	return json.RawMessage(span), nil
}

// Extract extracts the first JSON object from text and unmarshals it into T.
func Extract[T any](text string) (T, error) {
	var result T

	raw, err := ExtractObject(text)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, err
	}
	return result, nil
}

// firstSpan returns the first outermost balanced brace span in text.
// An unbalanced opening brace is skipped and scanning resumes after it.
func firstSpan(text string) (string, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		if end := matchBrace(text, i); end >= 0 {
			return text[i : end+1], true
		}
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
