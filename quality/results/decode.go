/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned for documents that match none of the accepted shapes.
var ErrMalformed = errors.New("malformed results store")

// Decode normalizes a results store document to a Set.
func Decode(data []byte) (Set, error) {
	return decode(data, 0)
}

// maxNesting is the number of {"results": ...} wrappers tolerated.
const maxNesting = 2

func decode(data []byte, depth int) (Set, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	switch data[0] {
	case '[':
		var set Set
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if set == nil {
			set = Set{}
		}
		return set, nil

	case '{':
		if depth >= maxNesting {
			return nil, fmt.Errorf("%w: results nested more than %d levels", ErrMalformed, maxNesting)
		}
		var wrapper struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if len(wrapper.Results) == 0 || string(wrapper.Results) == "null" {
			return nil, fmt.Errorf("%w: object has no results field", ErrMalformed)
		}
		return decode(wrapper.Results, depth+1)
	}
	return nil, fmt.Errorf("%w: top level must be an array or object", ErrMalformed)
}
