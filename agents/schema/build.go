/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"encoding/json"
	"strconv"

	"github.com/invopop/jsonschema"
)

// Property is a named member of an object schema.
type Property struct {
	Name     string
	Schema   *jsonschema.Schema
	Required bool
}

// Object returns an object schema whose properties keep the given order.
func Object(description string, props ...Property) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:        "object",
		Description: description,
		Properties:  jsonschema.NewProperties(),
	}
	for _, p := range props {
		s.Properties.Set(p.Name, p.Schema)
		if p.Required {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}

// Number returns a numeric schema bounded to [minimum, maximum].
func Number(description string, minimum, maximum float64) *jsonschema.Schema {
	return Bound(&jsonschema.Schema{Type: "number", Description: description}, minimum, maximum)
}

// Bound sets the inclusive numeric range of s.
func Bound(s *jsonschema.Schema, minimum, maximum float64) *jsonschema.Schema {
	s.Minimum = formatNumber(minimum)
	s.Maximum = formatNumber(maximum)
	return s
}

// String returns a string schema.
func String(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

// Boolean returns a boolean schema.
func Boolean(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: description}
}

// Array returns an array schema of items.
func Array(description string, items *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: description, Items: items}
}

func formatNumber(f float64) json.Number {
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
}
