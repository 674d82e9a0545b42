/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package criteria

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"chainguard.dev/codejudge/agents/promptbuilder"
)

// Placeholders understood by Spec.Prompt.
const (
	TaskPlaceholder         = "task"
	OutputPlaceholder       = "output"
	CriteriaPlaceholder     = "criteria"
	OutputFormatPlaceholder = "output_format"
	OutputSchemaPlaceholder = "output_schema"
)

var knownPlaceholders = []string{
	TaskPlaceholder, OutputPlaceholder, CriteriaPlaceholder, OutputFormatPlaceholder, OutputSchemaPlaceholder,
}

// Criterion is one scored dimension of a rubric.
type Criterion struct {
	Name        string  `yaml:"name" json:"name"`
	Title       string  `yaml:"title,omitempty" json:"title,omitempty"`
	Description string  `yaml:"description" json:"description"`
	Min         float64 `yaml:"min" json:"min"`
	Max         float64 `yaml:"max" json:"max"`
}

// Label returns the title, or the name in upper case with spaces.
func (c Criterion) Label() string {
	if c.Title != "" {
		return c.Title
	}
	return strings.ToUpper(strings.ReplaceAll(c.Name, "_", " "))
}

// Contains reports whether score lies within the criterion's scale.
func (c Criterion) Contains(score float64) bool {
	return score >= c.Min && score <= c.Max
}

// FieldType is the JSON type of an optional verdict field.
type FieldType string

const (
	TextField     FieldType = "string"
	TextListField FieldType = "string_array"
	NumberField   FieldType = "number"
	BooleanField  FieldType = "boolean"
)

// Field is an optional, free-form member of the verdict (such as "strengths").
type Field struct {
	Name        string    `yaml:"name" json:"name"`
	Type        FieldType `yaml:"type" json:"type"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
}

// Layout says where the judge reports per-criterion scores.
type Layout string

const (
	// Nested places {"score": n, "reasoning": "..."} under each criterion name at the top level.
	Nested Layout = "nested"
	// Flat places bare numbers inside a "scores" object.
	Flat Layout = "flat"
)

// Scale is an inclusive numeric range.
type Scale struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Spec is an immutable evaluation rubric.
type Spec struct {
	name      string
	raw       string
	template  *promptbuilder.Prompt
	criteria  []Criterion
	threshold float64
	overall   Scale
	layout    Layout
	fields    []Field
}

// Option configures a Spec.
type Option func(*Spec) error

// WithThreshold sets the overall score at or above which a verdict passes.
func WithThreshold(threshold float64) Option {
	return func(s *Spec) error {
		s.threshold = threshold
		return nil
	}
}

// WithOverallScale sets the scale of the overall score.
func WithOverallScale(minimum, maximum float64) Option {
	return func(s *Spec) error {
		s.overall = Scale{Min: minimum, Max: maximum}
		return nil
	}
}

// WithLayout sets where per-criterion scores are requested.
func WithLayout(layout Layout) Option {
	return func(s *Spec) error {
		if layout != Nested && layout != Flat {
			return fmt.Errorf("unknown score layout %q", layout)
		}
		s.layout = layout
		return nil
	}
}

// WithFields adds optional verdict fields.
func WithFields(fields ...Field) Option {
	return func(s *Spec) error {
		s.fields = append(s.fields, fields...)
		return nil
	}
}

// New constructs and validates a Spec.
// Defaults: overall scale 0-10, threshold 7, nested layout.
func New(name, template string, criteria []Criterion, opts ...Option) (*Spec, error) {
	tmpl, err := promptbuilder.NewPrompt(template)
	if err != nil {
		return nil, fmt.Errorf("parsing template for %q: %w", name, err)
	}
	s := &Spec{
		name:      name,
		raw:       template,
		template:  tmpl,
		criteria:  slices.Clone(criteria),
		threshold: 7,
		overall:   Scale{Min: 0, Max: 10},
		layout:    Nested,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the internal consistency of the rubric.
func (s *Spec) Validate() error {
	var errs []error
	if s.name == "" {
		errs = append(errs, errors.New("rubric name is required"))
	}
	if len(s.criteria) == 0 {
		errs = append(errs, errors.New("at least one criterion is required"))
	}
	seen := map[string]bool{}
	for _, c := range s.criteria {
		switch {
		case c.Name == "":
			errs = append(errs, errors.New("criterion name is required"))
		case seen[c.Name]:
			errs = append(errs, fmt.Errorf("duplicate criterion %q", c.Name))
		case reserved(c.Name):
			errs = append(errs, fmt.Errorf("criterion %q collides with a verdict field", c.Name))
		}
		seen[c.Name] = true
		if c.Min >= c.Max {
			errs = append(errs, fmt.Errorf("criterion %q: min %v must be below max %v", c.Name, c.Min, c.Max))
		}
	}
	for _, f := range s.fields {
		if f.Name == "" || reserved(f.Name) || seen[f.Name] {
			errs = append(errs, fmt.Errorf("invalid or duplicate field name %q", f.Name))
		}
		seen[f.Name] = true
		switch f.Type {
		case TextField, TextListField, NumberField, BooleanField:
		default:
			errs = append(errs, fmt.Errorf("field %q: unknown type %q", f.Name, f.Type))
		}
	}
	if s.overall.Min >= s.overall.Max {
		errs = append(errs, fmt.Errorf("overall scale: min %v must be below max %v", s.overall.Min, s.overall.Max))
	}
	if s.threshold < s.overall.Min || s.threshold > s.overall.Max {
		errs = append(errs, fmt.Errorf("threshold %v is outside the overall scale [%v, %v]", s.threshold, s.overall.Min, s.overall.Max))
	}
	if s.template != nil {
		if !s.template.Has(OutputPlaceholder) {
			errs = append(errs, fmt.Errorf("template must contain {{%s}}", OutputPlaceholder))
		}
		for _, p := range s.template.Placeholders() {
			if !slices.Contains(knownPlaceholders, p) {
				errs = append(errs, fmt.Errorf("template placeholder {{%s}} is not supported", p))
			}
		}
	}
	return errors.Join(errs...)
}

func reserved(name string) bool {
	switch name {
	case "overall_score", "passes", "overall_assessment", "recommendations", "scores":
		return true
	}
	return false
}

// Name returns the rubric name.
func (s *Spec) Name() string { return s.name }

// Template returns the unparsed prompt template.
func (s *Spec) Template() string { return s.raw }

// Criteria returns a copy of the criteria in declaration order.
func (s *Spec) Criteria() []Criterion { return slices.Clone(s.criteria) }

// Threshold returns the passing overall score.
func (s *Spec) Threshold() float64 { return s.threshold }

// Overall returns the scale of the overall score.
func (s *Spec) Overall() Scale { return s.overall }

// Layout returns where per-criterion scores are requested.
func (s *Spec) Layout() Layout { return s.layout }

// Fields returns a copy of the optional verdict fields.
func (s *Spec) Fields() []Field { return slices.Clone(s.fields) }

// Field returns the optional field called name.
func (s *Spec) Field(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
