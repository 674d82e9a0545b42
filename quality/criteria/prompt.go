/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package criteria

import (
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/codejudge/agents/promptbuilder"
	"chainguard.dev/codejudge/agents/schema"
	"github.com/invopop/jsonschema"
)

// Request is the task-specific content of one evaluation.
type Request struct {
	// Description labels the request in result stores and reports.
	// It defaults to Task.
	Description string `json:"description,omitempty"`
	Task        string `json:"task"`
	Output      string `json:"output"`
}

// Label returns Description, or Task when no description is set.
func (r Request) Label() string {
	if r.Description != "" {
		return r.Description
	}
	return r.Task
}

var _ promptbuilder.Bindable = Request{}

// Bind implements promptbuilder.Bindable for the placeholders the prompt contains.
func (r Request) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	for _, b := range []struct{ name, value string }{
		{TaskPlaceholder, r.Task},
		{OutputPlaceholder, r.Output},
	} {
		if !p.Has(b.name) {
			continue
		}
		if b.value == "" {
			return nil, fmt.Errorf("request is missing %q", b.name)
		}
		var err error
		if p, err = p.BindText(b.name, b.value); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Prompt renders the exact text sent to the judge for req.
// Substitution is a single pass: request text is never re-scanned for placeholders.
func (s *Spec) Prompt(req Request) (string, error) {
	p, err := req.Bind(s.template)
	if err != nil {
		return "", err
	}
	if p.Has(CriteriaPlaceholder) {
		if p, err = p.BindText(CriteriaPlaceholder, s.RenderCriteria()); err != nil {
			return "", err
		}
	}
	if p.Has(OutputFormatPlaceholder) {
		if p, err = p.BindText(OutputFormatPlaceholder, s.RenderOutputFormat()); err != nil {
			return "", err
		}
	}
	if p.Has(OutputSchemaPlaceholder) {
		if p, err = p.BindJSON(OutputSchemaPlaceholder, s.OutputSchema()); err != nil {
			return "", err
		}
	}
	return p.Build()
}

func formatScale(minimum, maximum float64) string {
	return strconv.FormatFloat(minimum, 'f', -1, 64) + "-" + strconv.FormatFloat(maximum, 'f', -1, 64)
}

// RenderCriteria returns the numbered criteria list shown to the judge.
func (s *Spec) RenderCriteria() string {
	var sb strings.Builder
	for i, c := range s.criteria {
		fmt.Fprintf(&sb, "%d. %s (%s): %s\n", i+1, c.Label(), formatScale(c.Min, c.Max), c.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderOutputFormat returns an example of the JSON object the judge must return.
func (s *Spec) RenderOutputFormat() string {
	var lines []string
	overall := formatScale(s.overall.Min, s.overall.Max)

	switch s.layout {
	case Flat:
		lines = append(lines, fmt.Sprintf(`  "overall_score": <%s>,`, overall))
		lines = append(lines, `  "scores": {`)
		for i, c := range s.criteria {
			sep := ","
			if i == len(s.criteria)-1 {
				sep = ""
			}
			lines = append(lines, fmt.Sprintf(`    %q: <%s>%s`, c.Name, formatScale(c.Min, c.Max), sep))
		}
		lines = append(lines, `  },`)
	default:
		for _, c := range s.criteria {
			lines = append(lines, fmt.Sprintf(`  %q: {"score": <%s>, "reasoning": "..."},`, c.Name, formatScale(c.Min, c.Max)))
		}
		lines = append(lines, fmt.Sprintf(`  "overall_score": <%s>,`, overall))
		lines = append(lines, `  "overall_assessment": "brief summary",`)
	}
	lines = append(lines, fmt.Sprintf(`  "passes": <true if overall_score >= %s>,`, strconv.FormatFloat(s.threshold, 'f', -1, 64)))
	for _, f := range s.fields {
		lines = append(lines, fmt.Sprintf(`  %q: %s,`, f.Name, f.example()))
	}
	lines = append(lines, `  "recommendations": ["..."]`)
	return "{\n" + strings.Join(lines, "\n") + "\n}"
}

func (f Field) example() string {
	switch f.Type {
	case TextListField:
		if f.Description != "" {
			return fmt.Sprintf("[%q]", f.Description)
		}
		return `["..."]`
	case NumberField:
		return "<number>"
	case BooleanField:
		return "<true/false>"
	default:
		if f.Description != "" {
			return strconv.Quote(f.Description)
		}
		return `"..."`
	}
}

// criterionEntry is the per-criterion answer in the Nested layout.
type criterionEntry struct {
	Score     float64 `json:"score" jsonschema:"required"`
	Reasoning string  `json:"reasoning,omitempty" jsonschema:"description=Justification for the score"`
}

// OutputSchema returns the JSON schema of the verdict the judge must produce.
func (s *Spec) OutputSchema() *jsonschema.Schema {
	props := []schema.Property{{
		Name:     "overall_score",
		Schema:   schema.Number("Overall score", s.overall.Min, s.overall.Max),
		Required: true,
	}, {
		Name:     "passes",
		Schema:   schema.Boolean(fmt.Sprintf("True when overall_score >= %v", s.threshold)),
		Required: true,
	}}

	switch s.layout {
	case Flat:
		var scores []schema.Property
		for _, c := range s.criteria {
			scores = append(scores, schema.Property{
				Name:     c.Name,
				Schema:   schema.Number(c.Description, c.Min, c.Max),
				Required: true,
			})
		}
		props = append(props, schema.Property{
			Name:     "scores",
			Schema:   schema.Object("Per-criterion scores", scores...),
			Required: true,
		})
	default:
		for _, c := range s.criteria {
			entry := schema.Embed(schema.ReflectType[criterionEntry]())
			entry.Description = c.Description
			if score, ok := entry.Properties.Get("score"); ok {
				score.Description = c.Label()
				schema.Bound(score, c.Min, c.Max)
			}
			props = append(props, schema.Property{Name: c.Name, Schema: entry, Required: true})
		}
		props = append(props, schema.Property{Name: "overall_assessment", Schema: schema.String("Brief summary")})
	}

	props = append(props, schema.Property{
		Name:   "recommendations",
		Schema: schema.Array("Ordered improvement suggestions", schema.String("")),
	})
	for _, f := range s.fields {
		var fs *jsonschema.Schema
		switch f.Type {
		case TextListField:
			fs = schema.Array(f.Description, schema.String(""))
		case NumberField:
			fs = &jsonschema.Schema{Type: "number", Description: f.Description}
		case BooleanField:
			fs = schema.Boolean(f.Description)
		default:
			fs = schema.String(f.Description)
		}
		props = append(props, schema.Property{Name: f.Name, Schema: fs})
	}

	return schema.Object(fmt.Sprintf("Verdict for the %s rubric", s.name), props...)
}
