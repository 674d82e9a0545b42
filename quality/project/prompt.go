/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package project

import (
	"fmt"
	"strings"

	"chainguard.dev/codejudge/agents/promptbuilder"
	"chainguard.dev/codejudge/quality/criteria"
)

const (
	requestGuidelinesLimit = 1500
	reviewGuidelinesLimit  = 1000
	reviewDependencyLimit  = 10
	requestOversizeLimit   = 5
)

// Request returns the evaluation request for the project rubric.
func (a *Analysis) Request() criteria.Request {
	var sb strings.Builder
	fmt.Fprintf(&sb, "KEY REQUIREMENTS (from %s):\n%s\n\n", GuidelinesFile, a.guidelines(requestGuidelinesLimit))

	oversize := a.Oversize()
	sb.WriteString("FILE STATISTICS:\n")
	fmt.Fprintf(&sb, "- Total files analyzed: %d\n", len(a.Files))
	fmt.Fprintf(&sb, "- Files over %d lines: %d %s\n", LineLimit, len(oversize), verdictMark(len(oversize) == 0))
	for _, f := range oversize[:min(len(oversize), requestOversizeLimit)] {
		fmt.Fprintf(&sb, "  - %s: %d lines\n", f.Path, f.Lines)
	}
	fmt.Fprintf(&sb, "\nDEPENDENCIES: %d packages", len(a.Dependencies))

	return criteria.Request{
		Description: a.Name,
		Task:        "PROJECT: " + a.Name,
		Output:      sb.String(),
	}
}

func (a *Analysis) guidelines(limit int) string {
	if a.Guidelines == "" {
		return fmt.Sprintf("(no %s found)", GuidelinesFile)
	}
	if len(a.Guidelines) <= limit {
		return a.Guidelines
	}
	return a.Guidelines[:limit] + "..."
}

func verdictMark(ok bool) string {
	if ok {
		return "(ok)"
	}
	return "(VIOLATION)"
}

var reviewPrompt = promptbuilder.MustNewPrompt(`# Evaluate Project: {{name}}

Please evaluate this project's code quality using the criteria below.

## Project Overview

**Name**: {{name}}
**Description**: {{description}}
**Total Files**: {{total}}
**Files Over {{limit}} Lines**: {{oversize_count}}
{{oversize}}
### File Sizes:
{{sizes}}

## Key Requirements (from {{guidelines_file}})

` + "```" + `
{{guidelines}}
` + "```" + `

## Dependencies

{{dependency_count}} direct dependencies:
{{dependencies}}

## Evaluation Criteria

Please score each criterion and provide reasoning:

{{criteria}}

## Output Format

Please provide:

` + "```json" + `
{{output_format}}
` + "```" + `

And a brief summary explaining the scores.
`)

// ReviewPrompt renders a self-contained prompt for a manual review of the
// project in a chat session, using spec's criteria and output format.
func (a *Analysis) ReviewPrompt(spec *criteria.Spec) (string, error) {
	oversize := a.Oversize()

	var over strings.Builder
	if len(oversize) > 0 {
		fmt.Fprintf(&over, "\n### Files Exceeding %d Lines:\n", LineLimit)
		for _, f := range oversize {
			fmt.Fprintf(&over, "- %s: %d lines\n", f.Path, f.Lines)
		}
	}

	var sizes []string
	for _, f := range a.Files {
		sizes = append(sizes, fmt.Sprintf("- %s: %d lines %s", f.Path, f.Lines, verdictMark(!f.Oversize())))
	}
	if len(sizes) == 0 {
		sizes = append(sizes, "(no source files found)")
	}


	description := a.Description
	if description == "" {
		description = "No description"
	}

	p := reviewPrompt
	for _, b := range []struct{ name, value string }{
		{"name", a.Name},
		{"description", description},
		{"total", fmt.Sprint(len(a.Files))},
		{"limit", fmt.Sprint(LineLimit)},
		{"oversize_count", fmt.Sprintf("%d %s", len(oversize), verdictMark(len(oversize) == 0))},
		{"oversize", over.String()},
		{"sizes", strings.Join(sizes, "\n")},
		{"guidelines_file", GuidelinesFile},
		{"guidelines", a.guidelines(reviewGuidelinesLimit)},
		{"dependency_count", fmt.Sprint(len(a.Dependencies))},
		{"criteria", spec.RenderCriteria()},
		{"output_format", spec.RenderOutputFormat()},
	} {
		var err error
		if p, err = p.BindText(b.name, b.value); err != nil {
			return "", fmt.Errorf("binding %s: %w", b.name, err)
		}
	}

	var err error
	if listed := a.Dependencies[:min(len(a.Dependencies), reviewDependencyLimit)]; len(listed) > 0 {
		p, err = p.BindYAML("dependencies", listed)
	} else {
		p, err = p.BindText("dependencies", "(none)")
	}
	if err != nil {
		return "", fmt.Errorf("binding dependencies: %w", err)
	}
	return p.Build()
}
