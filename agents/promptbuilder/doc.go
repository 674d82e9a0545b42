/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder turns evaluation rubrics with {{name}} placeholders into
the exact text sent to a judge model.

# Overview

A Prompt is parsed once from a template and then bound field by field. Every
binding method returns a new Prompt, so a parsed rubric can be shared by many
concurrent evaluations:

	p, err := promptbuilder.NewPrompt(`TASK DESCRIPTION:
	{{task}}

	LLM OUTPUT:
	{{output}}`)
	if err != nil {
		return err
	}

	p, err = p.BindText("task", "Create an email validator")
	if err != nil {
		return err
	}
	p, err = p.BindText("output", code)
	if err != nil {
		return err
	}

	text, err := p.Build()

# Substitution

Substitution is a single pass over the parsed template. The text bound to a
placeholder is copied into the result verbatim and is never scanned again, so
an artifact that itself contains "{{output}}" is emitted as-is rather than
being replaced a second time.

Binding methods:

	// BindText - copies the value verbatim
	p, err = p.BindText("task", task)

	// BindJSON - marshals data as indented JSON
	p, err = p.BindJSON("output_schema", schema)

	// BindYAML - marshals data as YAML
	p, err = p.BindYAML("criteria", criteria)

# Template Syntax

Placeholder names must start with a letter and contain only letters, digits,
and underscores. A malformed placeholder ({{}}, {{a-b}}, or a missing "}}")
makes NewPrompt fail, so broken rubric files are rejected when they are
loaded rather than when the first evaluation runs.

# Errors

Build fails when any placeholder is still unbound. For rubric prompts this
means the caller did not supply a field of the evaluation request, which is a
programming error rather than a condition to recover from.
*/
package promptbuilder
