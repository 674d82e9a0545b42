/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package criteria

const codeTemplate = `You are an expert code reviewer evaluating LLM-generated code.

TASK DESCRIPTION:
{{task}}

LLM OUTPUT:
{{output}}

Evaluate the output on these criteria:

{{criteria}}

Respond in this JSON format:
{{output_format}}

Score >= 7 = passes, < 7 = fails
Be strict but fair. Code should be production-ready.`

const projectTemplate = `Evaluate this project's code quality on a scale of 0-10 for each criterion:

{{task}}

{{output}}

Evaluate on these criteria:
{{criteria}}

Return ONLY a JSON object (no markdown):
{{output_format}}`

// Default returns the six-criterion rubric for a single piece of generated code.
func Default() *Spec {
	s, err := New("code", codeTemplate, []Criterion{
		{Name: "correctness", Title: "Correctness", Description: "Does it solve the task correctly?", Max: 10},
		{Name: "completeness", Title: "Completeness", Description: "Are all requirements met?", Max: 10},
		{Name: "code_quality", Title: "Code Quality", Description: "Is it maintainable, readable, follows best practices?", Max: 10},
		{Name: "token_efficiency", Title: "Token Efficiency", Description: "Is the code concise without being cryptic?", Max: 10},
		{Name: "error_handling", Title: "Error Handling", Description: "Are errors handled properly with context?", Max: 10},
		{Name: "security", Title: "Security", Description: "Any security issues or vulnerabilities?", Max: 10},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// Project returns the five-criterion rubric for a whole project.
func Project() *Spec {
	s, err := New("project", projectTemplate, []Criterion{
		{Name: "token_efficiency", Description: "Files <500 lines, functions <100 lines", Max: 10},
		{Name: "code_quality", Description: "Strict typing, no escape hatches, proper imports, error handling", Max: 10},
		{Name: "architecture", Description: "Modular design, separation of concerns", Max: 10},
		{Name: "production_readiness", Description: "Tests, documentation, error handling", Max: 10},
		{Name: "business_value", Description: "Solves real problem, cost-effective, time-efficient", Max: 10},
	},
		WithLayout(Flat),
		WithFields(
			Field{Name: "critical_issues", Type: TextListField, Description: "list of blocking issues"},
			Field{Name: "strengths", Type: TextListField, Description: "list of what works well"},
			Field{Name: "cost_estimate", Type: TextField, Description: "estimated monthly judge API cost"},
		),
	)
	if err != nil {
		panic(err)
	}
	return s
}
