/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"chainguard.dev/codejudge/agents/judge"
	"chainguard.dev/codejudge/quality/aggregate"
	"chainguard.dev/codejudge/quality/cost"
	"chainguard.dev/codejudge/quality/criteria"
	"chainguard.dev/codejudge/quality/evaluator"
	"chainguard.dev/codejudge/quality/gate"
	"chainguard.dev/codejudge/quality/project"
	"chainguard.dev/codejudge/quality/report"
	"chainguard.dev/codejudge/quality/results"
	"github.com/stretchr/testify/require"
)

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestSummary(t *testing.T) {
	set := results.Set{
		{Description: "adds numbers", Success: true, Score: results.Float(8), Cost: results.Float(0.01)},
		{Description: "parses dates", Success: false, Score: results.Float(4), Error: "schema: missing overall_score"},
		{Success: false},
	}
	var buf bytes.Buffer
	require.NoError(t, report.Summary(&buf, aggregate.Compute(set), aggregate.Failures(set), gate.DefaultThreshold))

	assertContains(t, buf.String(),
		"Total tests", "33.3%", "6.00 (2 scored)", "$0.0100",
		"Failed Tests", "parses dates", "schema: missing overall_score", "Unnamed test",
		"is below the 70.0% quality bar",
	)
}

func TestSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Summary(&buf, aggregate.Stats{}, nil, gate.DefaultThreshold))
	assertContains(t, buf.String(), "n/a", "0.0%")
	if strings.Contains(buf.String(), "Failed Tests") {
		t.Errorf("empty summary listed failures:\n%s", buf.String())
	}
}

func TestGate(t *testing.T) {
	stats := aggregate.Stats{Total: 10, Passed: 6, Failed: 4, PassRate: 60}

	var buf bytes.Buffer
	require.NoError(t, report.Gate(&buf, gate.Evaluate(stats, 70)))
	assertContains(t, buf.String(), "Pass rate: 60.0% (6/10)", "Quality gate FAILED", "Required: 70.0%", "Actual:   60.0%")

	buf.Reset()
	require.NoError(t, report.Gate(&buf, gate.Evaluate(stats, 50)))
	assertContains(t, buf.String(), "Quality gate PASSED")
}

func TestCost(t *testing.T) {
	usage := cost.Usage{Evaluations: 2, InputTokens: 1000, OutputTokens: 600, Estimated: true}
	var buf bytes.Buffer
	require.NoError(t, report.Cost(&buf, cost.Compute(cost.DefaultTable(), "claude-unknown", usage)))

	assertContains(t, buf.String(),
		"claude-unknown (priced as claude-sonnet-4-20250514)",
		"1000 (estimated)", "Daily (10 runs)", "Monthly (300 runs)", "$0.0120",
	)
	if strings.Contains(buf.String(), "tips") {
		t.Errorf("cheap run printed tips:\n%s", buf.String())
	}

	buf.Reset()
	big := cost.Usage{Evaluations: 100, InputTokens: 50_000, OutputTokens: 30_000}
	require.NoError(t, report.Cost(&buf, cost.Compute(cost.DefaultTable(), cost.DefaultModel, big)))
	assertContains(t, buf.String(), "Cost optimization tips", "claude-haiku")
}

const codeVerdict = `{
  "correctness": {"score": 9, "reasoning": "right"},
  "completeness": {"score": 8, "reasoning": "all there"},
  "code_quality": {"score": 8, "reasoning": "clean"},
  "token_efficiency": {"score": 7, "reasoning": "short"},
  "error_handling": {"score": 6, "reasoning": "thin"},
  "security": {"score": 9, "reasoning": "safe"},
  "overall_score": 8,
  "overall_assessment": "Good work.",
  "passes": true,
  "recommendations": ["Wrap errors"]
}`

func evaluate(t *testing.T, spec *criteria.Spec, text string, req criteria.Request) *evaluator.Evaluation {
	t.Helper()
	client := judge.Func(func(context.Context, *judge.Request) (*judge.Response, error) {
		return &judge.Response{Text: text, Usage: judge.Usage{InputTokens: 400, OutputTokens: 200}}, nil
	})
	e, err := evaluator.New(client, spec, evaluator.WithPricing(cost.DefaultTable()))
	require.NoError(t, err)
	return e.Evaluate(context.Background(), req)
}

func TestEvaluation(t *testing.T) {
	spec := criteria.Default()
	ev := evaluate(t, spec, codeVerdict, criteria.Request{Task: "t", Output: "o"})

	var buf bytes.Buffer
	require.NoError(t, report.Evaluation(&buf, spec, ev))
	assertContains(t, buf.String(),
		"Overall score: 8/10", "Status: PASS", "Error Handling", "thin",
		"Assessment: Good work.", "Wrap errors", "Tokens: 400 in / 200 out", "Cost: $0.0042",
	)

	buf.Reset()
	failed := evaluate(t, spec, "no json here", criteria.Request{Task: "t", Output: "o"})
	require.NoError(t, report.Evaluation(&buf, spec, failed))
	assertContains(t, buf.String(), "Evaluation failed (parse)")
}

func TestProjects(t *testing.T) {
	spec := criteria.Project()
	text := `{"overall_score": 6, "scores": {"token_efficiency": 4, "code_quality": 7, "architecture": 6,
"production_readiness": 6, "business_value": 7}, "passes": false,
"critical_issues": ["big.go is 900 lines"], "strengths": [],
"recommendations": ["split big.go", "add tests", "document", "fourth"], "cost_estimate": "$5/month"}`

	an := &project.Analysis{Name: "widget", Files: []project.FileStat{{Path: "big.go", Lines: 900}}}
	ev := evaluate(t, spec, text, an.Request())

	var buf bytes.Buffer
	require.NoError(t, report.Projects(&buf, spec, []report.ProjectResult{{Analysis: an, Evaluation: ev}}))
	assertContains(t, buf.String(),
		"Total projects", "Passing (>=7/10)", "### widget", "6/10 FAIL",
		"1 files >500 lines", "big.go is 900 lines", "split big.go", "Estimated monthly cost: $5/month",
	)
	if strings.Contains(buf.String(), "fourth") {
		t.Errorf("more than three recommendations printed:\n%s", buf.String())
	}
}

func TestRunIsResultsStore(t *testing.T) {
	spec := criteria.Default()
	evs := []*evaluator.Evaluation{
		evaluate(t, spec, codeVerdict, criteria.Request{Description: "one", Task: "t", Output: "o"}),
		evaluate(t, spec, "garbage", criteria.Request{Description: "two", Task: "t", Output: "o"}),
	}
	now := time.UnixMilli(1700000000000)
	run := report.NewRun(evs, now)

	data, err := json.Marshal(run)
	require.NoError(t, err)
	set, err := results.Decode(data)
	require.NoError(t, err)

	stats := aggregate.Compute(set)
	if stats.Total != 2 || stats.Passed != 1 || stats != run.Summary {
		t.Errorf("decoded stats: got = %+v, wanted = %+v", stats, run.Summary)
	}
	if got := report.RunFileName(now); got != "evaluation-1700000000000.json" {
		t.Errorf("RunFileName(): got = %q", got)
	}
	if got := report.ReviewFileName("acme/widget x"); got != "evaluation-prompt-acme-widget-x.md" {
		t.Errorf("ReviewFileName(): got = %q", got)
	}
}
