/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"chainguard.dev/codejudge/quality/aggregate"
	"chainguard.dev/codejudge/quality/criteria"
	"chainguard.dev/codejudge/quality/evaluator"
	"chainguard.dev/codejudge/quality/project"
	"chainguard.dev/codejudge/quality/results"
)

func status(passes bool) string {
	if passes {
		return "PASS"
	}
	return "FAIL"
}

func score(v float64, scale criteria.Scale) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "/" + strconv.FormatFloat(scale.Max, 'f', -1, 64)
}

func list(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

// Evaluation writes a single evaluation in full.
func Evaluation(w io.Writer, spec *criteria.Spec, ev *evaluator.Evaluation) error {
	if !ev.Success {
		_, err := fmt.Fprintf(w, "Evaluation failed (%s): %s\n", ev.Kind, ev.Error)
		return err
	}
	v := ev.Verdict
	fmt.Fprintf(w, "Overall score: %s\n", score(v.OverallScore, spec.Overall()))
	fmt.Fprintf(w, "Status: %s\n\n", status(v.Passes))

	var rows [][]string
	for _, c := range spec.Criteria() {
		cs, ok := v.Score(c.Name)
		if !ok {
			continue
		}
		rows = append(rows, []string{c.Label(), score(cs.Score, criteria.Scale{Min: c.Min, Max: c.Max}), cs.Reasoning})
	}
	if err := writeTable(w, []string{"Criterion", "Score", "Reasoning"}, rows); err != nil {
		return err
	}

	if v.OverallAssessment != "" {
		fmt.Fprintf(w, "\nAssessment: %s\n", v.OverallAssessment)
	}
	list(w, "Recommendations", v.Recommendations)
	list(w, "Warnings", v.Warnings)

	fmt.Fprintf(w, "\nTokens: %d in / %d out\n", ev.Usage.InputTokens, ev.Usage.OutputTokens)
	if ev.Cost != nil {
		fmt.Fprintf(w, "Cost: %s\n", dollars(*ev.Cost))
	}
	return nil
}

// ProjectResult pairs a project analysis with its evaluation.
type ProjectResult struct {
	Analysis   *project.Analysis
	Evaluation *evaluator.Evaluation
}

const topRecommendations = 3

// Projects writes the batch summary followed by per-project detail.
func Projects(w io.Writer, spec *criteria.Spec, prs []ProjectResult) error {
	var set results.Set
	for _, pr := range prs {
		set = append(set, pr.Evaluation.Record())
	}
	stats := aggregate.Compute(set)
	threshold := strconv.FormatFloat(spec.Threshold(), 'f', -1, 64)
	maxScore := strconv.FormatFloat(spec.Overall().Max, 'f', -1, 64)

	fmt.Fprint(w, "## Evaluation Summary\n\n")
	rows := [][]string{
		{"Total projects", fmt.Sprint(stats.Total)},
		{fmt.Sprintf("Passing (>=%s/%s)", threshold, maxScore), fmt.Sprint(stats.Passed)},
		{fmt.Sprintf("Failing (<%s/%s)", threshold, maxScore), fmt.Sprint(stats.Failed)},
		{"Average score", fmt.Sprintf("%.2f/%s", stats.AverageScore, maxScore)},
	}
	if err := writeTable(w, []string{"Metric", "Value"}, rows); err != nil {
		return err
	}

	for _, pr := range prs {
		ev := pr.Evaluation
		fmt.Fprintf(w, "\n### %s\n\n", ev.Request.Label())
		if !ev.Success {
			fmt.Fprintf(w, "Evaluation failed (%s): %s\n", ev.Kind, ev.Error)
			continue
		}
		v := ev.Verdict
		fmt.Fprintf(w, "%s %s\n\n", score(v.OverallScore, spec.Overall()), status(v.Passes))

		var crows [][]string
		for _, c := range spec.Criteria() {
			cs, _ := v.Score(c.Name)
			note := ""
			if c.Name == "token_efficiency" && pr.Analysis != nil {
				if n := len(pr.Analysis.Oversize()); n > 0 {
					note = fmt.Sprintf("%d files >%d lines", n, project.LineLimit)
				}
			}
			crows = append(crows, []string{c.Label(), score(cs.Score, criteria.Scale{Min: c.Min, Max: c.Max}), note})
		}
		if err := writeTable(w, []string{"Criterion", "Score", "Note"}, crows); err != nil {
			return err
		}

		list(w, "Critical issues", v.Strings("critical_issues"))
		recs := v.Recommendations
		list(w, "Top recommendations", recs[:min(len(recs), topRecommendations)])
		if est := v.Text("cost_estimate"); est != "" {
			fmt.Fprintf(w, "\nEstimated monthly cost: %s\n", est)
		}
	}
	return nil
}

// Run is the persisted outcome of a batch of evaluations.
type Run struct {
	Timestamp time.Time       `json:"timestamp"`
	Summary   aggregate.Stats `json:"summary"`
	Results   results.Set     `json:"results"`
}

// NewRun builds the run document for evs.
func NewRun(evs []*evaluator.Evaluation, now time.Time) Run {
	set := evaluator.Records(evs)
	return Run{
		Timestamp: now.UTC(),
		Summary:   aggregate.Compute(set),
		Results:   set,
	}
}

// RunFileName returns the file name a run finished at now is saved under.
func RunFileName(now time.Time) string {
	return fmt.Sprintf("evaluation-%d.json", now.UnixMilli())
}

// ReviewFileName returns the file name a manual-review prompt is saved under.
func ReviewFileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '-'
	}, name)
	return "evaluation-prompt-" + clean + ".md"
}
