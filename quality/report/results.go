/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"io"

	"chainguard.dev/codejudge/quality/aggregate"
	"chainguard.dev/codejudge/quality/cost"
	"chainguard.dev/codejudge/quality/gate"
	"chainguard.dev/codejudge/quality/results"
)

func percent(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func dollars(v float64) string { return fmt.Sprintf("$%.4f", v) }

// Summary writes the statistics of a results set and its failed records.
func Summary(w io.Writer, stats aggregate.Stats, failures results.Set, threshold float64) error {
	fmt.Fprint(w, "## Test Results Summary\n\n")

	avg := "n/a"
	if stats.Scored > 0 {
		avg = fmt.Sprintf("%.2f (%d scored)", stats.AverageScore, stats.Scored)
	}
	rows := [][]string{
		{"Total tests", fmt.Sprint(stats.Total)},
		{"Passed", fmt.Sprint(stats.Passed)},
		{"Failed", fmt.Sprint(stats.Failed)},
		{"Pass rate", percent(stats.PassRate)},
		{"Average score", avg},
	}
	if stats.TokenRecords > 0 || stats.TotalCost > 0 {
		rows = append(rows,
			[]string{"Tokens (in/out)", fmt.Sprintf("%d / %d", stats.InputTokens, stats.OutputTokens)},
			[]string{"Total cost", dollars(stats.TotalCost)},
		)
	}
	if err := writeTable(w, []string{"Metric", "Value"}, rows); err != nil {
		return err
	}

	if len(failures) > 0 {
		fmt.Fprint(w, "\n## Failed Tests\n\n")
		var frows [][]string
		for _, r := range failures {
			msg := r.Error
			if msg == "" {
				msg = "-"
			}
			frows = append(frows, []string{r.Name(), msg})
		}
		if err := writeTable(w, []string{"Test", "Error"}, frows); err != nil {
			return err
		}
	}

	if stats.PassRate >= threshold {
		_, err := fmt.Fprintf(w, "\nPass rate %s meets the %s quality bar.\n", percent(stats.PassRate), percent(threshold))
		return err
	}
	_, err := fmt.Fprintf(w, "\nPass rate %s is below the %s quality bar.\n", percent(stats.PassRate), percent(threshold))
	return err
}

// Gate writes a quality gate decision.
func Gate(w io.Writer, d gate.Decision) error {
	fmt.Fprintf(w, "Pass rate: %s (%d/%d)\n", percent(d.Stats.PassRate), d.Stats.Passed, d.Stats.Total)
	fmt.Fprintf(w, "Threshold: %s\n\n", percent(d.Threshold))
	if d.Admit {
		_, err := fmt.Fprintln(w, d.String())
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n  Required: %s\n  Actual:   %s\n", d, percent(d.Threshold), percent(d.Stats.PassRate))
	return err
}

// GateError writes the message for a gate that could not be evaluated.
func GateError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "Quality gate could not be evaluated: %v\n", err)
	return werr
}

const (
	dailyRuns   = 10
	monthlyRuns = 300
)

// Cost writes a cost estimate with daily and monthly projections.
func Cost(w io.Writer, e cost.Estimate) error {
	fmt.Fprint(w, "## Cost Estimate\n\n")

	model := e.Model
	if e.PricedAs != e.Model {
		model = fmt.Sprintf("%s (priced as %s)", e.Model, e.PricedAs)
	}
	tokenNote := ""
	if e.Usage.Estimated {
		tokenNote = " (estimated)"
	}
	rows := [][]string{
		{"Model", model},
		{"Evaluations", fmt.Sprint(e.Usage.Evaluations)},
		{"Input tokens", fmt.Sprintf("%d%s", e.Usage.InputTokens, tokenNote)},
		{"Output tokens", fmt.Sprintf("%d%s", e.Usage.OutputTokens, tokenNote)},
		{"Total cost", dollars(e.Total)},
		{fmt.Sprintf("Daily (%d runs)", dailyRuns), fmt.Sprintf("$%.2f", e.Project(dailyRuns))},
		{fmt.Sprintf("Monthly (%d runs)", monthlyRuns), fmt.Sprintf("$%.2f", e.Project(monthlyRuns))},
		{"Per evaluation", dollars(e.PerEvaluation())},
	}
	if err := writeTable(w, []string{"Item", "Value"}, rows); err != nil {
		return err
	}

	if tips := e.Tips(); len(tips) > 0 {
		fmt.Fprint(w, "\nCost optimization tips:\n")
		for _, tip := range tips {
			fmt.Fprintf(w, "  - %s\n", tip)
		}
	}
	return nil
}
