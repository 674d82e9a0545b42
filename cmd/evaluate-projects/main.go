/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command evaluate-projects scores whole projects with the project rubric and
// saves the run as a results store.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/codejudge/agents/judge"
	"chainguard.dev/codejudge/internal/cli"
	"chainguard.dev/codejudge/quality/config"
	"chainguard.dev/codejudge/quality/criteria"
	"chainguard.dev/codejudge/quality/evaluator"
	"chainguard.dev/codejudge/quality/project"
	"chainguard.dev/codejudge/quality/report"
	"chainguard.dev/codejudge/quality/results"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

type judgeFactory func(ctx context.Context, cfg *config.Config) (judge.Interface, error)

func main() {
	cli.Main(newCommand(func(ctx context.Context, cfg *config.Config) (judge.Interface, error) {
		return cfg.Judge(ctx)
	}, time.Now))
}

func newCommand(newJudge judgeFactory, now func() time.Time) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate-projects [target...]",
		Short: "Evaluate projects with the project rubric",
		Long: `Each target is a directory (relative paths resolve against PROJECTS_DIR) or
github:owner/repo. Without arguments the comma separated PROJECTS list is used.
The run is written to OUTPUT_DIR/evaluation-<unix-ms>.json. The exit status is 1
when any project fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := cli.Setup(cmd, "project", "")
			if err != nil {
				return err
			}
			targets := args
			if len(targets) == 0 {
				targets = project.Targets(cfg.Projects)
			}
			if len(targets) == 0 {
				return &cli.ExitError{Code: 2, Err: errors.New("no projects given (pass targets or set PROJECTS)")}
			}

			spec, err := cfg.Criteria(criteria.Project())
			if err != nil {
				return &cli.ExitError{Code: 2, Err: err}
			}
			client, err := newJudge(ctx, cfg)
			if err != nil {
				return &cli.ExitError{Code: 2, Err: err}
			}
			ev, err := cfg.Evaluator(client, spec)
			if err != nil {
				return &cli.ExitError{Code: 2, Err: err}
			}
			analyzer, err := cfg.Analyzer(ctx)
			if err != nil {
				return err
			}

			log := clog.FromContext(ctx)
			var analyses []*project.Analysis
			var reqs []criteria.Request
			for _, target := range targets {
				an, err := analyzer.Analyze(ctx, target)
				if err != nil {
					log.Errorf("Skipping %s: %v", target, err)
					continue
				}
				analyses = append(analyses, an)
				reqs = append(reqs, an.Request())
			}
			if len(reqs) == 0 {
				return errors.New("no project could be analyzed")
			}

			evs := ev.Batch(ctx, reqs)
			finished := now()
			location := results.Join(cfg.OutputDir, report.RunFileName(finished))
			run := report.NewRun(evs, finished)
			store := results.NewStore()
			defer store.Close()
			if err := store.Save(ctx, location, run); err != nil {
				return err
			}

			prs := make([]report.ProjectResult, len(evs))
			for i, e := range evs {
				prs[i] = report.ProjectResult{Analysis: analyses[i], Evaluation: e}
			}
			out := cmd.OutOrStdout()
			if err := report.Projects(out, spec, prs); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nDetailed results saved to: %s\n", location)

			if failing(evs) > 0 || len(analyses) < len(targets) {
				return cli.Exit(1)
			}
			return nil
		},
	}
}

func failing(evs []*evaluator.Evaluation) int {
	n := 0
	for _, e := range evs {
		if !e.Passed() {
			n++
		}
	}
	return n
}
