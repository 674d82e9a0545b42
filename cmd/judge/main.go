/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command judge evaluates one piece of generated output against a task.
package main

import (
	"context"
	"fmt"

	"chainguard.dev/codejudge/agents/judge"
	"chainguard.dev/codejudge/internal/cli"
	"chainguard.dev/codejudge/quality/config"
	"chainguard.dev/codejudge/quality/criteria"
	"chainguard.dev/codejudge/quality/report"
	"chainguard.dev/codejudge/quality/results"
	"github.com/spf13/cobra"
)

// judgeFactory creates the judge client for a configuration.
type judgeFactory func(ctx context.Context, cfg *config.Config) (judge.Interface, error)

func main() {
	cli.Main(newCommand(func(ctx context.Context, cfg *config.Config) (judge.Interface, error) {
		return cfg.Judge(ctx)
	}))
}

func newCommand(newJudge judgeFactory) *cobra.Command {
	var save, description string
	cmd := &cobra.Command{
		Use:     "judge <task> <output>",
		Short:   "Evaluate generated output against a task",
		Example: `  judge "Write a function that reverses a string" "$(cat reverse.go)"`,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				if err := cmd.Usage(); err != nil {
					return err
				}
				return cli.Exit(1)
			}
			req := criteria.Request{Description: description, Task: args[0], Output: args[1]}

			ctx, cfg, err := cli.Setup(cmd, "code", req.Label())
			if err != nil {
				return err
			}
			spec, err := cfg.Criteria(criteria.Default())
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

			e := ev.Evaluate(ctx, req)
			if err := report.Evaluation(cmd.OutOrStdout(), spec, e); err != nil {
				return err
			}
			if save != "" {
				store := results.NewStore()
				defer store.Close()
				if err := store.Save(ctx, save, map[string]any{"results": results.Set{e.Record()}}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nResult saved to: %s\n", save)
			}
			if !e.Success {
				return cli.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "write the result record as a results store to this location")
	cmd.Flags().StringVar(&description, "description", "", "label for the result record (default: the task)")
	return cmd
}
