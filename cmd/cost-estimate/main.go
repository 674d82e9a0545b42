/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command cost-estimate prices the judge usage of a results store.
package main

import (
	"errors"
	"fmt"

	"chainguard.dev/codejudge/internal/cli"
	"chainguard.dev/codejudge/quality/cost"
	"chainguard.dev/codejudge/quality/report"
	"chainguard.dev/codejudge/quality/results"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

func main() {
	cli.Main(newCommand())
}

func newCommand() *cobra.Command {
	var model string
	var evaluations int
	cmd := &cobra.Command{
		Use:   "cost-estimate [results-location]",
		Short: "Estimate the judge cost of a run",
		Long: `Prices the token usage recorded in a results store, estimating 500 input and
300 output tokens for records without usage. With --evaluations the store is not read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := cli.Setup(cmd, "cost", "")
			if err != nil {
				return err
			}
			if model == "" {
				model = cfg.Model
			}
			table, err := cfg.Pricing()
			if err != nil {
				return &cli.ExitError{Code: 2, Err: err}
			}

			var usage cost.Usage
			if evaluations > 0 {
				usage = cost.Usage{
					Evaluations:  evaluations,
					InputTokens:  cost.PerEvaluation.InputTokens * int64(evaluations),
					OutputTokens: cost.PerEvaluation.OutputTokens * int64(evaluations),
					Estimated:    true,
				}
			} else {
				location := cfg.ResultsFile
				if len(args) > 0 {
					location = args[0]
				}
				store := results.NewStore()
				defer store.Close()
				set, err := store.Load(ctx, location)
				if errors.Is(err, results.ErrNotFound) {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "No results file found - skipping cost estimation")
					return err
				} else if err != nil {
					return err
				}
				usage = cost.UsageFromResults(set, cost.PerEvaluation)
			}

			est := cost.Compute(table, model, usage)
			if est.Fallback {
				clog.FromContext(ctx).Warnf("No price for %s, using %s", model, est.PricedAs)
			}
			return report.Cost(cmd.OutOrStdout(), est)
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "model to price (default CLAUDE_MODEL)")
	cmd.Flags().IntVar(&evaluations, "evaluations", 0, "estimate this many evaluations instead of reading a results store")
	return cmd
}
