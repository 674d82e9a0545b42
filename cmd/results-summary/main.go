/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command results-summary prints the statistics of a results store.
package main

import (
	"chainguard.dev/codejudge/internal/cli"
	"chainguard.dev/codejudge/quality/aggregate"
	"chainguard.dev/codejudge/quality/report"
	"chainguard.dev/codejudge/quality/results"
	"github.com/spf13/cobra"
)

func main() {
	cli.Main(newCommand())
}

func newCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "results-summary [results-location]",
		Short: "Summarize a results store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := cli.Setup(cmd, "summary", "")
			if err != nil {
				return err
			}
			location := cfg.ResultsFile
			if len(args) > 0 {
				location = args[0]
			}

			store := results.NewStore()
			defer store.Close()
			set, err := store.Load(ctx, location)
			if err != nil {
				return err
			}
			return report.Summary(cmd.OutOrStdout(), aggregate.Compute(set), aggregate.Failures(set), cfg.MinPassRate)
		},
	}
}
