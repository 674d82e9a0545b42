/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command quality-gate fails a CI run when the pass rate of a results store
// is below the configured threshold.
//
// Exit status is 0 when the gate admits, 1 when it rejects, and 2 when the
// store or configuration could not be read.
package main

import (
	"chainguard.dev/codejudge/internal/cli"
	"chainguard.dev/codejudge/quality/gate"
	"chainguard.dev/codejudge/quality/report"
	"chainguard.dev/codejudge/quality/results"
	"github.com/spf13/cobra"
)

func main() {
	cli.Main(newCommand())
}

func newCommand() *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "quality-gate [results-location]",
		Short: "Fail when the pass rate is below the threshold",
		Long: `Reads a results store (a local path or gs://bucket/object, default RESULTS_FILE)
and compares its pass rate with MIN_PASS_RATE or --threshold.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := cli.Setup(cmd, "gate", "")
			if err != nil {
				return err
			}
			location := cfg.ResultsFile
			if len(args) > 0 {
				location = args[0]
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.MinPassRate
			}

			out := cmd.OutOrStdout()
			store := results.NewStore()
			defer store.Close()
			d, err := gate.Check(ctx, store, location, threshold)
			if err != nil {
				if werr := report.GateError(out, err); werr != nil {
					return werr
				}
				return cli.Exit(gate.ExitCodeFor(err))
			}
			if err := report.Gate(out, d); err != nil {
				return err
			}
			if code := d.ExitCode(); code != gate.ExitAdmit {
				return cli.Exit(code)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", gate.DefaultThreshold, "minimum pass rate in percent (overrides MIN_PASS_RATE)")
	return cmd
}
