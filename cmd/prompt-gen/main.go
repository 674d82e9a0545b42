/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command prompt-gen renders a manual-review prompt for a project so it can be
// evaluated in a chat session without API cost.
package main

import (
	"fmt"

	"chainguard.dev/codejudge/internal/cli"
	"chainguard.dev/codejudge/quality/criteria"
	"chainguard.dev/codejudge/quality/report"
	"chainguard.dev/codejudge/quality/results"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

func main() {
	cli.Main(newCommand())
}

func newCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt-gen <directory | github:owner/repo>",
		Short: "Generate a manual-review prompt for a project",
		Long: `Analyzes a project and writes a review prompt to OUTPUT_DIR. Relative directories
are resolved against PROJECTS_DIR.`,
		Example: "  prompt-gen my-service\n  prompt-gen github:acme/widget",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if err := cmd.Usage(); err != nil {
					return err
				}
				return cli.Exit(1)
			}
			target := args[0]
			ctx, cfg, err := cli.Setup(cmd, "project", target)
			if err != nil {
				return err
			}
			spec, err := cfg.Criteria(criteria.Project())
			if err != nil {
				return &cli.ExitError{Code: 2, Err: err}
			}
			analyzer, err := cfg.Analyzer(ctx)
			if err != nil {
				return err
			}

			an, err := analyzer.Analyze(ctx, target)
			if err != nil {
				return err
			}
			prompt, err := an.ReviewPrompt(spec)
			if err != nil {
				return err
			}

			location := results.Join(cfg.OutputDir, report.ReviewFileName(an.Name))
			store := results.NewStore()
			defer store.Close()
			if err := store.Write(ctx, location, []byte(prompt)); err != nil {
				return err
			}
			clog.FromContext(ctx).With("location", location).Info("Saved review prompt")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Prompt saved to: %s\n\n", location)
			_, err = fmt.Fprintln(out, prompt)
			return err
		},
	}
}
