/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package cli holds the process plumbing shared by the judge tools.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/codejudge/agents/agenttrace"
	"chainguard.dev/codejudge/quality/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ExitError carries a specific process exit status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit returns an error that makes Main exit with code without printing anything.
func Exit(code int) error {
	return &ExitError{Code: code}
}

// Code returns the exit status for err: 0 for nil, the carried code for an
// ExitError, and 1 otherwise.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// Main runs cmd with a context cancelled on SIGINT or SIGTERM and exits the
// process with the resulting status.
func Main(cmd *cobra.Command) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Execute(ctx, cmd, os.Stderr)
	cancel()
	os.Exit(Code(err))
}

// Execute runs cmd and reports any error with a message on stderr.
func Execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(ctx)
	var ee *ExitError
	if err != nil && (!errors.As(err, &ee) || ee.Err != nil) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return err
}

// Setup loads the environment configuration and installs the logger on the
// command's context. The run is tagged with kind and target for tracing.
func Setup(cmd *cobra.Command, kind, target string) (context.Context, *config.Config, error) {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, &ExitError{Code: 2, Err: err}
	}
	ctx = cfg.Logger(ctx, cmd.ErrOrStderr())
	ctx = agenttrace.WithRunContext(ctx, agenttrace.RunContext{
		RunID:  uuid.NewString(),
		Kind:   kind,
		Target: target,
	})
	return ctx, cfg, nil
}
