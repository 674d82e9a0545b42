/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gate turns aggregate statistics into an admit or reject decision
// and the process exit status that goes with it.
package gate

import (
	"context"
	"errors"
	"fmt"
	"math"

	"chainguard.dev/codejudge/quality/aggregate"
	"chainguard.dev/codejudge/quality/results"
	"github.com/chainguard-dev/clog"
)

// Exit statuses of the gate.
const (
	ExitAdmit  = 0
	ExitReject = 1
	// ExitConfig signals a broken pipeline, such as a missing results store.
	ExitConfig = 2
)

// DefaultThreshold is the minimum pass rate, in percent.
const DefaultThreshold = 70.0

// Decision is the outcome of comparing a pass rate against a threshold.
type Decision struct {
	Stats     aggregate.Stats `json:"stats"`
	Threshold float64         `json:"threshold"`
	Admit     bool            `json:"admit"`
}

// Evaluate admits when the pass rate is at least threshold.
func Evaluate(stats aggregate.Stats, threshold float64) Decision {
	return Decision{
		Stats:     stats,
		Threshold: threshold,
		Admit:     stats.PassRate >= threshold,
	}
}

// ExitCode maps the decision to a process exit status.
func (d Decision) ExitCode() int {
	if d.Admit {
		return ExitAdmit
	}
	return ExitReject
}

// String returns the one-line verdict printed by the gate.
func (d Decision) String() string {
	if d.Admit {
		return "Quality gate PASSED - Code meets quality standards"
	}
	return "Quality gate FAILED - Code quality below threshold"
}

// ConfigError reports a setup problem the caller must fix before rerunning.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "configuration error: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCodeFor maps an error from Check to an exit status.
func ExitCodeFor(err error) int {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ExitConfig
	}
	return ExitReject
}

// Check loads the results store at location and evaluates it. A missing or
// malformed store is a *ConfigError, never an empty admitted run.
func Check(ctx context.Context, store *results.Store, location string, threshold float64) (Decision, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 100 {
		return Decision{}, &ConfigError{Err: fmt.Errorf("threshold %v must be within [0, 100]", threshold)}
	}
	set, err := store.Load(ctx, location)
	if err != nil {
		recordError()
		return Decision{}, &ConfigError{Err: err}
	}

	d := Evaluate(aggregate.Compute(set), threshold)
	record(d)
	clog.FromContext(ctx).With(
		"location", location,
		"pass_rate", d.Stats.PassRate,
		"threshold", d.Threshold,
		"admit", d.Admit,
	).Info("Quality gate evaluated")
	return d, nil
}
