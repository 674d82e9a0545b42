/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"errors"
	"time"

	"chainguard.dev/codejudge/quality/cost"
)

const (
	// DefaultTimeout bounds each judge call.
	DefaultTimeout = 2 * time.Minute
	// DefaultConcurrency bounds the judge calls Batch keeps in flight.
	DefaultConcurrency = 4
)

// Option configures an Evaluator.
type Option func(*Evaluator) error

// WithModel overrides the judge client's model for each request.
func WithModel(model string) Option {
	return func(e *Evaluator) error {
		e.model = model
		return nil
	}
}

// WithMaxTokens bounds the judge's response length.
func WithMaxTokens(n int64) Option {
	return func(e *Evaluator) error {
		if n <= 0 {
			return errors.New("max tokens must be positive")
		}
		e.maxTokens = n
		return nil
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(e *Evaluator) error {
		if t < 0 || t > 2 {
			return errors.New("temperature must be within [0, 2]")
		}
		e.temperature = &t
		return nil
	}
}

// WithTimeout bounds each judge call. Zero disables the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) error {
		if d < 0 {
			return errors.New("timeout cannot be negative")
		}
		e.timeout = d
		return nil
	}
}

// WithConcurrency bounds the number of concurrent judge calls in Batch.
func WithConcurrency(n int) Option {
	return func(e *Evaluator) error {
		if n < 1 {
			return errors.New("concurrency must be at least 1")
		}
		e.concurrency = n
		return nil
	}
}

// WithPricing attaches a cost to each evaluation from its token usage.
func WithPricing(table *cost.Table) Option {
	return func(e *Evaluator) error {
		if table == nil {
			return errors.New("pricing table is required")
		}
		e.pricing = table
		return nil
	}
}
