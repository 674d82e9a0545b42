/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
)

// DefaultMaxTokens is the response budget used when a Request does not set one.
const DefaultMaxTokens int64 = 2000

// Request is a single prompt for the judge.
type Request struct {
	// Model overrides the client's model when set. It must belong to the same provider.
	Model string `json:"model,omitempty"`

	// Prompt is the complete text sent to the judge.
	Prompt string `json:"prompt"`

	// MaxTokens bounds the length of the response.
	MaxTokens int64 `json:"max_tokens,omitempty"`

	// Temperature is the sampling temperature. Nil leaves the provider default.
	// Low values make structured output more reliably parseable.
	Temperature *float64 `json:"temperature,omitempty"`
}

// Usage holds the token counters reported by the provider.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Response is the raw judge output.
type Response struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Usage Usage  `json:"usage"`
}

// Interface defines the contract for judge implementations
type Interface interface {
	// Complete sends the prompt and waits for a single text response.
	Complete(ctx context.Context, request *Request) (*Response, error)
}

// Func adapts an ordinary function to Interface.
type Func func(ctx context.Context, request *Request) (*Response, error)

// Complete implements Interface
func (f Func) Complete(ctx context.Context, request *Request) (*Response, error) {
	return f(ctx, request)
}

// Float returns a pointer to v, for Request.Temperature.
func Float(v float64) *float64 {
	return &v
}

func (r *Request) validate() error {
	if r == nil {
		return errors.New("request is required")
	}
	if r.Prompt == "" {
		return errors.New("prompt is required")
	}
	if r.MaxTokens < 0 {
		return errors.New("max_tokens cannot be negative")
	}
	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 2) {
		return errors.New("temperature must be within [0, 2]")
	}
	return nil
}

func (r *Request) maxTokens() int64 {
	if r.MaxTokens == 0 {
		return DefaultMaxTokens
	}
	return r.MaxTokens
}
