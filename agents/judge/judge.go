/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/codejudge/agents/agenttrace"
	"chainguard.dev/codejudge/agents/executor/retry"
	"chainguard.dev/codejudge/agents/metrics"
	"github.com/chainguard-dev/clog"
)

// backend performs a single provider round trip.
type backend interface {
	send(ctx context.Context, model string, request *Request) (*Response, error)
	retryable(err error) bool
}

// Provider identifies the API family serving a model.
type Provider string

const (
	Anthropic Provider = "anthropic"
	Google    Provider = "google"
	OpenAI    Provider = "openai"
)

// ProviderFor returns the provider serving model.
func ProviderFor(model string) (Provider, error) {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "claude-"):
		return Anthropic, nil
	case strings.HasPrefix(m, "gemini-"):
		return Google, nil
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "chatgpt-"),
		strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return OpenAI, nil
	}
	return "", fmt.Errorf("unsupported model: %s (expected claude-*, gemini-*, or gpt-*)", model)
}

// New creates a judge for model, delegating to the provider implementation
// selected by the model name.
func New(ctx context.Context, model string, opts ...Option) (Interface, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	provider, err := ProviderFor(model)
	if err != nil {
		return nil, err
	}

	var b backend
	switch provider {
	case Anthropic:
		b, err = newClaude(cfg)
	case Google:
		b, err = newGoogle(ctx, cfg)
	case OpenAI:
		b, err = newOpenAI(cfg)
	}
	if err != nil {
		return nil, err
	}

	m := metrics.NewGenAI(cfg.meterName)
	if cfg.enricher != nil {
		m.SetAttributeEnricher(cfg.enricher)
	}

	return &client{
		model:    model,
		provider: provider,
		backend:  b,
		retry:    cfg.retry,
		metrics:  m,
	}, nil
}

// client wraps a backend with validation, retries, tracing, and metrics.
type client struct {
	model    string
	provider Provider
	backend  backend
	retry    retry.Config
	metrics  *metrics.GenAI
}

// Complete implements Interface
func (c *client) Complete(ctx context.Context, request *Request) (*Response, error) {
	if err := request.validate(); err != nil {
		return nil, err
	}

	model := c.model
	if request.Model != "" {
		if p, err := ProviderFor(request.Model); err != nil || p != c.provider {
			return nil, fmt.Errorf("model %q is not served by the %s judge", request.Model, c.provider)
		}
		model = request.Model
	}

	ctx, call := agenttrace.StartCall(ctx, model, request.Prompt)
	log := clog.FromContext(ctx).With("model", model, "call_id", call.ID)

	resp, err := retry.Do(ctx, c.retry, "judge_complete", c.backend.retryable, func(int) (*Response, error) {
		r, err := c.backend.send(ctx, model, request)
		call.RecordAttempt(err)
		return r, err
	})
	if err != nil {
		c.metrics.RecordCall(ctx, model, "error")
		call.Complete("", err)
		log.Warn("Judge call failed", "error", err)
		return nil, fmt.Errorf("%s judge: %w", c.provider, err)
	}

	c.metrics.RecordCall(ctx, model, "ok")
	c.metrics.RecordTokens(ctx, model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	call.RecordTokenUsage(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	call.Complete(resp.Text, nil)

	log.With("input_tokens", resp.Usage.InputTokens, "output_tokens", resp.Usage.OutputTokens).
		Debug("Judge call completed")
	return resp, nil
}
