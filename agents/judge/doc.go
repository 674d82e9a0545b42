/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package judge sends evaluation prompts to an external judge model and returns
its raw text together with token usage.

# Backends

New selects a backend from the model identifier:

  - claude-*: Anthropic Messages API
  - gemini-*: Google Gemini API
  - gpt-*, o1*, o3*, o4*: OpenAI Chat Completions API

A single grading call:

	j, err := judge.New(ctx, "claude-sonnet-4-20250514",
		judge.WithAnthropicAPIKey(os.Getenv("ANTHROPIC_API_KEY")))
	if err != nil {
		return err
	}

	resp, err := j.Complete(ctx, &judge.Request{
		Prompt:      prompt,
		MaxTokens:   2000,
		Temperature: judge.Float(0.3),
	})

# Retries

Rate limits and overloaded responses are retried with exponential backoff
(see the retry package). Every other failure is returned to the caller on the
first attempt. The SDKs' own retry loops are disabled so that attempts are
counted in one place.

# Observability

Each Complete call produces an agenttrace.Call with one span, and records
token usage and call outcomes through the metrics package.
*/
package judge
