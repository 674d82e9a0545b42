/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"errors"
	"net/http"

	"chainguard.dev/codejudge/agents/executor/retry"
	"chainguard.dev/codejudge/agents/metrics"
)

// Option configures a judge client.
type Option func(*config) error

type config struct {
	anthropicKey string
	geminiKey    string
	openaiKey    string
	baseURL      string
	httpClient   *http.Client
	retry        retry.Config
	enricher     metrics.AttributeEnricher
	meterName    string
}

func defaultConfig() *config {
	return &config{
		retry:     retry.DefaultConfig(),
		meterName: "chainguard.dev/codejudge",
	}
}

// WithAnthropicAPIKey sets the credential used for claude-* models.
func WithAnthropicAPIKey(key string) Option {
	return func(c *config) error {
		c.anthropicKey = key
		return nil
	}
}

// WithGeminiAPIKey sets the credential used for gemini-* models.
func WithGeminiAPIKey(key string) Option {
	return func(c *config) error {
		c.geminiKey = key
		return nil
	}
}

// WithOpenAIAPIKey sets the credential used for OpenAI models.
func WithOpenAIAPIKey(key string) Option {
	return func(c *config) error {
		c.openaiKey = key
		return nil
	}
}

// WithBaseURL points the backend at a different API endpoint, such as a proxy.
func WithBaseURL(url string) Option {
	return func(c *config) error {
		if url == "" {
			return errors.New("base URL cannot be empty")
		}
		c.baseURL = url
		return nil
	}
}

// WithHTTPClient sets the HTTP client used by the backend.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithRetryConfig sets the retry policy for transient provider errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *config) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.retry = cfg
		return nil
	}
}

// WithAttributeEnricher adds contextual attributes to token and call metrics.
func WithAttributeEnricher(enricher metrics.AttributeEnricher) Option {
	return func(c *config) error {
		c.enricher = enricher
		return nil
	}
}
