/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package config loads the environment configuration shared by the CLI tools
// and builds the components it describes.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"chainguard.dev/codejudge/agents/agenttrace"
	"chainguard.dev/codejudge/agents/judge"
	"chainguard.dev/codejudge/quality/cost"
	"chainguard.dev/codejudge/quality/criteria"
	"chainguard.dev/codejudge/quality/evaluator"
	"chainguard.dev/codejudge/quality/project"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/sethvargo/go-envconfig"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
)

// Config is the environment of the judge tools.
type Config struct {
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	GitHubToken     string `env:"GITHUB_TOKEN"`

	Model       string        `env:"CLAUDE_MODEL,default=claude-sonnet-4-20250514"`
	MaxTokens   int64         `env:"JUDGE_MAX_TOKENS,default=2000"`
	Temperature float64       `env:"JUDGE_TEMPERATURE,default=0.3"`
	Timeout     time.Duration `env:"JUDGE_TIMEOUT,default=2m"`
	Concurrency int           `env:"JUDGE_CONCURRENCY,default=4"`

	MinPassRate  float64 `env:"MIN_PASS_RATE,default=70"`
	ResultsFile  string  `env:"RESULTS_FILE,default=test-results.json"`
	PricingFile  string  `env:"PRICING_FILE"`
	CriteriaFile string  `env:"CRITERIA_FILE"`

	ProjectsDir string `env:"PROJECTS_DIR"`
	// Projects is a comma separated list of directories or github:owner/repo targets.
	Projects  string `env:"PROJECTS"`
	OutputDir string `env:"OUTPUT_DIR,default=outputs"`

	LogLevel slog.Level `env:"LOG_LEVEL,default=info"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var c Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &c, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges that the environment cannot express.
func (c *Config) Validate() error {
	var errs []error
	if math.IsNaN(c.MinPassRate) || c.MinPassRate < 0 || c.MinPassRate > 100 {
		errs = append(errs, fmt.Errorf("MIN_PASS_RATE %v must be within [0, 100]", c.MinPassRate))
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("JUDGE_MAX_TOKENS %d must be positive", c.MaxTokens))
	}
	if math.IsNaN(c.Temperature) || c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("JUDGE_TEMPERATURE %v must be within [0, 2]", c.Temperature))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("JUDGE_TIMEOUT %v cannot be negative", c.Timeout))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("JUDGE_CONCURRENCY %d must be at least 1", c.Concurrency))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("CLAUDE_MODEL is required"))
	}
	return errors.Join(errs...)
}

// Logger returns ctx carrying a text logger on w at the configured level.
func (c *Config) Logger(ctx context.Context, w io.Writer) context.Context {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel})
	return clog.WithLogger(ctx, clog.New(h))
}

// Judge creates the judge client for the configured model.
func (c *Config) Judge(ctx context.Context, opts ...judge.Option) (judge.Interface, error) {
	opts = append([]judge.Option{
		judge.WithAnthropicAPIKey(c.AnthropicAPIKey),
		judge.WithGeminiAPIKey(c.GeminiAPIKey),
		judge.WithOpenAIAPIKey(c.OpenAIAPIKey),
		judge.WithAttributeEnricher(func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
			return agenttrace.GetRunContext(ctx).EnrichAttributes(base)
		}),
	}, opts...)
	return judge.New(ctx, c.Model, opts...)
}

// Criteria returns the rubric from CRITERIA_FILE, or fallback when unset.
func (c *Config) Criteria(fallback *criteria.Spec) (*criteria.Spec, error) {
	if c.CriteriaFile == "" {
		return fallback, nil
	}
	return criteria.Load(c.CriteriaFile)
}

// Pricing returns the table from PRICING_FILE, or the built-in table when unset.
func (c *Config) Pricing() (*cost.Table, error) {
	if c.PricingFile == "" {
		return cost.DefaultTable(), nil
	}
	return cost.LoadTable(c.PricingFile)
}

// Evaluator creates an evaluator for spec using the configured judge settings.
func (c *Config) Evaluator(client judge.Interface, spec *criteria.Spec) (*evaluator.Evaluator, error) {
	pricing, err := c.Pricing()
	if err != nil {
		return nil, err
	}
	return evaluator.New(client, spec,
		evaluator.WithModel(c.Model),
		evaluator.WithMaxTokens(c.MaxTokens),
		evaluator.WithTemperature(c.Temperature),
		evaluator.WithTimeout(c.Timeout),
		evaluator.WithConcurrency(c.Concurrency),
		evaluator.WithPricing(pricing),
	)
}

// GitHub returns a GitHub client, authenticated when GITHUB_TOKEN is set.
func (c *Config) GitHub(ctx context.Context) *github.Client {
	if c.GitHubToken == "" {
		return github.NewClient(nil)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.GitHubToken})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// Analyzer creates a project analyzer rooted at PROJECTS_DIR.
func (c *Config) Analyzer(ctx context.Context) (*project.Analyzer, error) {
	return project.NewAnalyzer(
		project.WithBaseDir(c.ProjectsDir),
		project.WithGitHubClient(c.GitHub(ctx)),
	)
}
