/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package cost converts judge token usage into an advisory dollar estimate.
package cost

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"chainguard.dev/codejudge/quality/results"
	"gopkg.in/yaml.v3"
)

// DefaultModel is the pricing entry used for unknown models.
const DefaultModel = "claude-sonnet-4-20250514"

// TipThreshold is the run cost, in USD, above which optimization tips are shown.
const TipThreshold = 0.10

// Price is the cost in USD per million tokens.
type Price struct {
	Input  float64 `yaml:"input" json:"input"`
	Output float64 `yaml:"output" json:"output"`
}

// Table maps model identifiers to prices.
type Table struct {
	Default string           `yaml:"default"`
	Models  map[string]Price `yaml:"models"`
}

// DefaultTable returns the built-in prices.
func DefaultTable() *Table {
	return &Table{
		Default: DefaultModel,
		Models: map[string]Price{
			DefaultModel:   {Input: 3, Output: 15},
			"claude-haiku": {Input: 0.25, Output: 1.25},
			"claude-opus":  {Input: 15, Output: 75},
		},
	}
}

// LoadTable reads a YAML pricing file and layers it over DefaultTable.
//
//	default: claude-sonnet-4-20250514
//	models:
//	  gpt-4o: {input: 2.5, output: 10}
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pricing file: %w", err)
	}
	var file Table
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing pricing file: %w", err)
	}

	t := DefaultTable()
	maps.Copy(t.Models, file.Models)
	if file.Default != "" {
		t.Default = file.Default
	}
	if _, ok := t.Models[t.Default]; !ok {
		return nil, fmt.Errorf("pricing file: default model %q has no price", t.Default)
	}
	for name, p := range t.Models {
		if p.Input < 0 || p.Output < 0 {
			return nil, fmt.Errorf("pricing file: %s has a negative price", name)
		}
	}
	return t, nil
}

// Lookup returns the price for model. An exact entry wins, then the longest
// entry that prefixes model, then the default entry. The returned name is the
// entry actually used.
func (t *Table) Lookup(model string) (price Price, name string, fallback bool) {
	if p, ok := t.Models[model]; ok {
		return p, model, false
	}
	best := ""
	for k := range t.Models {
		if strings.HasPrefix(model, k) && len(k) > len(best) {
			best = k
		}
	}
	if best != "" {
		return t.Models[best], best, false
	}
	return t.Models[t.Default], t.Default, true
}

// Usage is the token volume of a run.
type Usage struct {
	Evaluations  int   `json:"evaluations"`
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	// Estimated is set when any part of the usage came from the per-evaluation estimate.
	Estimated bool `json:"estimated"`
}

// PerEvaluation is the assumed usage of one evaluation without recorded data.
var PerEvaluation = Usage{Evaluations: 1, InputTokens: 500, OutputTokens: 300, Estimated: true}

// UsageFromResults sums the recorded token usage of set, substituting perEval
// for records that carry none.
func UsageFromResults(set results.Set, perEval Usage) Usage {
	u := Usage{Evaluations: len(set)}
	for _, r := range set {
		if r.Tokens != nil {
			u.InputTokens += r.Tokens.Input
			u.OutputTokens += r.Tokens.Output
			continue
		}
		u.InputTokens += perEval.InputTokens
		u.OutputTokens += perEval.OutputTokens
		u.Estimated = true
	}
	return u
}

// Estimate is the priced cost of a run.
type Estimate struct {
	Model      string  `json:"model"`
	PricedAs   string  `json:"priced_as"`
	Fallback   bool    `json:"fallback"`
	Price      Price   `json:"price"`
	Usage      Usage   `json:"usage"`
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	Total      float64 `json:"total"`
}

// Compute prices usage for model using table.
func Compute(table *Table, model string, usage Usage) Estimate {
	price, name, fallback := table.Lookup(model)
	e := Estimate{
		Model:      model,
		PricedAs:   name,
		Fallback:   fallback,
		Price:      price,
		Usage:      usage,
		InputCost:  float64(usage.InputTokens) / 1_000_000 * price.Input,
		OutputCost: float64(usage.OutputTokens) / 1_000_000 * price.Output,
	}
	e.Total = e.InputCost + e.OutputCost
	return e
}

// Project returns the cost of repeating the run n times.
func (e Estimate) Project(n int) float64 {
	return e.Total * float64(n)
}

// PerEvaluation returns the average cost of one evaluation, or 0 for an empty run.
func (e Estimate) PerEvaluation() float64 {
	if e.Usage.Evaluations == 0 {
		return 0
	}
	return e.Total / float64(e.Usage.Evaluations)
}

// Tips returns cost optimization suggestions when the run is expensive.
func (e Estimate) Tips() []string {
	if e.Total <= TipThreshold {
		return nil
	}
	return []string{
		"Use claude-haiku for cheaper evaluations",
		"Reduce max_tokens in the judge configuration",
		"Use deterministic checks where possible",
		"Batch evaluations instead of running on every commit",
	}
}
