/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package results

import (
	"encoding/json"
)

// Usage holds token counters for one evaluation.
type Usage struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
}

// Record is one persisted evaluation outcome.
type Record struct {
	Description string          `json:"description,omitempty"`
	Success     bool            `json:"success"`
	Score       *float64        `json:"score,omitempty"`
	Error       string          `json:"error,omitempty"`
	Model       string          `json:"model,omitempty"`
	Tokens      *Usage          `json:"tokens_used,omitempty"`
	Cost        *float64        `json:"cost,omitempty"`
	Details     json.RawMessage `json:"details,omitempty"`
}

// Set is an ordered collection of records.
type Set []Record

// Name returns the description, or a placeholder for unnamed records.
func (r Record) Name() string {
	if r.Description != "" {
		return r.Description
	}
	return "Unnamed test"
}

// Float returns a pointer to v, for Record.Score and Record.Cost.
func Float(v float64) *float64 {
	return &v
}

// UnmarshalJSON also accepts the field names written by promptfoo:
// tokenUsage {prompt, completion}, testCase.description and
// gradingResult {pass, score, reason}. Top-level fields take precedence.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var aux struct {
		plain
		Success    *bool `json:"success"`
		TokenUsage *struct {
			Prompt     int64 `json:"prompt"`
			Completion int64 `json:"completion"`
		} `json:"tokenUsage"`
		TestCase *struct {
			Description string `json:"description"`
		} `json:"testCase"`
		GradingResult *struct {
			Pass   *bool    `json:"pass"`
			Score  *float64 `json:"score"`
			Reason string   `json:"reason"`
		} `json:"gradingResult"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Record(aux.plain)
	if aux.Success != nil {
		r.Success = *aux.Success
	}
	if r.Tokens == nil && aux.TokenUsage != nil {
		r.Tokens = &Usage{Input: aux.TokenUsage.Prompt, Output: aux.TokenUsage.Completion}
	}
	if r.Description == "" && aux.TestCase != nil {
		r.Description = aux.TestCase.Description
	}
	if g := aux.GradingResult; g != nil {
		if aux.Success == nil && g.Pass != nil {
			r.Success = *g.Pass
		}
		if r.Score == nil && g.Score != nil {
			r.Score = g.Score
		}
		if r.Error == "" && !r.Success {
			r.Error = g.Reason
		}
	}
	return nil
}
