/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"encoding/json"
	"fmt"
	"time"

	"chainguard.dev/codejudge/agents/judge"
	"chainguard.dev/codejudge/quality/criteria"
	"chainguard.dev/codejudge/quality/results"
	"chainguard.dev/codejudge/quality/verdict"
)

// Evaluation is the outcome of one request.
type Evaluation struct {
	Request criteria.Request `json:"request"`
	// Success reports whether a valid verdict was produced, not whether it passes.
	Success bool             `json:"success"`
	Kind    Kind             `json:"kind,omitempty"`
	Error   string           `json:"error,omitempty"`
	Err     error            `json:"-"`
	Verdict *verdict.Verdict `json:"verdict,omitempty"`
	// Raw is the judge's response text, kept for diagnostics.
	Raw      string        `json:"raw_response,omitempty"`
	Model    string        `json:"model,omitempty"`
	Usage    judge.Usage   `json:"tokens_used"`
	Cost     *float64      `json:"cost,omitempty"`
	Duration time.Duration `json:"duration"`
}

func (ev *Evaluation) fail(kind Kind, err error) *Evaluation {
	ev.Kind = kind
	ev.Err = err
	ev.Error = err.Error()
	return ev
}

func skipped(req criteria.Request, cause error) *Evaluation {
	ev := &Evaluation{Request: req}
	return ev.fail(KindSkipped, fmt.Errorf("not dispatched: %w", cause))
}

// Passed reports whether a verdict was produced and it meets the rubric threshold.
func (ev *Evaluation) Passed() bool {
	return ev.Success && ev.Verdict != nil && ev.Verdict.Passes
}

// Record converts the evaluation into a persisted result record.
// A record succeeds only when the verdict passes.
func (ev *Evaluation) Record() results.Record {
	r := results.Record{
		Description: ev.Request.Label(),
		Success:     ev.Passed(),
		Model:       ev.Model,
		Cost:        ev.Cost,
	}
	if ev.Usage != (judge.Usage{}) {
		r.Tokens = &results.Usage{Input: ev.Usage.InputTokens, Output: ev.Usage.OutputTokens}
	}
	if !ev.Success {
		r.Error = fmt.Sprintf("%s: %s", ev.Kind, ev.Error)
		return r
	}
	r.Score = results.Float(ev.Verdict.OverallScore)
	if details, err := json.Marshal(ev.Verdict); err == nil {
		r.Details = details
	}
	return r
}

// Records converts evaluations into a result set, preserving order.
func Records(evs []*Evaluation) results.Set {
	set := make(results.Set, 0, len(evs))
	for _, ev := range evs {
		set = append(set, ev.Record())
	}
	return set
}
