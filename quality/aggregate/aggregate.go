/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package aggregate reduces a results set to summary statistics.
package aggregate

import "chainguard.dev/codejudge/quality/results"

// Stats summarizes a results set.
type Stats struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	// Scored is the number of records that contributed to AverageScore.
	Scored       int     `json:"scored"`
	AverageScore float64 `json:"average_score"`
	// PassRate is Passed/Total as a percentage, and 0 when Total is 0.
	PassRate float64 `json:"pass_rate"`
	// TotalCost sums the recorded per-record costs.
	TotalCost float64 `json:"total_cost"`
	// Tokens sums the recorded per-record usage; TokenRecords counts the records that had any.
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TokenRecords int   `json:"token_records"`
}

// Compute reduces set to Stats. Records without a positive score are
// excluded from the average but still counted toward the totals.
func Compute(set results.Set) Stats {
	var s Stats
	var sum float64
	for _, r := range set {
		s.Total++
		if r.Success {
			s.Passed++
		}
		if r.Score != nil && *r.Score > 0 {
			s.Scored++
			sum += *r.Score
		}
		if r.Cost != nil {
			s.TotalCost += *r.Cost
		}
		if r.Tokens != nil {
			s.TokenRecords++
			s.InputTokens += r.Tokens.Input
			s.OutputTokens += r.Tokens.Output
		}
	}
	s.Failed = s.Total - s.Passed
	if s.Scored > 0 {
		s.AverageScore = sum / float64(s.Scored)
	}
	if s.Total > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Total) * 100
	}
	return s
}

// Failures returns the unsuccessful records in their original order.
func Failures(set results.Set) results.Set {
	var out results.Set
	for _, r := range set {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}
