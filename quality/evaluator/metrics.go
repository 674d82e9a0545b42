/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judge_evaluations_total",
			Help: "Total number of judge evaluations by outcome",
		},
		[]string{"outcome"},
	)

	evaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "judge_evaluation_duration_seconds",
			Help:    "Duration of judge evaluations that reached the judge",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)

// outcome returns the metric label for an evaluation.
func outcome(ev *Evaluation) string {
	switch {
	case ev.Passed():
		return "pass"
	case ev.Success:
		return "fail"
	default:
		return string(ev.Kind)
	}
}

func record(ev *Evaluation) {
	evaluationCounter.WithLabelValues(outcome(ev)).Inc()
	if ev.Kind != KindSkipped && ev.Kind != KindRequest {
		evaluationDuration.Observe(ev.Duration.Seconds())
	}
}
