/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quality_gate_decisions_total",
			Help: "Total number of quality gate decisions by outcome",
		},
		[]string{"outcome"},
	)

	passRateGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quality_gate_pass_rate",
			Help: "Most recent pass rate seen by the quality gate (0-100)",
		},
	)
)

func record(d Decision) {
	outcome := "reject"
	if d.Admit {
		outcome = "admit"
	}
	decisionCounter.WithLabelValues(outcome).Inc()
	passRateGauge.Set(d.Stats.PassRate)
}

func recordError() {
	decisionCounter.WithLabelValues("config_error").Inc()
}
