/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chainguard.dev/codejudge/quality/aggregate"
	"chainguard.dev/codejudge/quality/results"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		threshold float64
		wantAdmit bool
		wantExit  int
	}{
		{"exactly at threshold", 70, 70, true, ExitAdmit},
		{"just below threshold", 69.9, 70, false, ExitReject},
		{"above threshold", 80, 70, true, ExitAdmit},
		{"empty run against zero threshold", 0, 0, true, ExitAdmit},
		{"empty run against default", 0, DefaultThreshold, false, ExitReject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(aggregate.Stats{PassRate: tt.rate}, tt.threshold)
			if d.Admit != tt.wantAdmit {
				t.Errorf("Admit: got = %t, wanted = %t", d.Admit, tt.wantAdmit)
			}
			if got := d.ExitCode(); got != tt.wantExit {
				t.Errorf("ExitCode(): got = %d, wanted = %d", got, tt.wantExit)
			}
			if d.Threshold != tt.threshold {
				t.Errorf("Threshold: got = %v, wanted = %v", d.Threshold, tt.threshold)
			}
		})
	}
}

func TestDecisionString(t *testing.T) {
	if s := (Decision{Admit: true}).String(); !strings.Contains(s, "PASSED") {
		t.Errorf("String(): got = %q, wanted PASSED", s)
	}
	if s := (Decision{}).String(); !strings.Contains(s, "FAILED") {
		t.Errorf("String(): got = %q, wanted FAILED", s)
	}
}

func writeStore(t *testing.T, passed, total int) string {
	t.Helper()
	var recs []string
	for i := range total {
		recs = append(recs, fmt.Sprintf(`{"description": "case %d", "success": %t}`, i, i < passed))
	}
	path := filepath.Join(t.TempDir(), "test-results.json")
	if err := os.WriteFile(path, []byte(`{"results": [`+strings.Join(recs, ",")+`]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckEndToEnd(t *testing.T) {
	ctx := context.Background()
	before := testutil.ToFloat64(decisionCounter.WithLabelValues("admit"))

	d, err := Check(ctx, results.NewStore(), writeStore(t, 8, 10), DefaultThreshold)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if d.Stats.PassRate != 80 || !d.Admit || d.ExitCode() != ExitAdmit {
		t.Errorf("Check(): got = %+v, wanted admit at 80%%", d)
	}
	if got := testutil.ToFloat64(decisionCounter.WithLabelValues("admit")) - before; got != 1 {
		t.Errorf("admit counter delta: got = %v, wanted = 1", got)
	}
	if got := testutil.ToFloat64(passRateGauge); got != 80 {
		t.Errorf("pass rate gauge: got = %v, wanted = 80", got)
	}
}

func TestCheckReject(t *testing.T) {
	d, err := Check(context.Background(), results.NewStore(), writeStore(t, 6, 10), DefaultThreshold)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if d.Admit || d.ExitCode() != ExitReject {
		t.Errorf("Check(): got = %+v, wanted reject", d)
	}
}

func TestCheckMissingStoreIsConfigError(t *testing.T) {
	_, err := Check(context.Background(), results.NewStore(), filepath.Join(t.TempDir(), "missing.json"), DefaultThreshold)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("Check() error = %v, wanted *ConfigError", err)
	}
	if !errors.Is(err, results.ErrNotFound) {
		t.Errorf("Check() error = %v, wanted to wrap ErrNotFound", err)
	}
	if got := ExitCodeFor(err); got != ExitConfig {
		t.Errorf("ExitCodeFor(): got = %d, wanted = %d", got, ExitConfig)
	}
	if ExitConfig == ExitReject {
		t.Error("configuration failures must not share the reject exit status")
	}
}

func TestCheckBadThreshold(t *testing.T) {
	_, err := Check(context.Background(), results.NewStore(), writeStore(t, 1, 1), 150)
	if got := ExitCodeFor(err); got != ExitConfig {
		t.Errorf("ExitCodeFor(): got = %d, wanted = %d (err = %v)", got, ExitConfig, err)
	}
}

func TestCheckInvalidThresholdIsConfigError(t *testing.T) {
	path := writeStore(t, 10, 10)
	for _, threshold := range []float64{math.NaN(), math.Inf(1), -1, 100.5} {
		t.Run(fmt.Sprint(threshold), func(t *testing.T) {
			_, err := Check(context.Background(), results.NewStore(), path, threshold)
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Check() error = %v, wanted *ConfigError", err)
			}
			if got := ExitCodeFor(err); got != ExitConfig {
				t.Errorf("ExitCodeFor(): got = %d, wanted = %d", got, ExitConfig)
			}
		})
	}
}
