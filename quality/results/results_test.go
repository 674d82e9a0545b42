/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package results_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"chainguard.dev/codejudge/quality/results"
	"cloud.google.com/go/storage"
	"github.com/google/go-cmp/cmp"
)

const records = `[
  {"description": "email validator", "success": true, "score": 8},
  {"description": "url parser", "success": false, "error": "judge response is not parseable"}
]`

func TestDecodeShapes(t *testing.T) {
	want := results.Set{
		{Description: "email validator", Success: true, Score: results.Float(8)},
		{Description: "url parser", Error: "judge response is not parseable"},
	}

	for name, doc := range map[string]string{
		"bare":         records,
		"wrapped":      `{"results": ` + records + `}`,
		"double":       `{"version": 3, "results": {"stats": {}, "results": ` + records + `}}`,
		"surrounded":   "\n\t" + records + "\n",
		"extra fields": `{"timestamp": "2025-01-01T00:00:00Z", "summary": {"passing": 1}, "results": ` + records + `}`,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := results.Decode([]byte(doc))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, doc := range []string{`[]`, `{"results": []}`, `{"results": {"results": []}}`} {
		got, err := results.Decode([]byte(doc))
		if err != nil {
			t.Fatalf("Decode(%s) error = %v", doc, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Decode(%s): got = %#v, wanted empty non-nil set", doc, got)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":          "",
		"scalar":         "42",
		"no results":     `{"summary": {}}`,
		"null results":   `{"results": null}`,
		"nested too far": `{"results": {"results": {"results": []}}}`,
		"bad record":     `[{"success": "yes"}]`,
		"truncated":      `[{"success": true}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := results.Decode([]byte(doc)); !errors.Is(err, results.ErrMalformed) {
				t.Errorf("Decode() error = %v, wanted ErrMalformed", err)
			}
		})
	}
}

func TestDecodePromptfooFields(t *testing.T) {
	doc := `{"results": {"results": [
	  {"success": true, "score": 1, "cost": 0.0021, "testCase": {"description": "validator"}, "tokenUsage": {"prompt": 500, "completion": 300, "total": 800}}
	]}}`
	got, err := results.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := results.Set{{
		Description: "validator",
		Success:     true,
		Score:       results.Float(1),
		Cost:        results.Float(0.0021),
		Tokens:      &results.Usage{Input: 500, Output: 300},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeGradingResult(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want results.Record
	}{{
		name: "pass and score from gradingResult",
		doc:  `[{"gradingResult": {"pass": true, "score": 0.9, "reason": "All assertions passed"}}]`,
		want: results.Record{Success: true, Score: results.Float(0.9)},
	}, {
		name: "failure reason becomes the error",
		doc:  `[{"gradingResult": {"pass": false, "score": 0.2, "reason": "Expected output to contain \"ok\""}}]`,
		want: results.Record{Score: results.Float(0.2), Error: `Expected output to contain "ok"`},
	}, {
		name: "top-level fields take precedence",
		doc:  `[{"success": false, "score": 3, "error": "timeout", "gradingResult": {"pass": true, "score": 1}}]`,
		want: results.Record{Score: results.Float(3), Error: "timeout"},
	}, {
		name: "explicit success is kept",
		doc:  `[{"success": true}]`,
		want: results.Record{Success: true},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := results.Decode([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(results.Set{tt.want}, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordName(t *testing.T) {
	if got := (results.Record{}).Name(); got != "Unnamed test" {
		t.Errorf("Name(): got = %q, wanted = %q", got, "Unnamed test")
	}
}

func TestLoadLocal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "test-results.json")
	if err := os.WriteFile(path, []byte(records), 0o600); err != nil {
		t.Fatal(err)
	}

	set, err := results.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(set) != 2 {
		t.Errorf("Load(): got %d records, wanted 2", len(set))
	}

	if _, err := results.Load(ctx, filepath.Join(dir, "missing.json")); !errors.Is(err, results.ErrNotFound) {
		t.Errorf("Load(missing) error = %v, wanted ErrNotFound", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"nope": 1}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := results.Load(ctx, bad); !errors.Is(err, results.ErrMalformed) {
		t.Errorf("Load(bad) error = %v, wanted ErrMalformed", err)
	}
}

type memBucket map[string][]byte

type memWriter struct {
	bytes.Buffer
	done func([]byte)
}

func (w *memWriter) Close() error {
	w.done(w.Bytes())
	return nil
}

func (m memBucket) Open(_ context.Context, bucket, object string) (io.ReadCloser, error) {
	data, ok := m[bucket+"/"+object]
	if !ok {
		return nil, storage.ErrObjectNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m memBucket) Create(_ context.Context, bucket, object string) (io.WriteCloser, error) {
	return &memWriter{done: func(b []byte) { m[bucket+"/"+object] = bytes.Clone(b) }}, nil
}

func TestStoreRemote(t *testing.T) {
	ctx := context.Background()
	bucket := memBucket{}
	store := results.NewStore(results.WithBucket(bucket))

	if _, err := store.Load(ctx, "gs://evals/run.json"); !errors.Is(err, results.ErrNotFound) {
		t.Errorf("Load(missing object) error = %v, wanted ErrNotFound", err)
	}

	want := results.Set{{Description: "a", Success: true, Score: results.Float(9)}}
	if err := store.Save(ctx, "gs://evals/run.json", map[string]any{"results": want}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(ctx, "gs://evals/run.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLocalCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs", "nested", "evaluation.json")
	store := results.NewStore()
	if err := store.Save(context.Background(), path, results.Set{{Description: "x", Success: true}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].Description != "x" {
		t.Errorf("Load(): got = %+v", got)
	}
}

func TestParseGCS(t *testing.T) {
	tests := []struct {
		in             string
		bucket, object string
		ok             bool
	}{
		{"gs://b/o.json", "b", "o.json", true},
		{"gs://b/dir/o.json", "b", "dir/o.json", true},
		{"gs://b", "", "", false},
		{"gs:///o", "", "", false},
		{"test-results.json", "", "", false},
	}
	for _, tt := range tests {
		b, o, ok := results.ParseGCS(tt.in)
		if b != tt.bucket || o != tt.object || ok != tt.ok {
			t.Errorf("ParseGCS(%q): got = (%q, %q, %t), wanted = (%q, %q, %t)", tt.in, b, o, ok, tt.bucket, tt.object, tt.ok)
		}
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		dir, name, want string
	}{
		{"gs://b/reports/", "run.json", "gs://b/reports/run.json"},
		{"gs://b", "run.json", "gs://b/run.json"},
		{filepath.Join("out", "dir"), "run.json", filepath.Join("out", "dir", "run.json")},
	}
	for _, tt := range tests {
		if got := results.Join(tt.dir, tt.name); got != tt.want {
			t.Errorf("Join(%q, %q): got = %q, wanted = %q", tt.dir, tt.name, got, tt.want)
		}
	}
}
