/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package criteria_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chainguard.dev/codejudge/quality/criteria"
	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	s := criteria.Default()

	var names []string
	for _, c := range s.Criteria() {
		names = append(names, c.Name)
	}
	want := []string{"correctness", "completeness", "code_quality", "token_efficiency", "error_handling", "security"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("criteria mismatch (-want +got):\n%s", diff)
	}
	if s.Threshold() != 7 {
		t.Errorf("Threshold(): got = %v, wanted = 7", s.Threshold())
	}
	if s.Overall() != (criteria.Scale{Min: 0, Max: 10}) {
		t.Errorf("Overall(): got = %+v, wanted = {0 10}", s.Overall())
	}
}

func TestProject(t *testing.T) {
	s := criteria.Project()
	if s.Layout() != criteria.Flat {
		t.Errorf("Layout(): got = %q, wanted = %q", s.Layout(), criteria.Flat)
	}
	if f, ok := s.Field("critical_issues"); !ok || f.Type != criteria.TextListField {
		t.Errorf("Field(critical_issues): got = %+v, %v", f, ok)
	}
}

func TestPrompt(t *testing.T) {
	s := criteria.Default()

	got, err := s.Prompt(criteria.Request{
		Task:   "Create an email validator",
		Output: "func Valid(s string) bool { return strings.Contains(s, \"@\") }",
	})
	if err != nil {
		t.Fatalf("Prompt() error = %v", err)
	}
	for _, want := range []string{
		"TASK DESCRIPTION:\nCreate an email validator",
		"1. Correctness (0-10): Does it solve the task correctly?",
		"6. Security (0-10):",
		`"correctness": {"score": <0-10>, "reasoning": "..."},`,
		`"passes": <true if overall_score >= 7>,`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Prompt() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "{{") {
		t.Errorf("Prompt() left placeholders in:\n%s", got)
	}
}

func TestPromptDoesNotResubstitute(t *testing.T) {
	s := criteria.Default()
	got, err := s.Prompt(criteria.Request{
		Task:   "Render the literal {{output}} marker",
		Output: "tmpl := \"{{task}} {{criteria}}\"",
	})
	if err != nil {
		t.Fatalf("Prompt() error = %v", err)
	}
	if !strings.Contains(got, "Render the literal {{output}} marker") {
		t.Errorf("task text was modified:\n%s", got)
	}
	if !strings.Contains(got, `tmpl := "{{task}} {{criteria}}"`) {
		t.Errorf("output text was modified:\n%s", got)
	}
}

func TestPromptMissingField(t *testing.T) {
	s := criteria.Default()
	if _, err := s.Prompt(criteria.Request{Task: "x"}); err == nil {
		t.Error("Prompt() without output: got = nil error, wanted error")
	}
	if _, err := s.Prompt(criteria.Request{Output: "x"}); err == nil {
		t.Error("Prompt() without task: got = nil error, wanted error")
	}
}

func TestProjectPrompt(t *testing.T) {
	got, err := criteria.Project().Prompt(criteria.Request{Task: "PROJECT: api", Output: "FILE STATISTICS: none"})
	if err != nil {
		t.Fatalf("Prompt() error = %v", err)
	}
	for _, want := range []string{
		"1. TOKEN EFFICIENCY (0-10): Files <500 lines",
		`"scores": {`,
		`"business_value": <0-10>`,
		`"critical_issues": ["list of blocking issues"],`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Prompt() missing %q in:\n%s", want, got)
		}
	}
}

func TestNewValidation(t *testing.T) {
	one := []criteria.Criterion{{Name: "correctness", Max: 10}}
	tests := []struct {
		name     string
		rubric   string
		template string
		criteria []criteria.Criterion
		opts     []criteria.Option
		wantErr  string
	}{{
		name:     "valid",
		rubric:   "r",
		template: "{{output}}",
		criteria: one,
	}, {
		name:     "no name",
		template: "{{output}}",
		criteria: one,
		wantErr:  "name is required",
	}, {
		name:     "no criteria",
		rubric:   "r",
		template: "{{output}}",
		wantErr:  "at least one criterion",
	}, {
		name:     "duplicate criteria",
		rubric:   "r",
		template: "{{output}}",
		criteria: []criteria.Criterion{{Name: "a", Max: 1}, {Name: "a", Max: 1}},
		wantErr:  "duplicate criterion",
	}, {
		name:     "reserved name",
		rubric:   "r",
		template: "{{output}}",
		criteria: []criteria.Criterion{{Name: "passes", Max: 1}},
		wantErr:  "collides",
	}, {
		name:     "empty scale",
		rubric:   "r",
		template: "{{output}}",
		criteria: []criteria.Criterion{{Name: "a", Min: 5, Max: 5}},
		wantErr:  "must be below",
	}, {
		name:     "threshold outside scale",
		rubric:   "r",
		template: "{{output}}",
		criteria: one,
		opts:     []criteria.Option{criteria.WithThreshold(11)},
		wantErr:  "outside the overall scale",
	}, {
		name:     "no output placeholder",
		rubric:   "r",
		template: "{{task}}",
		criteria: one,
		wantErr:  "must contain {{output}}",
	}, {
		name:     "unknown placeholder",
		rubric:   "r",
		template: "{{output}} {{language}}",
		criteria: one,
		wantErr:  "not supported",
	}, {
		name:     "malformed template",
		rubric:   "r",
		template: "{{output",
		criteria: one,
		wantErr:  "unclosed",
	}, {
		name:     "bad layout",
		rubric:   "r",
		template: "{{output}}",
		criteria: one,
		opts:     []criteria.Option{criteria.WithLayout("sideways")},
		wantErr:  "unknown score layout",
	}, {
		name:     "bad field type",
		rubric:   "r",
		template: "{{output}}",
		criteria: one,
		opts:     []criteria.Option{criteria.WithFields(criteria.Field{Name: "notes", Type: "blob"})},
		wantErr:  "unknown type",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := criteria.New(tt.rubric, tt.template, tt.criteria, tt.opts...)
			switch {
			case tt.wantErr == "" && err != nil:
				t.Fatalf("New() error = %v", err)
			case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
				t.Fatalf("New() error = %v, wanted error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSpecIsImmutable(t *testing.T) {
	s := criteria.Default()
	cs := s.Criteria()
	cs[0].Name = "mutated"
	if s.Criteria()[0].Name != "correctness" {
		t.Error("Criteria() returned shared storage")
	}
}

func TestOutputSchema(t *testing.T) {
	b, err := json.Marshal(criteria.Default().OutputSchema())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := []string{"overall_score", "passes", "correctness", "completeness", "code_quality", "token_efficiency", "error_handling", "security"}
	if diff := cmp.Diff(want, got.Required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}

	var nested struct {
		Properties map[string]struct {
			Version    string   `json:"$schema"`
			ID         string   `json:"$id"`
			Required   []string `json:"required"`
			Properties map[string]struct {
				Type    string   `json:"type"`
				Minimum *float64 `json:"minimum"`
				Maximum *float64 `json:"maximum"`
			} `json:"properties"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(b, &nested); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	entry := nested.Properties["correctness"]
	if entry.Version != "" || entry.ID != "" {
		t.Errorf("correctness carries document keys: $schema %q $id %q", entry.Version, entry.ID)
	}
	if diff := cmp.Diff([]string{"score"}, entry.Required); diff != "" {
		t.Errorf("correctness required mismatch (-want +got):\n%s", diff)
	}
	score := entry.Properties["score"]
	if score.Type != "number" || score.Minimum == nil || *score.Minimum != 0 || score.Maximum == nil || *score.Maximum != 10 {
		t.Errorf("correctness.score: got = %+v, wanted number in [0, 10]", score)
	}
	if _, ok := entry.Properties["reasoning"]; !ok {
		t.Error("correctness.reasoning: got = absent, wanted = present")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rubric.yaml")
	content := `name: api-review
threshold: 8
criteria:
  - name: correctness
    description: Does the handler behave correctly?
    max: 10
  - name: latency
    description: Is the hot path allocation free?
    max: 5
fields:
  - name: strengths
    type: string_array
template: |
  Task: {{task}}
  Code: {{output}}
  {{criteria}}
  {{output_schema}}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := criteria.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Name() != "api-review" || s.Threshold() != 8 || len(s.Criteria()) != 2 {
		t.Errorf("Load(): got = %s threshold %v with %d criteria", s.Name(), s.Threshold(), len(s.Criteria()))
	}
	got, err := s.Prompt(criteria.Request{Task: "t", Output: "o"})
	if err != nil {
		t.Fatalf("Prompt() error = %v", err)
	}
	if !strings.Contains(got, "2. LATENCY (0-5)") || !strings.Contains(got, `"overall_score"`) {
		t.Errorf("Prompt():\n%s", got)
	}

	// A marshaled spec parses back to an equivalent one.
	data, err := criteria.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	back, err := criteria.Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(s.Criteria(), back.Criteria()); diff != "" {
		t.Errorf("criteria mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	for name, content := range map[string]string{
		"unknown key":  "name: x\ncolour: red\n",
		"not yaml":     "name: [",
		"invalid spec": "name: x\ntemplate: '{{output}}'\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := criteria.Parse([]byte(content)); err == nil {
				t.Error("Parse(): got = nil error, wanted error")
			}
		})
	}
	if _, err := criteria.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing): got = nil error, wanted error")
	}
}
