/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"strings"
	"testing"

	"chainguard.dev/codejudge/agents/promptbuilder"
	"github.com/google/go-cmp/cmp"
)

func TestNewPrompt(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     []string
		wantErr  bool
	}{{
		name:     "no placeholders",
		template: "Evaluate this code.",
	}, {
		name:     "task and output",
		template: "TASK:\n{{task}}\n\nOUTPUT:\n{{output}}",
		want:     []string{"output", "task"},
	}, {
		name:     "repeated placeholder",
		template: "{{task}} then {{task}} again",
		want:     []string{"task"},
	}, {
		name:     "whitespace inside braces",
		template: "{{ task }}",
		want:     []string{"task"},
	}, {
		name:     "digits and underscores",
		template: "{{criterion_2}}",
		want:     []string{"criterion_2"},
	}, {
		name:     "empty placeholder",
		template: "{{}}",
		wantErr:  true,
	}, {
		name:     "leading digit",
		template: "{{2nd}}",
		wantErr:  true,
	}, {
		name:     "hyphenated",
		template: "{{a-b}}",
		wantErr:  true,
	}, {
		name:     "unclosed",
		template: "Hello {{task",
		wantErr:  true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := promptbuilder.NewPrompt(tt.template)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPrompt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(tt.want, p.Placeholders()); diff != "" {
				t.Errorf("Placeholders() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	p := promptbuilder.MustNewPrompt("TASK: {{task}}\nOUTPUT: {{output}}\nAGAIN: {{task}}")
	p = p.MustBindText("task", "validate emails")
	p = p.MustBindText("output", "func Valid(s string) bool")

	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := "TASK: validate emails\nOUTPUT: func Valid(s string) bool\nAGAIN: validate emails"
	if got != want {
		t.Errorf("Build(): got = %q, wanted = %q", got, want)
	}
}

func TestBuildIsSinglePass(t *testing.T) {
	p := promptbuilder.MustNewPrompt("TASK: {{task}}\nOUTPUT: {{output}}")
	// The task text mentions the output placeholder; it must survive verbatim.
	p = p.MustBindText("task", "print the literal {{output}}")
	p = p.MustBindText("output", "fmt.Println(\"{{task}}\")")

	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := "TASK: print the literal {{output}}\nOUTPUT: fmt.Println(\"{{task}}\")"
	if got != want {
		t.Errorf("Build(): got = %q, wanted = %q", got, want)
	}
}

func TestBuildUnbound(t *testing.T) {
	p := promptbuilder.MustNewPrompt("{{task}} {{output}}").MustBindText("task", "x")

	if _, err := p.Build(); err == nil || !strings.Contains(err.Error(), "output") {
		t.Errorf("Build() error = %v, wanted unbound placeholder error naming output", err)
	}
	if diff := cmp.Diff([]string{"output"}, p.Unbound()); diff != "" {
		t.Errorf("Unbound() mismatch (-want +got):\n%s", diff)
	}
}

func TestBindErrors(t *testing.T) {
	p := promptbuilder.MustNewPrompt("{{task}}")

	if _, err := p.BindText("missing", "x"); err == nil {
		t.Error("BindText(missing): got = nil error, wanted error")
	}

	bound := p.MustBindText("task", "x")
	if _, err := bound.BindText("task", "y"); err == nil {
		t.Error("BindText(task) twice: got = nil error, wanted error")
	}
}

func TestBindingIsImmutable(t *testing.T) {
	base := promptbuilder.MustNewPrompt("{{task}}")
	a := base.MustBindText("task", "a")
	b := base.MustBindText("task", "b")

	if !base.Has("task") || len(base.Unbound()) != 1 {
		t.Errorf("base prompt was mutated: unbound = %v", base.Unbound())
	}
	for _, tc := range []struct {
		p    *promptbuilder.Prompt
		want string
	}{{a, "a"}, {b, "b"}} {
		got, err := tc.p.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if got != tc.want {
			t.Errorf("Build(): got = %q, wanted = %q", got, tc.want)
		}
	}
}

func TestBindStructured(t *testing.T) {
	p := promptbuilder.MustNewPrompt("JSON:\n{{j}}\nYAML:\n{{y}}")
	data := map[string]int{"clarity": 8}

	p, err := p.BindJSON("j", data)
	if err != nil {
		t.Fatalf("BindJSON() error = %v", err)
	}
	p, err = p.BindYAML("y", data)
	if err != nil {
		t.Fatalf("BindYAML() error = %v", err)
	}
	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := "JSON:\n{\n  \"clarity\": 8\n}\nYAML:\nclarity: 8\n"
	if got != want {
		t.Errorf("Build(): got = %q, wanted = %q", got, want)
	}
}

func TestBindJSONMarshalError(t *testing.T) {
	p := promptbuilder.MustNewPrompt("{{j}}").MustBindJSON("j", make(chan int))
	if _, err := p.Build(); err == nil {
		t.Error("Build(): got = nil error, wanted marshal error")
	}
}

func TestMustPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNewPrompt(): got = no panic, wanted panic")
		}
	}()
	promptbuilder.MustNewPrompt("{{")
}
