/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
	"slices"
)

// Prompt represents a template with bindable placeholders
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses a template and records every placeholder it contains.
func NewPrompt(template string) (*Prompt, error) {
	bindings := make(map[string]binding)

	// Parsing reuses the substitution walk, echoing each placeholder back.
	tmpl, err := walkTemplate(template, func(name string) (string, error) {
		if _, exists := bindings[name]; !exists {
			bindings[name] = &unboundBinding{name: name}
		}
		return "{{" + name + "}}", nil
	})
	if err != nil {
		return nil, err
	}

	return &Prompt{
		template: tmpl,
		bindings: bindings,
	}, nil
}

// Placeholders returns the sorted names of all placeholders in the template.
func (p *Prompt) Placeholders() []string {
	return slices.Sorted(maps.Keys(p.bindings))
}

// Has reports whether the template contains the named placeholder.
func (p *Prompt) Has(name string) bool {
	_, ok := p.bindings[name]
	return ok
}

// Unbound returns the sorted names of placeholders that have no value yet.
func (p *Prompt) Unbound() []string {
	var names []string
	for name, b := range p.bindings {
		if _, ok := b.(*unboundBinding); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// BindText binds a value that is copied into the prompt verbatim.
// Returns a new Prompt with the binding applied
func (p *Prompt) BindText(name, value string) (*Prompt, error) {
	return p.bind(name, &textBinding{val: value})
}

// BindJSON binds structured data to a placeholder by marshaling it as JSON
// The data parameter can be any type that json.Marshal accepts
// Returns a new Prompt with the binding applied
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, &jsonBinding{data: data})
}

// BindYAML binds structured data to a placeholder by marshaling it as YAML
// The data parameter can be any type that yaml.Marshal accepts
// Returns a new Prompt with the binding applied
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, &yamlBinding{data: data})
}

func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	if err := existsAndUnbound(p.bindings, name); err != nil {
		return nil, err
	}
	newPrompt := &Prompt{
		template: p.template,
		bindings: maps.Clone(p.bindings),
	}
	newPrompt.bindings[name] = b
	return newPrompt, nil
}

// Build constructs the final prompt, returning an error if any bindings are unbound
func (p *Prompt) Build() (string, error) {
	// Resolve every value up front so marshaling errors surface before any output is produced.
	values := make(map[string]string, len(p.bindings))
	for name, binding := range p.bindings {
		val, err := binding.value()
		if err != nil {
			return "", err
		}
		values[name] = val
	}

	return walkTemplate(p.template, func(name string) (string, error) {
		if val, exists := values[name]; exists {
			return val, nil
		}
		return "", fmt.Errorf("internal error: binding %q not found in values map", name)
	})
}
