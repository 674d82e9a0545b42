/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package criteria

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML representation of a rubric.
type File struct {
	Name      string      `yaml:"name"`
	Threshold *float64    `yaml:"threshold,omitempty"`
	Overall   *Scale      `yaml:"overall,omitempty"`
	Layout    Layout      `yaml:"layout,omitempty"`
	Criteria  []Criterion `yaml:"criteria"`
	Fields    []Field     `yaml:"fields,omitempty"`
	Template  string      `yaml:"template"`
}

// Load reads a rubric from a YAML file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading criteria file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a rubric from YAML. Unknown keys are rejected.
func Parse(data []byte) (*Spec, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding criteria: %w", err)
	}

	var opts []Option
	if f.Threshold != nil {
		opts = append(opts, WithThreshold(*f.Threshold))
	}
	if f.Overall != nil {
		opts = append(opts, WithOverallScale(f.Overall.Min, f.Overall.Max))
	}
	if f.Layout != "" {
		opts = append(opts, WithLayout(f.Layout))
	}
	if len(f.Fields) > 0 {
		opts = append(opts, WithFields(f.Fields...))
	}
	return New(f.Name, f.Template, f.Criteria, opts...)
}

// Marshal renders s in the YAML file format accepted by Parse.
func Marshal(s *Spec) ([]byte, error) {
	threshold := s.threshold
	overall := s.overall
	return yaml.Marshal(File{
		Name:      s.name,
		Threshold: &threshold,
		Overall:   &overall,
		Layout:    s.layout,
		Criteria:  s.Criteria(),
		Fields:    s.Fields(),
		Template:  s.raw,
	})
}
