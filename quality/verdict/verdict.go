/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"bytes"
	"encoding/json"
	"fmt"

	"chainguard.dev/codejudge/agents/result"
	"chainguard.dev/codejudge/quality/criteria"
)

// CriterionScore is the judge's score for one criterion.
type CriterionScore struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning,omitempty"`
}

// Verdict is a validated judge evaluation.
type Verdict struct {
	// Criteria holds one score per rubric criterion, in rubric order.
	Criteria          []CriterionScore `json:"criteria"`
	OverallScore      float64          `json:"overall_score"`
	Passes            bool             `json:"passes"`
	ReportedPasses    bool             `json:"reported_passes"`
	OverallAssessment string           `json:"overall_assessment,omitempty"`
	Recommendations   []string         `json:"recommendations,omitempty"`
	// Fields holds the rubric's optional fields that were present and well typed.
	Fields   map[string]any `json:"fields,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Score returns the score recorded for the named criterion.
func (v *Verdict) Score(name string) (CriterionScore, bool) {
	for _, c := range v.Criteria {
		if c.Name == name {
			return c, true
		}
	}
	return CriterionScore{}, false
}

// Strings returns an optional list field, or nil.
func (v *Verdict) Strings(name string) []string {
	s, _ := v.Fields[name].([]string)
	return s
}

// Text returns an optional text field, or "".
func (v *Verdict) Text(name string) string {
	s, _ := v.Fields[name].(string)
	return s
}

// Parse extracts and validates a verdict from a judge response.
func Parse(text string, spec *criteria.Spec) (*Verdict, error) {
	obj, err := result.Extract[map[string]json.RawMessage](text)
	if err != nil {
		return nil, &ParseError{Excerpt: excerpt(text), Err: err}
	}

	v := &Verdict{}
	var problems []string
	problem := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	// Overall score and pass flag are required.
	scale := spec.Overall()
	if rawScore, ok := obj["overall_score"]; !ok {
		problem("overall_score is missing")
	} else if n, ok := number(rawScore); !ok {
		problem("overall_score is not a number: %s", rawScore)
	} else if n < scale.Min || n > scale.Max {
		problem("overall_score %v is outside [%v, %v]", n, scale.Min, scale.Max)
	} else {
		v.OverallScore = n
	}

	if rawPasses, ok := obj["passes"]; !ok {
		problem("passes is missing")
	} else if b, ok := boolean(rawPasses); !ok {
		problem("passes is not a boolean: %s", rawPasses)
	} else {
		v.ReportedPasses = b
	}

	// Criterion scores may be nested at the top level or flat under "scores".
	var flat map[string]json.RawMessage
	if rawScores, ok := obj["scores"]; ok {
		if err := json.Unmarshal(rawScores, &flat); err != nil {
			problem("scores is not an object: %s", rawScores)
		}
	}
	for _, c := range spec.Criteria() {
		entry, ok := obj[c.Name]
		if !ok {
			entry, ok = flat[c.Name]
		}
		if !ok {
			problem("score for %s is missing", c.Name)
			continue
		}
		cs, err := criterionScore(c.Name, entry)
		if err != nil {
			problem("%v", err)
			continue
		}
		if !c.Contains(cs.Score) {
			problem("%s score %v is outside [%v, %v]", c.Name, cs.Score, c.Min, c.Max)
			continue
		}
		v.Criteria = append(v.Criteria, cs)
	}

	if len(problems) > 0 {
		return nil, &SchemaError{Problems: problems}
	}

	// Optional fields are dropped with a warning when mistyped.
	if rawText, ok := obj["overall_assessment"]; ok {
		if err := json.Unmarshal(rawText, &v.OverallAssessment); err != nil {
			v.Warnings = append(v.Warnings, "overall_assessment is not a string; ignored")
		}
	}
	if rawRecs, ok := obj["recommendations"]; ok {
		recs, ok := stringList(rawRecs)
		if !ok {
			v.Warnings = append(v.Warnings, "recommendations is not a list of strings; ignored")
		}
		v.Recommendations = recs
	}
	for _, f := range spec.Fields() {
		rawField, ok := obj[f.Name]
		if !ok {
			continue
		}
		val, ok := field(f, rawField)
		if !ok {
			v.Warnings = append(v.Warnings, fmt.Sprintf("%s is not a %s; ignored", f.Name, f.Type))
			continue
		}
		if v.Fields == nil {
			v.Fields = map[string]any{}
		}
		v.Fields[f.Name] = val
	}

	// The judge's flag is advisory: recompute it from the score.
	v.Passes = v.OverallScore >= spec.Threshold()
	if v.Passes != v.ReportedPasses {
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"judge reported passes=%t but overall_score %v against threshold %v means passes=%t",
			v.ReportedPasses, v.OverallScore, spec.Threshold(), v.Passes))
	}
	return v, nil
}

// criterionScore accepts {"score": n, "reasoning": "..."} or a bare number.
func criterionScore(name string, raw json.RawMessage) (CriterionScore, error) {
	if n, ok := number(raw); ok {
		return CriterionScore{Name: name, Score: n}, nil
	}
	var obj struct {
		Score     json.RawMessage `json:"score"`
		Reasoning any             `json:"reasoning"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return CriterionScore{}, fmt.Errorf("%s is neither a number nor an object: %s", name, raw)
	}
	if obj.Score == nil {
		return CriterionScore{}, fmt.Errorf("%s.score is missing", name)
	}
	n, ok := number(obj.Score)
	if !ok {
		return CriterionScore{}, fmt.Errorf("%s.score is not a number: %s", name, obj.Score)
	}
	cs := CriterionScore{Name: name, Score: n}
	if s, ok := obj.Reasoning.(string); ok {
		cs.Reasoning = s
	}
	return cs, nil
}

func number(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

func boolean(raw json.RawMessage) (bool, bool) {
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// stringList accepts a list of strings or a single string.
func stringList(raw json.RawMessage) ([]string, bool) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, true
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}, true
	}
	return nil, false
}

func field(f criteria.Field, raw json.RawMessage) (any, bool) {
	switch f.Type {
	case criteria.TextListField:
		return stringList(raw)
	case criteria.NumberField:
		return number(raw)
	case criteria.BooleanField:
		return boolean(raw)
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false
		}
		return s, true
	}
}
