/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// RunContext describes the evaluation run a judge call belongs to.
type RunContext struct {
	RunID  string `json:"run_id,omitempty"` // Identifier shared by all calls of one run
	Kind   string `json:"kind,omitempty"`   // "code" or "project"
	Target string `json:"target,omitempty"` // Task description or project name (traces only)
}

// EnrichAttributes appends the bounded run attributes to baseAttrs.
//
// RunID and Target are unbounded and are kept out of metrics; they remain
// available on spans.
func (r RunContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+1)
	copy(attrs, baseAttrs)
	if r.Kind != "" {
		attrs = append(attrs, attribute.String("run_kind", r.Kind))
	}
	return attrs
}

type contextKey struct{}

// WithRunContext adds run metadata to the Go context.
func WithRunContext(ctx context.Context, rc RunContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// GetRunContext retrieves run metadata from the Go context.
func GetRunContext(ctx context.Context) RunContext {
	if rc, ok := ctx.Value(contextKey{}).(RunContext); ok {
		return rc
	}
	return RunContext{}
}
