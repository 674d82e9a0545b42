/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// Tracer receives completed judge calls.
type Tracer interface {
	RecordCall(call *Call)
}

type tracerKey struct{}

// WithTracer returns a new context with the given tracer.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// TracerFromContext returns the tracer from the context, or a tracer that logs to clog.
func TracerFromContext(ctx context.Context) Tracer {
	if tracer, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return tracer
	}
	return NewDefaultTracer(ctx)
}

// ByCode creates a Tracer that invokes each callback with every completed call.
func ByCode(callbacks ...func(*Call)) Tracer {
	return byCode(callbacks)
}

type byCode []func(*Call)

func (b byCode) RecordCall(call *Call) {
	for _, cb := range b {
		if cb != nil {
			cb(call)
		}
	}
}

// NewDefaultTracer creates a tracer that logs completed calls at debug level.
func NewDefaultTracer(ctx context.Context) Tracer {
	logger := clog.FromContext(ctx)
	return ByCode(func(call *Call) {
		l := logger.With(
			"call_id", call.ID,
			"model", call.Model,
			"duration_ms", call.Duration().Milliseconds(),
			"attempts", len(call.Attempts),
			"input_tokens", call.InputTokens,
			"output_tokens", call.OutputTokens,
		)
		if call.Error != nil {
			l.Debug("Judge call failed", "error", call.Error)
			return
		}
		l.Debug("Judge call completed")
	})
}
