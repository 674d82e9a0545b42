/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "chainguard.dev/codejudge/agents/agenttrace"

// Attempt is one try of a judge call.
type Attempt struct {
	Number int       `json:"number"`
	Error  error     `json:"error,omitempty"`
	At     time.Time `json:"at"`
}

// Call is a single judge round trip, from prompt to response text.
type Call struct {
	ID           string     `json:"id"`
	Model        string     `json:"model"`
	Prompt       string     `json:"prompt"`
	Run          RunContext `json:"run,omitempty"`
	Attempts     []Attempt  `json:"attempts"`
	Response     string     `json:"response"`
	InputTokens  int64      `json:"input_tokens"`
	OutputTokens int64      `json:"output_tokens"`
	Error        error      `json:"error,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`

	tracer Tracer
	mu     sync.Mutex
	span   oteltrace.Span
}

// StartCall starts tracing a judge call using the tracer from the context.
// The returned context carries the call's span.
func StartCall(ctx context.Context, model, prompt string) (context.Context, *Call) {
	rc := GetRunContext(ctx)

	attrs := []attribute.KeyValue{
		attribute.String("judge.model", model),
		attribute.Int("judge.prompt_bytes", len(prompt)),
	}
	if rc.RunID != "" {
		attrs = append(attrs, attribute.String("run_id", rc.RunID))
	}
	if rc.Kind != "" {
		attrs = append(attrs, attribute.String("run_kind", rc.Kind))
	}
	if rc.Target != "" {
		attrs = append(attrs, attribute.String("run_target", rc.Target))
	}

	ctx, span := otel.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion("1.0.0")).
		Start(ctx, "judge.complete", oteltrace.WithAttributes(attrs...))

	return ctx, &Call{
		ID:        generateCallID(),
		Model:     model,
		Prompt:    prompt,
		Run:       rc,
		StartTime: time.Now(),
		tracer:    TracerFromContext(ctx),
		span:      span,
	}
}

// RecordAttempt records the outcome of one try. err is nil for the final successful try.
func (c *Call) RecordAttempt(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.Attempts) + 1
	c.Attempts = append(c.Attempts, Attempt{Number: n, Error: err, At: time.Now()})
	if err != nil && c.span != nil {
		c.span.AddEvent("judge.attempt_failed", oteltrace.WithAttributes(
			attribute.Int("attempt", n),
			attribute.String("error", err.Error()),
		))
	}
}

// RecordTokenUsage records token usage on the call and its span.
func (c *Call) RecordTokenUsage(inputTokens, outputTokens int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.InputTokens = inputTokens
	c.OutputTokens = outputTokens
	if c.span != nil {
		c.span.SetAttributes(
			attribute.Int64("tokens.input", inputTokens),
			attribute.Int64("tokens.output", outputTokens),
			attribute.Int64("tokens.total", inputTokens+outputTokens),
		)
	}
}

// Complete ends the call and hands it to the tracer.
func (c *Call) Complete(response string, err error) {
	c.mu.Lock()
	c.Response = response
	c.Error = err
	c.EndTime = time.Now()
	span := c.span
	tracer := c.tracer
	c.mu.Unlock()

	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
	if tracer != nil {
		tracer.RecordCall(c)
	}
}

// Duration returns the elapsed time of the call.
func (c *Call) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.EndTime.IsZero() {
		return time.Since(c.StartTime)
	}
	return c.EndTime.Sub(c.StartTime)
}

// String returns a readable summary of the call.
func (c *Call) String() string {
	d := c.Duration()

	c.mu.Lock()
	defer c.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Judge call %s ===\n", c.ID)
	fmt.Fprintf(&sb, "Model: %s\n", c.Model)
	fmt.Fprintf(&sb, "Duration: %v\n", d)
	fmt.Fprintf(&sb, "Tokens: %d in / %d out\n", c.InputTokens, c.OutputTokens)
	for _, a := range c.Attempts {
		if a.Error != nil {
			fmt.Fprintf(&sb, "  attempt %d: %v\n", a.Number, a.Error)
		} else {
			fmt.Fprintf(&sb, "  attempt %d: ok\n", a.Number)
		}
	}
	if c.Error != nil {
		fmt.Fprintf(&sb, "Error: %v\n", c.Error)
	} else {
		resp := c.Response
		if len(resp) > 200 {
			resp = resp[:197] + "..."
		}
		fmt.Fprintf(&sb, "Response: %s\n", resp)
	}
	return sb.String()
}

// generateCallID returns an id of the form YYYYMMDD-HHMMSS-RRRRRRRR.
func generateCallID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102-150405.000000")
	}
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), hex.EncodeToString(b))
}
