/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/codejudge/agents/judge"
	"chainguard.dev/codejudge/quality/cost"
	"chainguard.dev/codejudge/quality/criteria"
	"chainguard.dev/codejudge/quality/verdict"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Kind classifies why an evaluation did not produce a verdict.
type Kind string

const (
	// KindNone marks an evaluation that produced a verdict.
	KindNone Kind = ""
	// KindRequest means the prompt could not be built from the request.
	KindRequest Kind = "request"
	// KindTransport means the judge call failed.
	KindTransport Kind = "transport"
	// KindTimeout means the judge call exceeded its deadline.
	KindTimeout Kind = "timeout"
	// KindParse means the response held no decodable JSON object.
	KindParse Kind = "parse"
	// KindSchema means the object did not match the rubric.
	KindSchema Kind = "schema"
	// KindSkipped means the request was never dispatched.
	KindSkipped Kind = "skipped"
)

// Evaluator evaluates requests against one rubric with one judge.
type Evaluator struct {
	client      judge.Interface
	spec        *criteria.Spec
	model       string
	maxTokens   int64
	temperature *float64
	timeout     time.Duration
	concurrency int
	pricing     *cost.Table
}

// New creates an Evaluator. The rubric must be valid.
func New(client judge.Interface, spec *criteria.Spec, opts ...Option) (*Evaluator, error) {
	if client == nil {
		return nil, errors.New("judge client is required")
	}
	if spec == nil {
		return nil, errors.New("criteria spec is required")
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid criteria spec: %w", err)
	}

	e := &Evaluator{
		client:      client,
		spec:        spec,
		maxTokens:   judge.DefaultMaxTokens,
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	return e, nil
}

// Spec returns the rubric used by the evaluator.
func (e *Evaluator) Spec() *criteria.Spec {
	return e.spec
}

// Evaluate performs one evaluation. It never returns an error; failures are
// reported through the Evaluation's Kind and Error.
func (e *Evaluator) Evaluate(ctx context.Context, req criteria.Request) *Evaluation {
	ev := e.evaluate(ctx, req)
	record(ev)
	return ev
}

func (e *Evaluator) evaluate(ctx context.Context, req criteria.Request) *Evaluation {
	log := clog.FromContext(ctx).With("request", req.Label())
	start := time.Now()
	ev := &Evaluation{Request: req, Model: e.model}
	defer func() { ev.Duration = time.Since(start) }()

	prompt, err := e.spec.Prompt(req)
	if err != nil {
		return ev.fail(KindRequest, err)
	}

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.client.Complete(callCtx, &judge.Request{
		Model:       e.model,
		Prompt:      prompt,
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		kind := KindTransport
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			kind = KindTimeout
		}
		log.With("kind", kind).Warnf("judge call failed: %v", err)
		return ev.fail(kind, err)
	}

	ev.Raw = resp.Text
	ev.Usage = resp.Usage
	if resp.Model != "" {
		ev.Model = resp.Model
	}
	if e.pricing != nil {
		est := cost.Compute(e.pricing, ev.Model, cost.Usage{
			Evaluations:  1,
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		})
		ev.Cost = &est.Total
	}

	v, err := verdict.Parse(resp.Text, e.spec)
	if err != nil {
		var schemaErr *verdict.SchemaError
		kind := KindParse
		if errors.As(err, &schemaErr) {
			kind = KindSchema
		}
		log.With("kind", kind).Warnf("invalid verdict: %v", err)
		return ev.fail(kind, err)
	}
	for _, w := range v.Warnings {
		log.Warn(w)
	}

	ev.Success = true
	ev.Verdict = v
	log.With("overall_score", v.OverallScore, "passes", v.Passes).Info("Evaluation complete")
	return ev
}

// Batch evaluates reqs with at most the configured number of concurrent judge
// calls. The result has one entry per request, in request order.
func (e *Evaluator) Batch(ctx context.Context, reqs []criteria.Request) []*Evaluation {
	out := make([]*Evaluation, len(reqs))

	// In-flight calls are detached from cancellation and bounded by the
	// per-call timeout instead.
	callCtx := context.WithoutCancel(ctx)

	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)
	for i, req := range reqs {
		if ctx.Err() != nil {
			out[i] = skipped(req, ctx.Err())
			record(out[i])
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i] = skipped(req, err)
			} else {
				out[i] = e.evaluate(callCtx, req)
			}
			record(out[i])
			return nil
		})
	}
	// Workers always return nil.
	_ = g.Wait()

	clog.FromContext(ctx).With("requests", len(reqs), "concurrency", e.concurrency).Info("Batch complete")
	return out
}
