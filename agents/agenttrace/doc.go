/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace traces individual judge calls.

# Overview

  - RunContext: evaluation-run metadata (run id, kind, target) for trace and metric enrichment
  - Call: one judge round trip, including every retry attempt and the token usage
  - Tracer: receives completed calls

# Usage

Attach run metadata once per run:

	ctx = agenttrace.WithRunContext(ctx, agenttrace.RunContext{
		RunID:  "1718000000000",
		Kind:   "project",
		Target: "my-api",
	})

Judge backends start a call for every request:

	call := agenttrace.StartCall(ctx, "claude-sonnet-4-20250514", prompt)
	call.RecordAttempt(err)
	call.RecordTokenUsage(in, out)
	call.Complete(text, nil)

Completed calls are handed to the Tracer found in the context. Without one,
calls are logged through clog.
*/
package agenttrace
