/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders human-facing summaries of evaluation results.
//
// Each renderer writes Markdown-style tables to an io.Writer so the same output
// can go to a terminal, a CI log, or a pull request comment. Renderers never
// log; diagnostics belong to the caller's clog logger.
//
// The Run type is the JSON document written after a batch of project
// evaluations. It carries a top-level "results" array and therefore is itself
// a valid results store.
package report
