/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package criteria defines evaluation rubrics: the named criteria a judge
// scores, their numeric scales, the pass threshold, and the prompt template
// that asks for a verdict in a fixed JSON shape.
//
// A Spec is immutable once constructed and may be shared by any number of
// concurrent evaluations.
package criteria
