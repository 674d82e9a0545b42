/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package results reads and writes persisted evaluation outcomes.

A results store is a JSON document whose top level is one of:

	[r1, r2]                      // bare sequence
	{"results": [r1, r2]}         // wrapped once
	{"results": {"results": [r1, r2]}} // wrapped twice

Decode normalizes all three shapes to the same Set. Stores are read from a
local path or from a Google Cloud Storage URI of the form gs://bucket/object.
*/
package results
