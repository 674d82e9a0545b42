/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package verdict turns a judge's free-form response into a validated Verdict.

Parse locates the first decodable JSON object in the response, then checks it
against a criteria.Spec. There are three distinct outcomes:

  - a *Verdict, possibly carrying Warnings
  - a *ParseError when no JSON object could be extracted
  - a *SchemaError when the object lacks required fields or has values outside their scale

A ParseError or SchemaError means the judge produced unusable output. Neither
is a quality judgment; a failing score is reported through Verdict.Passes.

The judge's own "passes" flag is never trusted. Passes is always recomputed as
overall_score >= threshold, and a disagreement is recorded as a warning.
*/
package verdict
