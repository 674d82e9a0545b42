/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package evaluator runs judge evaluations against a rubric.
//
// An Evaluator renders the prompt for each request, calls the judge, and
// validates the verdict. Evaluate never returns an error: every failure is
// captured in the returned Evaluation and classified by Kind so that one bad
// request never aborts a batch.
//
//	ev, err := evaluator.New(client, criteria.Default(),
//		evaluator.WithConcurrency(4),
//		evaluator.WithTimeout(2*time.Minute),
//	)
//	if err != nil {
//		return err
//	}
//	for _, e := range ev.Batch(ctx, requests) {
//		fmt.Println(e.Request.Label(), e.Success)
//	}
//
// Batch bounds the number of concurrent judge calls and returns results in
// request order. Cancelling the context stops dispatch: requests that have not
// started are marked KindSkipped, while calls already in flight run to
// completion or to their own timeout.
package evaluator
