/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Bindable represents a type that can bind values to a Prompt.
// Evaluation requests implement this so that a shared rubric prompt can be
// bound to the data of each individual request.
type Bindable interface {
	// Bind takes a prompt and returns a new prompt with bound values.
	Bind(prompt *Prompt) (*Prompt, error)
}
