/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Must wraps a call returning (*Prompt, error) and panics if the error is non-nil.
// It is intended for package-level rubric templates:
//
//	var p = promptbuilder.Must(promptbuilder.NewPrompt(`Hello {{name}}`))
func Must(p *Prompt, err error) *Prompt {
	if err != nil {
		panic(err)
	}
	return p
}

// MustNewPrompt is syntactic sugar for Must(NewPrompt(...))
func MustNewPrompt(template string) *Prompt {
	return Must(NewPrompt(template))
}

// MustBindText is syntactic sugar for Must(p.BindText(...))
func (p *Prompt) MustBindText(name, value string) *Prompt {
	return Must(p.BindText(name, value))
}

// MustBindJSON is syntactic sugar for Must(p.BindJSON(...))
func (p *Prompt) MustBindJSON(name string, data any) *Prompt {
	return Must(p.BindJSON(name, data))
}
