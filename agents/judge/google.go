/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// google implements backend using the Gemini API
type google struct {
	client *genai.Client
}

func newGoogle(ctx context.Context, cfg *config) (backend, error) {
	if cfg.geminiKey == "" {
		return nil, errors.New("gemini API key is required for gemini models")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.geminiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.baseURL
	}
	if cfg.httpClient != nil {
		cc.HTTPClient = cfg.httpClient
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return &google{client: client}, nil
}

func (g *google) send(ctx context.Context, model string, request *Request) (*Response, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(request.maxTokens()),
	}
	if request.Temperature != nil {
		t := float32(*request.Temperature)
		config.Temperature = &t
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(request.Prompt), config)
	if err != nil {
		return nil, err
	}

	out := &Response{Text: resp.Text(), Model: model}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// retryable reports quota, rate limit, and transient server errors.
func (g *google) retryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 503, 504:
			return true
		}
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "Resource exhausted") ||
		strings.Contains(msg, "quota exceeded") ||
		strings.Contains(msg, "Overloaded")
}
