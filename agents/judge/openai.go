/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAI implements backend using the Chat Completions API
type openAI struct {
	client openai.Client
}

func newOpenAI(cfg *config) (backend, error) {
	if cfg.openaiKey == "" {
		return nil, errors.New("openai API key is required for OpenAI models")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.openaiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.httpClient))
	}
	return &openAI{client: openai.NewClient(opts...)}, nil
}

func (o *openAI) send(ctx context.Context, model string, request *Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		MaxCompletionTokens: openai.Int(request.maxTokens()),
	}
	if request.Temperature != nil {
		params.Temperature = openai.Float(*request.Temperature)
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("completion returned no choices")
	}
	return &Response{
		Text:  completion.Choices[0].Message.Content,
		Model: completion.Model,
		Usage: Usage{
			InputTokens:  completion.Usage.PromptTokens,
			OutputTokens: completion.Usage.CompletionTokens,
		},
	}, nil
}

// retryable reports rate limit and transient server errors.
func (o *openAI) retryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
