package ai

import (
	"context"
	"encoding/json"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"sentinel/internal/metrics"
	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

// OpenAICompleter produces structured JSON answers through the OpenAI chat
// API with JSON mode enforced.
type OpenAICompleter struct {
	client openai.Client
	model  openai.ChatModel
	log    *logger.Logger
}

// NewOpenAICompleter builds the completer, failing fast on a missing key.
func NewOpenAICompleter(apiKey string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrNoAPIKey, "openai")
	}

	return &OpenAICompleter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4oMini,
		log:    logger.Get().With("component", "openai"),
	}, nil
}

// Name returns the provider name.
func (c *OpenAICompleter) Name() string { return "openai" }

// CompleteJSON sends a system/user prompt pair and parses the JSON answer.
func (c *OpenAICompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (map[string]any, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature:         openai.Float(0.3),
		MaxCompletionTokens: openai.Int(4000),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	metrics.RecordModelCall(c.Name(), err)
	if err != nil {
		return nil, errors.Wrap(err, "openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyResponse, "openai chat completion")
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, errors.Wrap(err, "parse openai json answer")
	}
	return out, nil
}

var _ Completer = (*OpenAICompleter)(nil)
