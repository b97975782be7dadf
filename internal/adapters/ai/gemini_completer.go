package ai

import (
	"context"

	"sentinel/pkg/errors"
	"sentinel/pkg/fence"
)

// GeminiCompleter adapts a GeminiGenerator to the Completer interface.
// Gemini has no strict JSON mode for this call shape, so the answer is
// recovered through fence extraction.
type GeminiCompleter struct {
	gen *GeminiGenerator
}

// NewGeminiCompleter wraps an existing Gemini generator.
func NewGeminiCompleter(gen *GeminiGenerator) *GeminiCompleter {
	return &GeminiCompleter{gen: gen}
}

// Name returns the provider name.
func (c *GeminiCompleter) Name() string { return c.gen.Name() }

// CompleteJSON concatenates the prompts, generates once and parses the
// fenced JSON answer.
func (c *GeminiCompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (map[string]any, error) {
	text, err := c.gen.Generate(ctx, systemPrompt+"\n\n"+userPrompt, Options{Thinking: ThinkingMinimal})
	if err != nil {
		return nil, err
	}

	out, ok := fence.Object(text)
	if !ok {
		return nil, errors.Wrap(errors.ErrEmptyResponse, "gemini json answer not parseable")
	}
	return out, nil
}

var _ Completer = (*GeminiCompleter)(nil)
