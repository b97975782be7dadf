package ai

import (
	"context"

	"sentinel/pkg/logger"
)

// Settings carries the credentials and defaults used to build clients.
type Settings struct {
	GeminiKey string
	OpenAIKey string
	Model     string
	Thinking  ThinkingLevel
}

// Clients bundles the capabilities handed to pipelines. Generator is always
// non-nil; when no Gemini key is configured it is an Unavailable marker.
// Completer may be nil when neither provider can serve structured one-shot
// calls; callers fall back to their documented defaults in that case.
type Clients struct {
	Generator Generator
	Completer Completer
}

// Build constructs the client set from settings. Construction never fails:
// a missing or broken credential degrades to the Unavailable marker and a
// warning, so one absent provider does not take down the whole process.
func Build(ctx context.Context, s Settings) *Clients {
	log := logger.Get().With("component", "ai_factory")
	clients := &Clients{}

	gemini, err := NewGeminiGenerator(ctx, s.GeminiKey, s.Model)
	if err != nil {
		log.Warnf("gemini generator unavailable: %v", err)
		clients.Generator = NewUnavailable("gemini client not configured")
	} else {
		clients.Generator = gemini
		log.Infow("gemini generator ready", "model", gemini.model)
	}

	// OpenAI is preferred for one-shot JSON answers because of its strict
	// JSON mode; Gemini covers the gap when only its key is present.
	if completer, err := NewOpenAICompleter(s.OpenAIKey); err == nil {
		clients.Completer = completer
		log.Infow("openai completer ready")
	} else if gemini != nil {
		clients.Completer = NewGeminiCompleter(gemini)
		log.Infow("gemini completer ready")
	} else {
		log.Warnf("no completer available: %v", err)
	}

	return clients
}
