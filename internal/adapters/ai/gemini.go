package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"sentinel/internal/metrics"
	"sentinel/pkg/errors"
	"sentinel/pkg/fence"
	"sentinel/pkg/logger"
)

// Known Gemini model names.
const (
	ModelGeminiFlash = "gemini-3-flash-preview"
	ModelGeminiPro   = "gemini-3-pro-preview"
)

// DefaultModel is used when a call does not override the model.
const DefaultModel = ModelGeminiFlash

// GeminiGenerator is the Generator implementation backed by the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewGeminiGenerator builds a Gemini-backed generator. It fails fast when the
// API key is missing so callers can substitute an Unavailable marker instead
// of discovering the gap mid-pipeline.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrNoAPIKey, "gemini")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		log:    logger.Get().With("component", "gemini", "model", model),
	}, nil
}

// Name returns the provider name.
func (g *GeminiGenerator) Name() string { return "gemini" }

// Available reports that the client holds a credential.
func (g *GeminiGenerator) Available() bool { return true }

func (g *GeminiGenerator) resolveModel(opts Options) string {
	if opts.Model != "" {
		return opts.Model
	}
	return g.model
}

// generateConfig maps the thinking level onto a token budget for internal
// reasoning. IncludeThoughts surfaces reasoning fragments in the stream so
// they can be relayed as first-class events.
func generateConfig(level ThinkingLevel) *genai.GenerateContentConfig {
	var budget int32
	switch level {
	case ThinkingMinimal:
		budget = 0
	case ThinkingHigh:
		budget = 8192
	default: // ThinkingLow
		budget = 1024
	}

	return &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: budget > 0,
			ThinkingBudget:  genai.Ptr(budget),
		},
	}
}

// Generate produces a single text response.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.resolveModel(opts),
		genai.Text(prompt),
		generateConfig(opts.Thinking),
	)
	metrics.RecordModelCall(g.Name(), err)
	if err != nil {
		return "", errors.Wrap(err, "gemini generate")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.Wrap(errors.ErrEmptyResponse, "gemini generate")
	}
	return text, nil
}

// GenerateStream streams the response for a text-only prompt.
func (g *GeminiGenerator) GenerateStream(ctx context.Context, prompt string, opts Options) *Stream {
	return g.stream(ctx, genai.Text(prompt), opts)
}

// GenerateImageStream streams the response for a prompt with an inline image.
func (g *GeminiGenerator) GenerateImageStream(ctx context.Context, prompt string, img Image, opts Options) *Stream {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: img.MIMEType(), Data: img.Data}},
		},
	}}
	return g.stream(ctx, contents, opts)
}

func (g *GeminiGenerator) stream(ctx context.Context, contents []*genai.Content, opts Options) *Stream {
	model := g.resolveModel(opts)
	cfg := generateConfig(opts.Thinking)

	return NewStream(ctx, func(ctx context.Context, emit func(Chunk) bool) error {
		for resp, err := range g.client.Models.GenerateContentStream(ctx, model, contents, cfg) {
			if err != nil {
				metrics.RecordModelCall(g.Name(), err)
				return errors.Wrap(err, "gemini stream")
			}
			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					if part.Text == "" {
						continue
					}
					if !emit(Chunk{Text: part.Text, Thought: part.Thought}) {
						return nil
					}
				}
			}
		}
		metrics.RecordModelCall(g.Name(), nil)
		return nil
	})
}

const analyzeImagePrompt = `Analyze this product screenshot and respond ONLY with a JSON object:
{
  "product_name": "exact product name shown",
  "price": "price as shown, including currency symbol",
  "currency": "ISO currency code",
  "features": ["visible product features"],
  "reviews_summary": "one-line summary of visible reviews",
  "promo_signals": ["visible promotions, badges or discounts"],
  "confidence": 0.0
}
Set confidence between 0.0 and 1.0 based on how clearly the data is visible.`

// AnalyzeImage runs the structured product-extraction prompt over a
// screenshot and parses the JSON answer. Missing fields keep zero values; the
// raw text is always preserved for diagnostics.
func (g *GeminiGenerator) AnalyzeImage(ctx context.Context, img Image, opts Options) (*ImageAnalysis, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.resolveModel(opts),
		[]*genai.Content{{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: analyzeImagePrompt},
				{InlineData: &genai.Blob{MIMEType: img.MIMEType(), Data: img.Data}},
			},
		}},
		generateConfig(opts.Thinking),
	)
	metrics.RecordModelCall(g.Name(), err)
	if err != nil {
		return nil, errors.Wrap(err, "gemini analyze image")
	}

	raw := resp.Text()
	analysis := &ImageAnalysis{RawText: raw}

	parsed, ok := fence.Object(raw)
	if !ok {
		g.log.Warnf("image analysis response is not valid JSON, keeping raw text only")
		return analysis, nil
	}

	if v, ok := parsed["product_name"].(string); ok {
		analysis.ProductName = v
	}
	if v, ok := parsed["price"].(string); ok {
		analysis.Price = v
	}
	if v, ok := parsed["currency"].(string); ok {
		analysis.Currency = v
	}
	if v, ok := parsed["reviews_summary"].(string); ok {
		analysis.ReviewsSummary = v
	}
	if v, ok := parsed["confidence"].(float64); ok {
		analysis.Confidence = v
	}
	analysis.Features = stringSlice(parsed["features"])
	analysis.PromoSignals = stringSlice(parsed["promo_signals"])

	return analysis, nil
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

var _ Generator = (*GeminiGenerator)(nil)
