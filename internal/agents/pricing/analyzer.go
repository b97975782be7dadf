package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sentinel/internal/adapters/ai"
	"sentinel/internal/agents"
	"sentinel/internal/metrics"
	"sentinel/pkg/logger"
)

const pipelineName = "pricing"

const scoutPrompt = `You are analyzing a competitor's product screenshot for pricing intelligence.

Walk through what you see:

1. OBSERVATION: What product is shown? Name, branding, visual presentation.
2. OBSERVATION: What price is displayed? Any strikethrough or sale prices?
3. ANALYSIS: What features and specifications are highlighted?
4. ANALYSIS: What promotional signals are present? (discounts, badges, urgency cues)
5. DECISION: Summarize the competitor's offer as you would brief a pricing team.

Be precise about every number and label visible in the image.`

// Analyzer orchestrates the three-agent pricing pipeline.
type Analyzer struct {
	gen ai.Generator
	cfg Config
	log *logger.Logger
}

// NewAnalyzer builds an analyzer over the given generation capability.
func NewAnalyzer(gen ai.Generator, cfg Config) *Analyzer {
	return &Analyzer{
		gen: gen,
		cfg: cfg,
		log: logger.Get().With("pipeline", pipelineName),
	}
}

func (a *Analyzer) opts() ai.Options {
	return ai.Options{Model: a.cfg.Model, Thinking: a.cfg.Thinking}
}

// Analyze runs the full pipeline and returns a stream of agent events.
// When the scout cannot extract competitor data the run stops with a
// terminal event rather than feeding empty data to the later phases.
func (a *Analyzer) Analyze(ctx context.Context, in Input) *agents.Stream {
	runID := uuid.New().String()
	log := a.log.With("run_id", runID, "product", in.Product.Name)

	return agents.Run(ctx, func(ctx context.Context, emit func(agents.Event) bool) {
		competitor, ok := a.runScout(ctx, emit, in)
		if !ok {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		analysis, ok := a.runAnalyst(ctx, emit, in.Product, competitor)
		if !ok {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		if !a.runStrategist(ctx, emit, in.Product, competitor, analysis) {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		log.Infow("pipeline complete")
		metrics.PipelineRuns.WithLabelValues(pipelineName, "completed").Inc()
	})
}

// runScout narrates the screenshot over a stream, then makes a second
// structured extraction call for the machine-readable competitor record.
func (a *Analyzer) runScout(ctx context.Context, emit func(agents.Event) bool, in Input) (map[string]any, bool) {
	defer metrics.ObservePhase(pipelineName, AgentScout, time.Now())

	if !emit(agents.Event{
		Agent:   AgentScout,
		Thought: agents.ThoughtObservation,
		Content: "Scout agent activated. Analyzing competitor screenshot...",
	}) {
		return nil, false
	}

	stream := a.gen.GenerateImageStream(ctx, scoutPrompt, in.Image, a.opts())
	if _, err := agents.Relay(stream, emit, AgentScout, agents.DefaultClassifier(agents.ThoughtObservation)); err != nil {
		agents.EmitFailure(emit, AgentScout, err)
		return nil, false
	}

	extracted, err := a.gen.AnalyzeImage(ctx, in.Image, a.opts())
	if err != nil {
		agents.EmitFailure(emit, AgentScout, err)
		return nil, false
	}
	if extracted.ProductName == "" && extracted.Price == "" {
		a.log.Warnf("scout extracted no competitor data")
		emit(agents.Event{
			Agent:   AgentScout,
			Thought: agents.ThoughtDecision,
			Content: "Scout agent failed to extract competitor data. Cannot proceed.",
			Final:   true,
			Metadata: map[string]any{
				"status": "no_data",
			},
		})
		return nil, false
	}

	competitor := map[string]any{
		"product_name":  extracted.ProductName,
		"price":         extracted.Price,
		"currency":      extracted.Currency,
		"features":      extracted.Features,
		"promo_signals": extracted.PromoSignals,
		"confidence":    extracted.Confidence,
	}

	ok := emit(agents.Event{
		Agent:   AgentScout,
		Thought: agents.ThoughtDecision,
		Content: fmt.Sprintf("\n\nScout agent complete. Extracted: %s at %s",
			extracted.ProductName, extracted.Price),
		Final:    true,
		Metadata: map[string]any{"extracted_data": competitor},
	})
	return competitor, ok
}

func (a *Analyzer) runAnalyst(ctx context.Context, emit func(agents.Event) bool, product Product, competitor map[string]any) (map[string]any, bool) {
	defer metrics.ObservePhase(pipelineName, AgentAnalyst, time.Now())

	if !emit(agents.Event{
		Agent:   AgentAnalyst,
		Thought: agents.ThoughtObservation,
		Content: "Analyst agent activated. Comparing products...",
	}) {
		return nil, false
	}

	stream := a.gen.GenerateStream(ctx, analystPrompt(product, competitor), a.opts())
	text, err := agents.Relay(stream, emit, AgentAnalyst, agents.DefaultClassifier(agents.ThoughtAnalysis))
	if err != nil {
		agents.EmitFailure(emit, AgentAnalyst, err)
		return nil, false
	}

	competitorPrice := ParsePrice(agents.Str(competitor, "price", ""))
	diffPercent, position := PriceDifferential(product.Price, competitorPrice)

	analysis := map[string]any{
		"price_differential_percent": diffPercent,
		"market_position":            position,
		"full_analysis":              text,
	}

	ok := emit(agents.Event{
		Agent:    AgentAnalyst,
		Thought:  agents.ThoughtDecision,
		Content:  fmt.Sprintf("\n\nAnalyst agent complete. Position: %s (%+.1f%% vs competitor)", position, diffPercent),
		Final:    true,
		Metadata: map[string]any{"analysis": analysis},
	})
	return analysis, ok
}

func (a *Analyzer) runStrategist(ctx context.Context, emit func(agents.Event) bool, product Product, competitor, analysis map[string]any) bool {
	defer metrics.ObservePhase(pipelineName, AgentStrategist, time.Now())

	if !emit(agents.Event{
		Agent:   AgentStrategist,
		Thought: agents.ThoughtObservation,
		Content: "Strategist agent activated. Formulating pricing strategy...",
	}) {
		return false
	}

	stream := a.gen.GenerateStream(ctx, strategistPrompt(product, competitor, analysis), a.opts())
	text, err := agents.Relay(stream, emit, AgentStrategist, agents.DefaultClassifier(agents.ThoughtRecommendation))
	if err != nil {
		agents.EmitFailure(emit, AgentStrategist, err)
		return false
	}

	rec := ParseRecommendation(text, product)
	price, _ := rec.RecommendedPrice.Float64()

	return emit(agents.Event{
		Agent:   AgentStrategist,
		Thought: agents.ThoughtRecommendation,
		Content: fmt.Sprintf("\n\nStrategist agent complete. Recommended: %s %s (%+.1f%%)",
			rec.RecommendedPrice.String(), product.Currency, rec.PriceChangePercent),
		Final: true,
		Metadata: map[string]any{
			"recommendation": map[string]any{
				"recommended_price":    price,
				"confidence":           rec.Confidence,
				"strategy":             rec.Strategy,
				"risk_level":           rec.RiskLevel,
				"price_change_percent": rec.PriceChangePercent,
				"key_factors":          rec.KeyFactors,
				"reasoning":            rec.Reasoning,
			},
		},
	})
}
