package trends

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sentinel/internal/adapters/ai"
	"sentinel/internal/agents"
	"sentinel/internal/metrics"
	"sentinel/pkg/errors"
	"sentinel/pkg/fence"
	"sentinel/pkg/logger"
)

const pipelineName = "trends"

// Analyzer orchestrates the three-agent trend pipeline. The completer is
// optional and only backs QuickSummary.
type Analyzer struct {
	gen  ai.Generator
	comp ai.Completer
	cfg  Config
	log  *logger.Logger
}

// NewAnalyzer builds an analyzer; comp may be nil.
func NewAnalyzer(gen ai.Generator, comp ai.Completer, cfg Config) *Analyzer {
	return &Analyzer{
		gen:  gen,
		comp: comp,
		cfg:  cfg.withDefaults(),
		log:  logger.Get().With("pipeline", pipelineName),
	}
}

func (a *Analyzer) opts() ai.Options {
	return ai.Options{Model: a.cfg.Model, Thinking: a.cfg.Thinking}
}

// Analyze runs the full pipeline and returns a stream of agent events.
// Unlike the detection pipelines there is no input guard and no early exit:
// a trend analysis always produces a forecast.
func (a *Analyzer) Analyze(ctx context.Context, in Input) *agents.Stream {
	runID := uuid.New().String()
	log := a.log.With("run_id", runID, "product", in.Product)

	return agents.Run(ctx, func(ctx context.Context, emit func(agents.Event) bool) {
		imageAnalysis := ""
		if in.Image != nil {
			text, ok := a.analyzeChart(ctx, emit, in)
			if !ok {
				return
			}
			imageAnalysis = text
		}

		observations, ok := a.runObserver(ctx, emit, in, imageAnalysis)
		if !ok {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		analysis, ok := a.runAnalyst(ctx, emit, in, observations)
		if !ok {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		if !a.runForecaster(ctx, emit, in, analysis) {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		log.Infow("pipeline complete")
		metrics.PipelineRuns.WithLabelValues(pipelineName, "completed").Inc()
	})
}

// analyzeChart is the visual pre-step: the chart stream is drained rather
// than relayed, because its text feeds the observer prompt instead of the
// consumer. A chart failure is folded into the analysis text so the run can
// continue on numeric data alone.
func (a *Analyzer) analyzeChart(ctx context.Context, emit func(agents.Event) bool, in Input) (string, bool) {
	if !emit(agents.Event{
		Agent:   AgentObserver,
		Thought: agents.ThoughtObservation,
		Content: "Analyzing visual chart data...",
	}) {
		return "", false
	}

	stream := a.gen.GenerateImageStream(ctx, chartPrompt(in.Product, in.Category), *in.Image, a.opts())
	text, err := agents.Drain(stream)
	if err != nil {
		if errors.Is(err, errors.ErrUnavailable) {
			agents.EmitFailure(emit, AgentObserver, err)
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return "", false
		}
		a.log.Errorf("chart analysis failed: %v", err)
		text = fmt.Sprintf("Image analysis failed: %v", err)
	}

	ok := emit(agents.Event{
		Agent:   AgentObserver,
		Thought: agents.ThoughtObservation,
		Content: "Visual analysis complete. Identified chart patterns and trends.",
	})
	return text, ok
}

func (a *Analyzer) runObserver(ctx context.Context, emit func(agents.Event) bool, in Input, imageAnalysis string) (map[string]any, bool) {
	defer metrics.ObservePhase(pipelineName, AgentObserver, time.Now())

	if !emit(agents.Event{
		Agent:   AgentObserver,
		Thought: agents.ThoughtObservation,
		Content: fmt.Sprintf("Observer agent activated. Scanning market data for %s...", in.Product),
	}) {
		return nil, false
	}

	stream := a.gen.GenerateStream(ctx, observerPrompt(in, imageAnalysis), a.opts())
	analysis, err := agents.Relay(stream, emit, AgentObserver, classifyObserver)
	if err != nil {
		agents.EmitFailure(emit, AgentObserver, err)
		return nil, false
	}

	observations := ExtractObservations(analysis, in.Market)
	signals, _ := observations["signals"].([]string)

	ok := emit(agents.Event{
		Agent:    AgentObserver,
		Thought:  agents.ThoughtDecision,
		Content:  fmt.Sprintf("\n\nObservation complete. Key signals: %d identified.", len(signals)),
		Final:    true,
		Metadata: map[string]any{"observations": observations},
	})
	return observations, ok
}

func (a *Analyzer) runAnalyst(ctx context.Context, emit func(agents.Event) bool, in Input, observations map[string]any) (map[string]any, bool) {
	defer metrics.ObservePhase(pipelineName, AgentAnalyst, time.Now())

	if !emit(agents.Event{
		Agent:   AgentAnalyst,
		Thought: agents.ThoughtObservation,
		Content: "Analyst agent activated. Analyzing correlations and trend drivers...",
	}) {
		return nil, false
	}

	stream := a.gen.GenerateStream(ctx, analystPrompt(in, observations), a.opts())
	text, err := agents.Relay(stream, emit, AgentAnalyst, classifyAnalyst)
	if err != nil {
		agents.EmitFailure(emit, AgentAnalyst, err)
		return nil, false
	}

	analysis := parseWithTrailingFallback(text, analystDefaults())

	ok := emit(agents.Event{
		Agent:   AgentAnalyst,
		Thought: agents.ThoughtDecision,
		Content: fmt.Sprintf("\n\nAnalysis complete. Trend: %s | Stage: %s",
			strings.ToUpper(agents.Str(analysis, "trend_strength", "moderate")),
			agents.Str(analysis, "trend_stage", "mid")),
		Final: true,
		Metadata: map[string]any{
			"analysis":      analysis,
			"full_analysis": text,
		},
	})
	return analysis, ok
}

func (a *Analyzer) runForecaster(ctx context.Context, emit func(agents.Event) bool, in Input, analysis map[string]any) bool {
	defer metrics.ObservePhase(pipelineName, AgentForecaster, time.Now())

	if !emit(agents.Event{
		Agent:   AgentForecaster,
		Thought: agents.ThoughtObservation,
		Content: "Forecaster agent activated. Generating forecasts and recommendations...",
	}) {
		return false
	}

	stream := a.gen.GenerateStream(ctx, forecasterPrompt(in, analysis), a.opts())
	text, err := agents.Relay(stream, emit, AgentForecaster, classifyForecaster)
	if err != nil {
		agents.EmitFailure(emit, AgentForecaster, err)
		return false
	}

	forecast := parseWithTrailingFallback(text, forecasterDefaults())

	return emit(agents.Event{
		Agent:   AgentForecaster,
		Thought: agents.ThoughtRecommendation,
		Content: fmt.Sprintf("\n\nForecast complete. Direction: %s | Confidence: %.0f%% | Action: %s",
			strings.ToUpper(agents.Str(forecast, "direction", string(DirectionStable))),
			agents.Num(forecast, "confidence"),
			agents.Str(forecast, "recommended_action", "monitor")),
		Final: true,
		Metadata: map[string]any{
			"forecast":      forecast,
			"full_analysis": text,
		},
	})
}

// parseWithTrailingFallback merges the fenced JSON object over defaults,
// additionally accepting a bare trailing object when no fence is present.
func parseWithTrailingFallback(text string, defaults map[string]any) map[string]any {
	if _, ok := fence.Block(text); ok {
		return fence.ObjectOr(text, defaults)
	}
	if parsed, ok := fence.LastObject(text); ok {
		out := defaults
		for k, v := range parsed {
			out[k] = v
		}
		return out
	}
	return defaults
}
