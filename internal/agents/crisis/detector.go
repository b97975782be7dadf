package crisis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sentinel/internal/adapters/ai"
	"sentinel/internal/agents"
	"sentinel/internal/metrics"
	"sentinel/pkg/fence"
	"sentinel/pkg/logger"
)

const pipelineName = "crisis"

// Shorthands for the metadata accessors used throughout the pipeline.
var (
	num = agents.Num
	str = agents.Str
)

// Detector orchestrates the three-agent crisis pipeline.
type Detector struct {
	gen ai.Generator
	cfg Config
	log *logger.Logger
}

// NewDetector builds a detector over the given generation capability.
func NewDetector(gen ai.Generator, cfg Config) *Detector {
	return &Detector{
		gen: gen,
		cfg: cfg.withDefaults(),
		log: logger.Get().With("pipeline", pipelineName),
	}
}

func (d *Detector) opts() ai.Options {
	return ai.Options{Model: d.cfg.Model, Thinking: d.cfg.Thinking}
}

// Analyze runs the full pipeline and returns a stream of agent events.
// The run exits early with all_clear when the monitor finds no anomaly,
// and with insufficient_data when the sample is too small to analyze.
func (d *Detector) Analyze(ctx context.Context, in Input) *agents.Stream {
	runID := uuid.New().String()
	log := d.log.With("run_id", runID, "product", in.Product)

	return agents.Run(ctx, func(ctx context.Context, emit func(agents.Event) bool) {
		if len(in.Points) < d.cfg.MinimumMentions {
			log.Infow("insufficient data", "points", len(in.Points), "minimum", d.cfg.MinimumMentions)
			metrics.PipelineRuns.WithLabelValues(pipelineName, "insufficient_data").Inc()
			emit(agents.Event{
				Agent:   AgentMonitor,
				Thought: agents.ThoughtDecision,
				Content: fmt.Sprintf("Insufficient data: %d data points (minimum: %d)", len(in.Points), d.cfg.MinimumMentions),
				Final:   true,
				Metadata: map[string]any{
					"status": "insufficient_data",
					"run_id": runID,
				},
			})
			return
		}

		monitoring, ok := d.runMonitor(ctx, emit, in)
		if !ok {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		if !agents.Bool(monitoring, "anomaly_detected") {
			log.Infow("no anomaly detected")
			metrics.PipelineRuns.WithLabelValues(pipelineName, "all_clear").Inc()
			emit(agents.Event{
				Agent:   AgentMonitor,
				Thought: agents.ThoughtDecision,
				Content: "No crisis indicators detected. Monitoring complete.",
				Final:   true,
				Metadata: map[string]any{
					"status":            "all_clear",
					"monitoring_result": monitoring,
				},
			})
			return
		}

		investigation, ok := d.runInvestigator(ctx, emit, in, monitoring)
		if !ok {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		if !d.runResponse(ctx, emit, in.Product, monitoring, investigation) {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		log.Infow("pipeline complete")
		metrics.PipelineRuns.WithLabelValues(pipelineName, "completed").Inc()
	})
}

// runMonitor streams the monitor agent and finishes with the deterministic
// anomaly calculation. The model narrates; the numbers decide.
func (d *Detector) runMonitor(ctx context.Context, emit func(agents.Event) bool, in Input) (map[string]any, bool) {
	defer metrics.ObservePhase(pipelineName, AgentMonitor, time.Now())

	if !emit(agents.Event{
		Agent:   AgentMonitor,
		Thought: agents.ThoughtObservation,
		Content: fmt.Sprintf("Monitor agent activated. Scanning %d data points for %s...", len(in.Points), in.Product),
	}) {
		return nil, false
	}

	stream := d.gen.GenerateStream(ctx, monitorPrompt(in), d.opts())
	analysis, err := agents.Relay(stream, emit, AgentMonitor, agents.DefaultClassifier(agents.ThoughtObservation))
	if err != nil {
		agents.EmitFailure(emit, AgentMonitor, err)
		return nil, false
	}

	detected, m := AnomalyMetrics(in.Points, in.Baseline, d.cfg.SentimentDropThreshold, d.cfg.VolumeSpikeThreshold)

	status := "No crisis indicators"
	if detected {
		status = "ANOMALY DETECTED"
	}

	result := map[string]any{
		"anomaly_detected":    detected,
		"sentiment_change":    m.SentimentChange,
		"volume_change":       m.VolumeChange,
		"current_sentiment":   m.CurrentSentiment,
		"peak_negative_time":  m.PeakNegativeTime.Format(time.RFC3339),
		"peak_negative_score": m.PeakNegativeScore,
		"analysis":            analysis,
	}

	ok := emit(agents.Event{
		Agent:   AgentMonitor,
		Thought: agents.ThoughtDecision,
		Content: fmt.Sprintf("\n\n%s. Sentiment change: %.1f%%, volume change: %.1f%%",
			status, m.SentimentChange*100, m.VolumeChange*100),
		Final:    true,
		Metadata: map[string]any{"monitoring_result": result},
	})
	return result, ok
}

func (d *Detector) runInvestigator(ctx context.Context, emit func(agents.Event) bool, in Input, monitoring map[string]any) (map[string]any, bool) {
	defer metrics.ObservePhase(pipelineName, AgentInvestigator, time.Now())

	if !emit(agents.Event{
		Agent:   AgentInvestigator,
		Thought: agents.ThoughtObservation,
		Content: "Investigator agent activated. Analyzing crisis source...",
	}) {
		return nil, false
	}

	stream := d.gen.GenerateStream(ctx, investigatePrompt(in, monitoring), d.opts())
	analysis, err := agents.Relay(stream, emit, AgentInvestigator, agents.DefaultClassifier(agents.ThoughtAnalysis))
	if err != nil {
		agents.EmitFailure(emit, AgentInvestigator, err)
		return nil, false
	}

	severity := AssessSeverity(monitoring)

	result := map[string]any{
		"severity":            string(severity),
		"root_cause_analysis": analysis,
		"sources_affected":    affectedSources(in.Points),
	}

	ok := emit(agents.Event{
		Agent:    AgentInvestigator,
		Thought:  agents.ThoughtDecision,
		Content:  fmt.Sprintf("\n\nInvestigation complete. Assessed severity: %s", strings.ToUpper(string(severity))),
		Final:    true,
		Metadata: map[string]any{"investigation_result": result},
	})
	return result, ok
}

// responsePlanDefaults is the shape returned when the strategist's answer
// carries no parseable JSON plan.
func responsePlanDefaults() map[string]any {
	return map[string]any{
		"crisis_title":      "Crisis Response Plan",
		"immediate_actions": []string{},
	}
}

func (d *Detector) runResponse(ctx context.Context, emit func(agents.Event) bool, product string, monitoring, investigation map[string]any) bool {
	defer metrics.ObservePhase(pipelineName, AgentResponse, time.Now())

	if !emit(agents.Event{
		Agent:   AgentResponse,
		Thought: agents.ThoughtObservation,
		Content: "Response agent activated. Formulating crisis response strategy...",
	}) {
		return false
	}

	stream := d.gen.GenerateStream(ctx, responsePrompt(product, monitoring, investigation), d.opts())
	analysis, err := agents.Relay(stream, emit, AgentResponse, agents.DefaultClassifier(agents.ThoughtRecommendation))
	if err != nil {
		agents.EmitFailure(emit, AgentResponse, err)
		return false
	}

	plan, ok := fence.Object(analysis)
	if !ok {
		d.log.Warnf("response plan JSON not parseable, using defaults")
		plan = responsePlanDefaults()
	}

	return emit(agents.Event{
		Agent:   AgentResponse,
		Thought: agents.ThoughtRecommendation,
		Content: fmt.Sprintf("\n\nResponse strategy complete: %s", str(plan, "crisis_title", "Crisis Response Plan")),
		Final:   true,
		Metadata: map[string]any{
			"response_plan": plan,
			"full_analysis": analysis,
		},
	})
}
