package launch

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

const pipelineName = "launch"

// Detector orchestrates the three-agent launch detection pipeline.
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

// validatorDefaults is the shape every validation result is merged over, so
// downstream consumers always see the full key set.
func validatorDefaults() map[string]any {
	return map[string]any{
		"is_confirmed_launch": false,
		"launch_type":         string(LaunchUnknown),
		"confidence":          float64(0),
		"product_name":        "Unknown",
		"key_features":        []string{},
		"target_market":       "Unknown",
		"estimated_price":     nil,
		"launch_date":         "TBD",
	}
}

func assessorDefaults() map[string]any {
	return map[string]any{
		"threat_level":          string(ThreatMedium),
		"threat_score":          float64(50),
		"urgency":               "monitor",
		"impact_areas":          []string{},
		"at_risk_segments":      []string{},
		"immediate_actions":     []string{},
		"strategic_actions":     []string{},
		"monitoring_priorities": []string{},
	}
}

// Analyze runs the full pipeline and returns a stream of agent events. The
// run exits early with no_launch when the scanner's confidence stays below
// the threshold, and with insufficient_data when there are no signals and no
// image. A low-confidence validation is flagged but does not stop the run.
func (d *Detector) Analyze(ctx context.Context, in Input) *agents.Stream {
	runID := uuid.New().String()
	log := d.log.With("run_id", runID, "competitor", in.Competitor)

	return agents.Run(ctx, func(ctx context.Context, emit func(agents.Event) bool) {
		if len(in.Signals) < d.cfg.MinSignals && in.Image == nil {
			log.Infow("insufficient data", "signals", len(in.Signals), "minimum", d.cfg.MinSignals)
			metrics.PipelineRuns.WithLabelValues(pipelineName, "insufficient_data").Inc()
			emit(agents.Event{
				Agent:   AgentScanner,
				Thought: agents.ThoughtDecision,
				Content: fmt.Sprintf("Insufficient data: %d signals (minimum: %d)", len(in.Signals), d.cfg.MinSignals),
				Final:   true,
				Metadata: map[string]any{
					"status": "insufficient_data",
					"run_id": runID,
				},
			})
			return
		}

		scan, ok := d.runScanner(ctx, emit, in)
		if !ok {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		if !agents.Bool(scan, "launch_detected") {
			log.Infow("no launch detected", "confidence", agents.Num(scan, "confidence"))
			metrics.PipelineRuns.WithLabelValues(pipelineName, "no_launch").Inc()
			emit(agents.Event{
				Agent:   AgentScanner,
				Thought: agents.ThoughtDecision,
				Content: "No product launch detected. Monitoring complete.",
				Final:   true,
				Metadata: map[string]any{
					"status":      "no_launch",
					"scan_result": scan,
				},
			})
			return
		}

		validated, ok := d.runValidator(ctx, emit, in, scan)
		if !ok {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		// An unconfirmed, low-confidence validation is worth flagging, but
		// the threat assessment still runs on whatever was extracted.
		if !agents.Bool(validated, "is_confirmed_launch") && agents.Num(validated, "confidence") < 30 {
			if !emit(agents.Event{
				Agent:   AgentValidator,
				Thought: agents.ThoughtDecision,
				Content: "Launch could not be confirmed with high confidence. Proceeding with assessment anyway.",
			}) {
				return
			}
		}

		if !d.runAssessor(ctx, emit, in, validated) {
			metrics.PipelineRuns.WithLabelValues(pipelineName, "model_error").Inc()
			return
		}

		log.Infow("pipeline complete")
		metrics.PipelineRuns.WithLabelValues(pipelineName, "completed").Inc()
	})
}

func (d *Detector) runScanner(ctx context.Context, emit func(agents.Event) bool, in Input) (map[string]any, bool) {
	defer metrics.ObservePhase(pipelineName, AgentScanner, time.Now())

	if !emit(agents.Event{
		Agent:   AgentScanner,
		Thought: agents.ThoughtObservation,
		Content: fmt.Sprintf("Scanner agent activated. Analyzing %d signals for %s...", len(in.Signals), in.Competitor),
	}) {
		return nil, false
	}

	if in.Image != nil {
		return d.scanImage(ctx, emit, in)
	}

	stream := d.gen.GenerateStream(ctx, scannerPrompt(in), d.opts())
	analysis, err := agents.Relay(stream, emit, AgentScanner, agents.DefaultClassifier(agents.ThoughtObservation))
	if err != nil {
		agents.EmitFailure(emit, AgentScanner, err)
		return nil, false
	}

	detected, confidence := KeywordConfidence(analysis, in.Signals, d.cfg.MinConfidence)

	status := "No launch indicators"
	if detected {
		status = "LAUNCH SIGNALS DETECTED"
	}

	result := map[string]any{
		"launch_detected":  detected,
		"confidence":       confidence,
		"signals_analyzed": len(in.Signals),
		"sources":          signalSources(in.Signals),
		"analysis":         analysis,
	}

	ok := emit(agents.Event{
		Agent:    AgentScanner,
		Thought:  agents.ThoughtDecision,
		Content:  fmt.Sprintf("\n\n%s. Confidence: %.0f%%", status, confidence*100),
		Final:    true,
		Metadata: map[string]any{"scan_result": result},
	})
	return result, ok
}

// scanImage is the multimodal scanner path: the screenshot is the primary
// evidence and detection keys off the analysis text.
func (d *Detector) scanImage(ctx context.Context, emit func(agents.Event) bool, in Input) (map[string]any, bool) {
	if !emit(agents.Event{
		Agent:   AgentScanner,
		Thought: agents.ThoughtObservation,
		Content: fmt.Sprintf("Analyzing product image for %s...", in.Competitor),
	}) {
		return nil, false
	}

	stream := d.gen.GenerateImageStream(ctx, imagePrompt(in.Competitor), *in.Image, d.opts())
	analysis, err := agents.Relay(stream, emit, AgentScanner, agents.DefaultClassifier(agents.ThoughtObservation))
	if err != nil {
		agents.EmitFailure(emit, AgentScanner, err)
		return nil, false
	}

	detected, confidence := ImageConfidence(analysis)

	status := "No launch indicators in image"
	if detected {
		status = "LAUNCH DETECTED IN IMAGE"
	}

	result := map[string]any{
		"launch_detected": detected,
		"confidence":      confidence,
		"analysis_type":   "image",
		"analysis":        analysis,
	}

	ok := emit(agents.Event{
		Agent:    AgentScanner,
		Thought:  agents.ThoughtDecision,
		Content:  fmt.Sprintf("\n\n%s. Confidence: %.0f%%", status, confidence*100),
		Final:    true,
		Metadata: map[string]any{"scan_result": result},
	})
	return result, ok
}

func (d *Detector) runValidator(ctx context.Context, emit func(agents.Event) bool, in Input, scan map[string]any) (map[string]any, bool) {
	defer metrics.ObservePhase(pipelineName, AgentValidator, time.Now())

	if !emit(agents.Event{
		Agent:   AgentValidator,
		Thought: agents.ThoughtObservation,
		Content: "Validator agent activated. Confirming launch details...",
	}) {
		return nil, false
	}

	stream := d.gen.GenerateStream(ctx, validatorPrompt(in, scan), d.opts())
	analysis, err := agents.Relay(stream, emit, AgentValidator, agents.DefaultClassifier(agents.ThoughtAnalysis))
	if err != nil {
		agents.EmitFailure(emit, AgentValidator, err)
		return nil, false
	}

	validated := fence.ObjectOr(analysis, validatorDefaults())

	ok := emit(agents.Event{
		Agent:   AgentValidator,
		Thought: agents.ThoughtDecision,
		Content: fmt.Sprintf("\n\nValidation complete. Product: %s | Confidence: %.0f%%",
			agents.Str(validated, "product_name", "Unknown Product"),
			agents.Num(validated, "confidence")),
		Final: true,
		Metadata: map[string]any{
			"validated":     validated,
			"full_analysis": analysis,
		},
	})
	return validated, ok
}

func (d *Detector) runAssessor(ctx context.Context, emit func(agents.Event) bool, in Input, validated map[string]any) bool {
	defer metrics.ObservePhase(pipelineName, AgentAssessor, time.Now())

	if !emit(agents.Event{
		Agent:   AgentAssessor,
		Thought: agents.ThoughtObservation,
		Content: "Assessor agent activated. Evaluating competitive threat...",
	}) {
		return false
	}

	stream := d.gen.GenerateStream(ctx, assessorPrompt(in, validated), d.opts())
	analysis, err := agents.Relay(stream, emit, AgentAssessor, agents.DefaultClassifier(agents.ThoughtAnalysis))
	if err != nil {
		agents.EmitFailure(emit, AgentAssessor, err)
		return false
	}

	assessment := fence.ObjectOr(analysis, assessorDefaults())

	return emit(agents.Event{
		Agent:   AgentAssessor,
		Thought: agents.ThoughtRecommendation,
		Content: fmt.Sprintf("\n\nAssessment complete. Threat level: %s | Urgency: %s",
			strings.ToUpper(agents.Str(assessment, "threat_level", string(ThreatMedium))),
			strings.ToUpper(agents.Str(assessment, "urgency", "monitor"))),
		Final: true,
		Metadata: map[string]any{
			"assessment":    assessment,
			"full_analysis": analysis,
		},
	})
}
