package launch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/adapters/ai"
	"sentinel/internal/agents"
	"sentinel/internal/testsupport"
	"sentinel/pkg/errors"
)

func launchSignals() []Signal {
	return []Signal{
		{Source: "twitter", Content: "They are launching a brand new tracker next week!", Engagement: 500},
		{Source: "press_release", Content: "Announcing the FitX Pro, available for pre-order now.", Engagement: 50},
	}
}

func quietSignals() []Signal {
	return []Signal{
		{Source: "twitter", Content: "Their support queue seems slow lately."},
	}
}

const validatorJSON = "```json\n{\"is_confirmed_launch\": true, \"confidence\": 85, " +
	"\"product_name\": \"FitX Pro\", \"launch_type\": \"new_product\"}\n```"

const assessorJSON = "```json\n{\"threat_level\": \"high\", \"threat_score\": 78, " +
	"\"urgency\": \"immediate\", \"immediate_actions\": [\"brief sales\"]}\n```"

func TestAnalyzeFullLaunchRun(t *testing.T) {
	gen := testsupport.Responses(
		"I notice they are announcing a new product launch.",
		"Examining the evidence.\n"+validatorJSON,
		"Comparing feature overlap.\n"+assessorJSON,
	)
	d := NewDetector(gen, Config{})

	events := d.Analyze(context.Background(), Input{
		Competitor:  "FitCorp",
		YourProduct: "TrackMaster",
		Signals:     launchSignals(),
	}).Collect()
	require.NotEmpty(t, events)

	assert.Equal(t, AgentScanner, events[0].Agent)
	assert.Equal(t, agents.ThoughtObservation, events[0].Thought)

	var finals []agents.Event
	for _, ev := range events {
		if ev.Final {
			finals = append(finals, ev)
		}
	}
	require.Len(t, finals, 3)

	scan := finals[0].Metadata["scan_result"].(map[string]any)
	assert.True(t, agents.Bool(scan, "launch_detected"))
	assert.Equal(t, []string{"twitter", "press_release"}, scan["sources"])

	validated := finals[1].Metadata["validated"].(map[string]any)
	assert.Equal(t, "FitX Pro", validated["product_name"])
	// defaults fill keys the model omitted
	assert.Equal(t, "TBD", validated["launch_date"])
	assert.Contains(t, finals[1].Content, "FitX Pro")

	assessment := finals[2].Metadata["assessment"].(map[string]any)
	assert.Equal(t, "high", assessment["threat_level"])
	assert.Contains(t, finals[2].Content, "HIGH")
	assert.Contains(t, finals[2].Content, "IMMEDIATE")

	assert.Equal(t, 3, gen.CallCount())
}

func TestAnalyzeNoLaunchExitsEarly(t *testing.T) {
	gen := testsupport.Responses("The signals show routine support chatter, nothing else.")
	d := NewDetector(gen, Config{})

	events := d.Analyze(context.Background(), Input{
		Competitor:  "FitCorp",
		YourProduct: "TrackMaster",
		Signals:     quietSignals(),
	}).Collect()
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.True(t, last.Final)
	assert.Equal(t, "no_launch", last.Metadata["status"])
	assert.Equal(t, 1, gen.CallCount())
}

func TestAnalyzeInsufficientData(t *testing.T) {
	gen := testsupport.Responses()
	d := NewDetector(gen, Config{})

	events := d.Analyze(context.Background(), Input{
		Competitor:  "FitCorp",
		YourProduct: "TrackMaster",
	}).Collect()

	require.Len(t, events, 1)
	assert.Equal(t, "insufficient_data", events[0].Metadata["status"])
	assert.Equal(t, 0, gen.CallCount())
}

func TestAnalyzeImageBypassesSignalMinimum(t *testing.T) {
	gen := testsupport.Responses(
		"The screenshot shows a banner introducing a new product.",
		validatorJSON,
		assessorJSON,
	)
	d := NewDetector(gen, Config{})

	events := d.Analyze(context.Background(), Input{
		Competitor:  "FitCorp",
		YourProduct: "TrackMaster",
		Image:       &ai.Image{Data: []byte{0x89, 0x50}, Subtype: "png"},
	}).Collect()
	require.NotEmpty(t, events)

	var scanFinal agents.Event
	for _, ev := range events {
		if ev.Final && ev.Agent == AgentScanner {
			scanFinal = ev
			break
		}
	}
	scan := scanFinal.Metadata["scan_result"].(map[string]any)
	assert.Equal(t, "image", scan["analysis_type"])
	assert.Equal(t, 0.8, scan["confidence"])

	// all three agents ran
	assert.Equal(t, 3, gen.CallCount())
}

func TestAnalyzeLowConfidenceValidationContinues(t *testing.T) {
	unconfirmed := "```json\n{\"is_confirmed_launch\": false, \"confidence\": 10}\n```"
	gen := testsupport.Responses(
		"I notice they are announcing a new product launch.",
		unconfirmed,
		assessorJSON,
	)
	d := NewDetector(gen, Config{})

	events := d.Analyze(context.Background(), Input{
		Competitor:  "FitCorp",
		YourProduct: "TrackMaster",
		Signals:     launchSignals(),
	}).Collect()
	require.NotEmpty(t, events)

	var warned bool
	for _, ev := range events {
		if ev.Agent == AgentValidator && !ev.Final &&
			ev.Thought == agents.ThoughtDecision {
			warned = true
		}
	}
	assert.True(t, warned, "expected a non-final low-confidence warning event")

	// assessor still runs and terminates the stream
	last := events[len(events)-1]
	assert.True(t, last.Final)
	assert.Equal(t, AgentAssessor, last.Agent)
	assert.Equal(t, 3, gen.CallCount())
}

func TestAnalyzeValidatorModelError(t *testing.T) {
	gen := testsupport.NewScriptedGenerator(
		testsupport.Call{Text: "I notice they are announcing a new product launch."},
		testsupport.Call{Text: "partial", Err: errors.New("connection reset")},
	)
	d := NewDetector(gen, Config{})

	events := d.Analyze(context.Background(), Input{
		Competitor:  "FitCorp",
		YourProduct: "TrackMaster",
		Signals:     launchSignals(),
	}).Collect()
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.True(t, last.Final)
	assert.Equal(t, "model_error", last.Metadata["status"])
	assert.Equal(t, AgentValidator, last.Agent)
	assert.Equal(t, 2, gen.CallCount())
}
