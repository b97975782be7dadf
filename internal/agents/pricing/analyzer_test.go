package pricing

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

func testInput() Input {
	return Input{
		Image: ai.Image{Data: []byte{0x89, 0x50, 0x4e, 0x47}, Subtype: "png"},
		Product: Product{
			Name:     "TrackMaster",
			Price:    dec("50.00"),
			Currency: "USD",
			Features: []string{"GPS", "heart rate"},
		},
	}
}

func scoutAnalysis() *ai.ImageAnalysis {
	return &ai.ImageAnalysis{
		ProductName:  "FitX Pro",
		Price:        "$44.99",
		Currency:     "USD",
		Features:     []string{"GPS", "sleep tracking"},
		PromoSignals: []string{"20% off launch week"},
		Confidence:   0.9,
	}
}

const strategistJSON = "I recommend a price cut.\n```json\n{\"recommended_price\": 47.5, " +
	"\"confidence\": 0.75, \"strategy\": \"decrease\", \"risk_level\": \"low\", " +
	"\"key_factors\": [\"competitor promo\"]}\n```"

func TestAnalyzeFullPricingRun(t *testing.T) {
	gen := testsupport.Responses(
		"Looking at the screenshot, I see a discounted tracker.",
		"Comparing the feature sets and price points.",
		strategistJSON,
	)
	gen.Analysis = scoutAnalysis()
	a := NewAnalyzer(gen, Config{})

	events := a.Analyze(context.Background(), testInput()).Collect()
	require.NotEmpty(t, events)

	assert.Equal(t, AgentScout, events[0].Agent)
	assert.Equal(t, agents.ThoughtObservation, events[0].Thought)

	var finals []agents.Event
	for _, ev := range events {
		if ev.Final {
			finals = append(finals, ev)
		}
	}
	require.Len(t, finals, 3)

	extracted := finals[0].Metadata["extracted_data"].(map[string]any)
	assert.Equal(t, "FitX Pro", extracted["product_name"])
	assert.Contains(t, finals[0].Content, "FitX Pro")

	analysis := finals[1].Metadata["analysis"].(map[string]any)
	// 50.00 vs 44.99 is a premium position above the 5% band
	assert.Equal(t, PositionPremium, analysis["market_position"])
	assert.InDelta(t, 11.1, agents.Num(analysis, "price_differential_percent"), 0.05)

	rec := finals[2].Metadata["recommendation"].(map[string]any)
	assert.Equal(t, 47.5, rec["recommended_price"])
	assert.Equal(t, "decrease", rec["strategy"])
	assert.InDelta(t, -5, agents.Num(rec, "price_change_percent"), 1e-9)
	assert.Contains(t, finals[2].Content, "47.5 USD")
}

func TestAnalyzeScoutNoDataStopsRun(t *testing.T) {
	gen := testsupport.Responses("The image is too blurry to read anything.")
	gen.Analysis = &ai.ImageAnalysis{RawText: "unreadable"}
	a := NewAnalyzer(gen, Config{})

	events := a.Analyze(context.Background(), testInput()).Collect()
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.True(t, last.Final)
	assert.Equal(t, AgentScout, last.Agent)
	assert.Equal(t, "no_data", last.Metadata["status"])
	assert.Contains(t, last.Content, "Cannot proceed")

	// analyst and strategist never run
	assert.Equal(t, 1, gen.CallCount())
}

func TestAnalyzeScoutStreamError(t *testing.T) {
	gen := testsupport.NewScriptedGenerator(testsupport.Call{
		Text: "partial narration",
		Err:  errors.New("image decode failed"),
	})
	a := NewAnalyzer(gen, Config{})

	events := a.Analyze(context.Background(), testInput()).Collect()
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.True(t, last.Final)
	assert.Equal(t, "model_error", last.Metadata["status"])
	assert.Equal(t, AgentScout, last.Agent)
}

func TestAnalyzeUnavailableGenerator(t *testing.T) {
	a := NewAnalyzer(ai.NewUnavailable("gemini client not configured"), Config{})

	events := a.Analyze(context.Background(), testInput()).Collect()
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.True(t, last.Final)
	assert.Equal(t, "model_error", last.Metadata["status"])
	assert.Contains(t, last.Content, "not configured")
}

func TestAnalyzeStrategistParseFallback(t *testing.T) {
	gen := testsupport.Responses(
		"Screenshot narration.",
		"Comparison narration.",
		"The strategist rambles without any structured verdict.",
	)
	gen.Analysis = scoutAnalysis()
	a := NewAnalyzer(gen, Config{})

	events := a.Analyze(context.Background(), testInput()).Collect()
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	require.True(t, last.Final)
	rec := last.Metadata["recommendation"].(map[string]any)

	// unparseable verdict maintains the current price at low confidence
	assert.Equal(t, 50.0, rec["recommended_price"])
	assert.Equal(t, "maintain", rec["strategy"])
	assert.Equal(t, 0.3, rec["confidence"])
}
