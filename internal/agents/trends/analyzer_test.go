package trends

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

func hotMarket() MarketData {
	return MarketData{
		SentimentScore:     0.7,
		SentimentTrend:     "up",
		Volume24h:          12000,
		VolumeTrend:        "up",
		PriceChange7d:      14.5,
		PriceChange30d:     22.0,
		SocialMentions:     3400,
		SocialTrend:        "up",
		CompetitorActivity: "elevated",
		MarketPosition:     "leader",
		Seasonality:        "holiday",
	}
}

const analystJSON = "```json\n{\"trend_strength\": \"strong\", \"trend_stage\": \"early\", " +
	"\"primary_driver\": \"holiday demand\", \"confidence\": 80}\n```"

const forecastJSON = "```json\n{\"direction\": \"up\", \"confidence\": 75, " +
	"\"recommended_action\": \"raise price 5%\", \"price_adjustment_percent\": 5}\n```"

func TestAnalyzeFullTrendRun(t *testing.T) {
	gen := testsupport.Responses(
		"Observing a strong upward sentiment trajectory.",
		"The rise is likely due to seasonal demand.\n"+analystJSON,
		"I recommend a modest increase.\n"+forecastJSON,
	)
	a := NewAnalyzer(gen, nil, Config{})

	events := a.Analyze(context.Background(), Input{
		Product:  "TrackMaster",
		Category: "fitness wearables",
		Market:   hotMarket(),
	}).Collect()
	require.NotEmpty(t, events)

	var finals []agents.Event
	for _, ev := range events {
		if ev.Final {
			finals = append(finals, ev)
		}
	}
	require.Len(t, finals, 3)
	assert.Equal(t, AgentObserver, finals[0].Agent)
	assert.Equal(t, AgentAnalyst, finals[1].Agent)
	assert.Equal(t, AgentForecaster, finals[2].Agent)

	observations := finals[0].Metadata["observations"].(map[string]any)
	signals := observations["signals"].([]string)
	// strong sentiment, big price move, rising volume
	assert.Len(t, signals, 3)

	analysis := finals[1].Metadata["analysis"].(map[string]any)
	assert.Equal(t, "strong", analysis["trend_strength"])
	// omitted keys keep their defaults
	assert.Equal(t, float64(50), analysis["reversal_probability"])

	forecast := finals[2].Metadata["forecast"].(map[string]any)
	assert.Equal(t, "up", forecast["direction"])
	assert.Contains(t, finals[2].Content, "UP")
	assert.Contains(t, finals[2].Content, "raise price 5%")

	assert.Equal(t, 3, gen.CallCount())
}

func TestAnalyzeObserverThoughtsAreObservations(t *testing.T) {
	// even decision-flavored narration stays an observation for this agent
	gen := testsupport.Responses(
		"Therefore I conclude the metrics look stable.",
		analystJSON,
		forecastJSON,
	)
	a := NewAnalyzer(gen, nil, Config{})

	events := a.Analyze(context.Background(), Input{Product: "P", Category: "c"}).Collect()

	for _, ev := range events {
		if ev.Agent == AgentObserver && !ev.Final {
			assert.Equal(t, agents.ThoughtObservation, ev.Thought)
		}
	}
}

func TestAnalyzeChartPreStep(t *testing.T) {
	gen := testsupport.Responses(
		"Line chart covering 30 days with an upward channel.",
		"Observing the chart-confirmed trend.",
		analystJSON,
		forecastJSON,
	)
	a := NewAnalyzer(gen, nil, Config{})

	events := a.Analyze(context.Background(), Input{
		Product:  "TrackMaster",
		Category: "fitness wearables",
		Market:   hotMarket(),
		Image:    &ai.Image{Data: []byte{1, 2, 3}},
	}).Collect()
	require.NotEmpty(t, events)

	// chart pre-step brackets appear before the observer activation
	assert.Contains(t, events[0].Content, "Analyzing visual chart data")
	assert.Contains(t, events[1].Content, "Visual analysis complete")

	// chart text feeds the observer prompt, not the event stream
	require.Equal(t, 4, gen.CallCount())
	assert.Contains(t, gen.Prompts[1], "upward channel")

	for _, ev := range events {
		assert.NotContains(t, ev.Content, "Line chart covering")
	}
}

func TestAnalyzeChartFailureContinuesRun(t *testing.T) {
	gen := testsupport.NewScriptedGenerator(
		testsupport.Call{Err: errors.New("image too large")},
		testsupport.Call{Text: "Observing without the chart."},
		testsupport.Call{Text: analystJSON},
		testsupport.Call{Text: forecastJSON},
	)
	a := NewAnalyzer(gen, nil, Config{})

	events := a.Analyze(context.Background(), Input{
		Product: "P", Category: "c", Image: &ai.Image{Data: []byte{1}},
	}).Collect()
	require.NotEmpty(t, events)

	// failure is folded into the observer prompt and the run completes
	last := events[len(events)-1]
	assert.True(t, last.Final)
	assert.Equal(t, AgentForecaster, last.Agent)
	assert.Contains(t, gen.Prompts[1], "Image analysis failed")
}

func TestAnalyzeModelErrorEndsRun(t *testing.T) {
	gen := testsupport.NewScriptedGenerator(
		testsupport.Call{Text: "Observing."},
		testsupport.Call{Err: errors.New("deadline exceeded")},
	)
	a := NewAnalyzer(gen, nil, Config{})

	events := a.Analyze(context.Background(), Input{Product: "P", Category: "c"}).Collect()
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.True(t, last.Final)
	assert.Equal(t, "model_error", last.Metadata["status"])
	assert.Equal(t, AgentAnalyst, last.Agent)
}

func TestExtractObservationsSignals(t *testing.T) {
	obs := ExtractObservations("narration", hotMarket())
	signals := obs["signals"].([]string)
	assert.Len(t, signals, 3)
	assert.Equal(t, "narration", obs["full_analysis"])

	quiet := ExtractObservations("n", MarketData{SentimentScore: 0.1, PriceChange7d: 2, VolumeTrend: "stable"})
	assert.Empty(t, quiet["signals"])
}

func TestClassifiers(t *testing.T) {
	assert.Equal(t, agents.ThoughtObservation, classifyObserver("therefore whatever"))

	assert.Equal(t, agents.ThoughtHypothesis, classifyAnalyst("likely due to seasonality"))
	assert.Equal(t, agents.ThoughtAnalysis, classifyAnalyst("the correlation is strong"))

	assert.Equal(t, agents.ThoughtRecommendation, classifyForecaster("you should raise the price"))
	assert.Equal(t, agents.ThoughtDecision, classifyForecaster("final conclusion reached"))
	assert.Equal(t, agents.ThoughtHypothesis, classifyForecaster("the trend will continue"))
}

func TestParseWithTrailingFallback(t *testing.T) {
	// unfenced trailing object is accepted
	out := parseWithTrailingFallback(`prose {"trend_strength": "weak"}`, analystDefaults())
	assert.Equal(t, "weak", out["trend_strength"])
	assert.Equal(t, "mid", out["trend_stage"])

	// nothing structured falls back to defaults
	out = parseWithTrailingFallback("pure prose", analystDefaults())
	assert.Equal(t, "moderate", out["trend_strength"])
}

func TestQuickSummary(t *testing.T) {
	comp := &testsupport.StaticCompleter{Result: map[string]any{"executive_summary": "all good"}}
	a := NewAnalyzer(testsupport.Responses(), comp, Config{})

	out, provider := a.QuickSummary(context.Background(), "sys", "user")
	assert.Equal(t, "static", provider)
	assert.Equal(t, "all good", out["executive_summary"])
	assert.Equal(t, 1, comp.Calls)
}

func TestQuickSummaryFallbacks(t *testing.T) {
	// no completer configured
	a := NewAnalyzer(testsupport.Responses(), nil, Config{})
	out, provider := a.QuickSummary(context.Background(), "sys", "user")
	assert.Equal(t, "fallback", provider)
	assert.Equal(t, "stable", out["market_sentiment"])

	// completer errors
	comp := &testsupport.StaticCompleter{Err: errors.New("rate limited")}
	a = NewAnalyzer(testsupport.Responses(), comp, Config{})
	out, provider = a.QuickSummary(context.Background(), "sys", "user")
	assert.Equal(t, "fallback", provider)
	assert.NotEmpty(t, out["executive_summary"])
}
