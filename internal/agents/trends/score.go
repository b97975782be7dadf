package trends

import (
	"fmt"
	"math"
	"strings"

	"sentinel/internal/agents"
)

// Signal thresholds for the observer's deterministic extraction.
const (
	strongSentimentAbs  = 0.5
	significantPriceAbs = 10.0 // percent over 7 days
)

// ExtractObservations derives the structured observer result from the
// metric snapshot. Signals are deterministic threshold flags; the model's
// narration rides along untouched.
func ExtractObservations(analysis string, market MarketData) map[string]any {
	var signals []string

	if math.Abs(market.SentimentScore) > strongSentimentAbs {
		signals = append(signals, fmt.Sprintf("Strong sentiment: %g", market.SentimentScore))
	}
	if math.Abs(market.PriceChange7d) > significantPriceAbs {
		signals = append(signals, fmt.Sprintf("Significant price movement: %g%%", market.PriceChange7d))
	}
	if market.VolumeTrend == "up" || market.VolumeTrend == "strong_up" {
		signals = append(signals, "Rising volume trend")
	}

	return map[string]any{
		"signals":       signals,
		"full_analysis": analysis,
	}
}

// Per-agent thought classifiers. Unlike the shared keyword table, each agent
// here has a fixed home category and only a few phrases move a fragment out
// of it.

func classifyObserver(string) agents.ThoughtType {
	return agents.ThoughtObservation
}

func classifyAnalyst(text string) agents.ThoughtType {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "because") ||
		strings.Contains(lower, "likely due to") ||
		strings.Contains(lower, "hypothesis") {
		return agents.ThoughtHypothesis
	}
	return agents.ThoughtAnalysis
}

func classifyForecaster(text string) agents.ThoughtType {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "recommend") ||
		strings.Contains(lower, "should") ||
		strings.Contains(lower, "action"):
		return agents.ThoughtRecommendation
	case strings.Contains(lower, "decide") ||
		strings.Contains(lower, "conclusion") ||
		strings.Contains(lower, "final"):
		return agents.ThoughtDecision
	default:
		// forecasts are guesses about the future
		return agents.ThoughtHypothesis
	}
}

func analystDefaults() map[string]any {
	return map[string]any{
		"trend_strength":       "moderate",
		"trend_stage":          "mid",
		"primary_driver":       "market conditions",
		"key_risks":            []string{},
		"key_opportunities":    []string{},
		"reversal_probability": float64(50),
		"confidence":           float64(50),
	}
}

func forecasterDefaults() map[string]any {
	return map[string]any{
		"direction":                string(DirectionStable),
		"confidence":               float64(50),
		"short_term_change":        float64(0),
		"medium_term_outlook":      "neutral",
		"recommended_action":       "continue monitoring",
		"price_adjustment_percent": nil,
		"timing":                   "wait_and_monitor",
		"key_triggers":             []string{},
		"monitoring_metrics":       []string{},
		"review_in_days":           float64(7),
	}
}
