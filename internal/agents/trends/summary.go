package trends

import "context"

// fallbackSummary is the safe answer when no completer can serve the call.
func fallbackSummary() map[string]any {
	return map[string]any{
		"market_sentiment":       "stable",
		"market_sentiment_score": float64(0),
		"predictions":            []string{},
		"opportunities":          []string{},
		"risks":                  []string{},
		"executive_summary":      "Unable to generate AI analysis at this time. Please try again later.",
		"recommended_actions":    []string{"Review your data manually", "Ensure sentiment collection is running"},
		"key_insights":           []string{"AI analysis temporarily unavailable"},
	}
}

// QuickSummary produces a one-shot structured market summary without
// streaming, for callers that want a digest rather than a narrated run.
// Failures degrade to a fixed fallback answer; the second return value names
// the provider that answered, or "fallback".
func (a *Analyzer) QuickSummary(ctx context.Context, systemPrompt, userPrompt string) (map[string]any, string) {
	if a.comp == nil {
		a.log.Warnf("quick summary requested with no completer configured")
		return fallbackSummary(), "fallback"
	}

	out, err := a.comp.CompleteJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		a.log.Errorf("quick summary failed: %v", err)
		return fallbackSummary(), "fallback"
	}
	return out, a.comp.Name()
}
