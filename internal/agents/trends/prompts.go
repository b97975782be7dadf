package trends

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"sentinel/internal/agents"
)

func marketSummary(m MarketData) string {
	return strings.Join([]string{
		"SENTIMENT",
		fmt.Sprintf("   Score: %g (-1 to +1 scale)", m.SentimentScore),
		fmt.Sprintf("   Trend: %s", m.SentimentTrend),
		"",
		"VOLUME",
		fmt.Sprintf("   24h Volume: %s", humanize.Comma(int64(m.Volume24h))),
		fmt.Sprintf("   Trend: %s", m.VolumeTrend),
		"",
		"PRICE",
		fmt.Sprintf("   7-day change: %g%%", m.PriceChange7d),
		fmt.Sprintf("   30-day change: %g%%", m.PriceChange30d),
		"",
		"SOCIAL",
		fmt.Sprintf("   Mentions: %s", humanize.Comma(int64(m.SocialMentions))),
		fmt.Sprintf("   Trend: %s", m.SocialTrend),
		"",
		"COMPETITIVE",
		fmt.Sprintf("   Competitor activity: %s", m.CompetitorActivity),
		fmt.Sprintf("   Market position: %s", m.MarketPosition),
		"",
		"SEASONAL",
		fmt.Sprintf("   Seasonality: %s", m.Seasonality),
	}, "\n")
}

func observerPrompt(in Input, imageAnalysis string) string {
	visualContext := ""
	if imageAnalysis != "" {
		visualContext = "\n\nVISUAL CHART ANALYSIS:\n" + imageAnalysis
	}

	return fmt.Sprintf(`You are a Market Observer agent analyzing trends for %s in the %s category.

MARKET DATA SUMMARY:
%s%s

Your task is to scan and identify patterns:

1. OBSERVATION: What is the current state of each metric?
   - Sentiment level and direction
   - Volume patterns and anomalies
   - Price movement characteristics
   - Social media activity levels

2. OBSERVATION: What does the visual chart show (if provided)?
   - Trend direction visible in the chart
   - Key inflection points or reversals
   - Volume/activity correlation with price

3. PATTERN: What recurring patterns do you identify?
   - Cyclical patterns (daily, weekly, seasonal)
   - Correlation between metrics

4. SIGNAL: What notable signals should we track?
   - Early warning signals
   - Breakout or breakdown indicators
   - Divergences between metrics

5. OBSERVATION: How does this compare to typical %s trends?

Be specific about numbers and percentages.
Flag any metrics that are outside normal ranges.`,
		in.Product, in.Category, marketSummary(in.Market), visualContext, in.Category)
}

func analystPrompt(in Input, observations map[string]any) string {
	return fmt.Sprintf(`You are a Market Analyst interpreting trends for %s in %s.

OBSERVER FINDINGS:
%s

CURRENT METRICS:
- Sentiment: %g (trend: %s)
- 7-day price change: %g%%
- 30-day price change: %g%%
- Volume trend: %s
- Social mentions: %d (trend: %s)
- Competitor activity: %s
- Market position: %s

Your task is to provide deep analysis:

1. INSIGHT: What key insights emerge from correlating the data?
2. DRIVER: What is driving the current trend?
3. ANALYSIS: How strong is the current trend?
4. RISK: What risks do you identify?
5. OPPORTUNITY: What opportunities exist?
6. ANALYSIS: What would need to change to reverse this trend?

End with a JSON summary:
`+"```json"+`
{
  "trend_strength": "weak/moderate/strong",
  "trend_stage": "early/mid/late",
  "primary_driver": "description",
  "key_risks": ["risk1", "risk2"],
  "key_opportunities": ["opp1", "opp2"],
  "reversal_probability": 0-100,
  "confidence": 0-100
}
`+"```",
		in.Product, in.Category,
		agents.Str(observations, "full_analysis", "No observations available"),
		in.Market.SentimentScore, in.Market.SentimentTrend,
		in.Market.PriceChange7d, in.Market.PriceChange30d,
		in.Market.VolumeTrend,
		in.Market.SocialMentions, in.Market.SocialTrend,
		in.Market.CompetitorActivity, in.Market.MarketPosition)
}

func forecasterPrompt(in Input, analysis map[string]any) string {
	risks := agents.Strings(analysis, "key_risks")
	if len(risks) == 0 {
		risks = []string{"none identified"}
	}
	opportunities := agents.Strings(analysis, "key_opportunities")
	if len(opportunities) == 0 {
		opportunities = []string{"none identified"}
	}

	return fmt.Sprintf(`You are a Market Forecaster for %s in %s.

ANALYST FINDINGS:
- Trend strength: %s
- Trend stage: %s
- Primary driver: %s
- Reversal probability: %.0f%%
- Analysis confidence: %.0f%%

CURRENT STATE:
- Sentiment: %g (trend: %s)
- 7-day price change: %g%%
- Volume trend: %s
- Competitor pressure: %s

KEY RISKS: %s
KEY OPPORTUNITIES: %s

Your task is to forecast and recommend:

1. FORECAST: Short-term prediction (1-2 weeks)
2. OUTLOOK: Medium-term outlook (1-3 months)
3. RECOMMENDATION: Pricing action
4. TIMING: When to act
5. RECOMMENDATION: Risk mitigation
6. MONITORING: What to watch

End with a comprehensive JSON forecast:
`+"```json"+`
{
  "direction": "strong_up/up/stable/down/strong_down",
  "confidence": 0-100,
  "short_term_change": -10 to +10 (percentage),
  "medium_term_outlook": "bullish/neutral/bearish",
  "recommended_action": "specific action description",
  "price_adjustment_percent": -20 to +20 or null,
  "timing": "immediate/this_week/next_2_weeks/wait_and_monitor",
  "key_triggers": ["trigger1", "trigger2"],
  "monitoring_metrics": ["metric1", "metric2"],
  "risk_mitigation": "strategy description",
  "review_in_days": 7,
  "alternative_scenarios": {
    "bull_case": "description",
    "bear_case": "description"
  }
}
`+"```"+`

Be decisive and specific. Provide actionable recommendations.`,
		in.Product, in.Category,
		agents.Str(analysis, "trend_strength", "moderate"),
		agents.Str(analysis, "trend_stage", "mid"),
		agents.Str(analysis, "primary_driver", "unknown"),
		agents.Num(analysis, "reversal_probability"),
		agents.Num(analysis, "confidence"),
		in.Market.SentimentScore, in.Market.SentimentTrend,
		in.Market.PriceChange7d,
		in.Market.VolumeTrend,
		in.Market.CompetitorActivity,
		strings.Join(risks, ", "),
		strings.Join(opportunities, ", "))
}

func chartPrompt(product, category string) string {
	return fmt.Sprintf(`Analyze this market trend chart/graph for %s in the %s category.

Extract the following information:

1. CHART TYPE: What kind of chart is this? (line, bar, candlestick, etc.)
2. TIME RANGE: What time period does the chart cover?
3. TREND DIRECTION: Overall direction, strength, acceleration or deceleration
4. KEY INFLECTION POINTS: Peaks, troughs, reversal patterns
5. VOLUME/ACTIVITY PATTERNS: Volume pattern and correlation with price
6. SUPPORT/RESISTANCE LEVELS: Key price levels where the trend paused
7. PATTERNS: Technical patterns, channels, breakout or breakdown signals
8. ANOMALIES: Unusual spikes or drops, gaps, outliers
9. COMPARISON: If multiple lines, what do they represent and which outperforms?

Be specific about values, percentages, and dates where visible.`,
		product, category)
}
