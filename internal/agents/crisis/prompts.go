package crisis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// dataSummary renders up to the last 50 time-sorted points as a text block
// for the monitor prompt.
func dataSummary(points []Point, baseline float64) string {
	if len(points) == 0 {
		return "No data available"
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	if len(sorted) > 50 {
		sorted = sorted[len(sorted)-50:]
	}

	var b strings.Builder
	for _, p := range sorted {
		diff := p.Score - baseline
		direction := "flat"
		if diff > 0 {
			direction = "up"
		} else if diff < 0 {
			direction = "down"
		}
		fmt.Fprintf(&b, "[%s] Score: %.2f (%s %.2f) | Volume: %s mentions | Source: %s\n",
			p.Timestamp.Format("2006-01-02 15:04"), p.Score, direction, diff,
			humanize.Comma(int64(p.Volume)), p.Source)
		if p.SampleText != "" {
			sample := p.SampleText
			if len(sample) > 100 {
				sample = sample[:100]
			}
			fmt.Fprintf(&b, "  Sample: %q\n", sample)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// negativeSamples returns up to limit negative mentions, most negative first,
// for the investigator prompt.
func negativeSamples(points []Point, limit int) string {
	var negative []Point
	for _, p := range points {
		if p.Score < 0 && p.SampleText != "" {
			negative = append(negative, p)
		}
	}
	if len(negative) == 0 {
		return "No negative samples available"
	}

	sort.SliceStable(negative, func(i, j int) bool {
		if negative[i].Score != negative[j].Score {
			return negative[i].Score < negative[j].Score
		}
		return negative[i].Timestamp.Before(negative[j].Timestamp)
	})
	if len(negative) > limit {
		negative = negative[:limit]
	}

	var parts []string
	for _, p := range negative {
		parts = append(parts, fmt.Sprintf("[%s] Score: %.2f\n%q", p.Source, p.Score, p.SampleText))
	}
	return strings.Join(parts, "\n\n")
}

func monitorPrompt(in Input) string {
	return fmt.Sprintf(`You are a crisis monitoring agent for brand sentiment analysis.

PRODUCT: %s
BASELINE SENTIMENT: %.2f (normal level)

RECENT SENTIMENT DATA (last 24-48 hours):
%s

Your task is to identify potential crisis indicators:

1. OBSERVATION: What patterns do you see in the sentiment data?
2. ANALYSIS: Are there any sudden drops in sentiment scores?
3. ANALYSIS: Are there unusual volume spikes in mentions?
4. HYPOTHESIS: Could any of these indicate a PR crisis or brand issue?
5. DECISION: Is there a potential crisis that needs investigation?

Be specific about timestamps, score changes, and volume changes.
Flag anything where sentiment dropped sharply or volume spiked more than 2x.`,
		in.Product, in.Baseline, dataSummary(in.Points, in.Baseline))
}

func investigatePrompt(in Input, monitoring map[string]any) string {
	return fmt.Sprintf(`You are a crisis investigator analyzing a potential brand crisis.

PRODUCT: %s
DETECTED ANOMALY:
- Sentiment dropped: %.1f%%
- Volume changed: %.1f%%
- Current sentiment: %.2f

SAMPLE NEGATIVE MENTIONS:
%s

Investigate the root cause:

1. OBSERVATION: What common themes appear in the negative mentions?
2. ANALYSIS: Is this a product issue, service issue, PR event, or external factor?
3. ANALYSIS: Which platforms/sources are most affected?
4. HYPOTHESIS: What triggered this sentiment shift?
5. DECISION: What is the likely root cause?

Identify specific:
- Trigger event (if identifiable)
- Affected aspects (product quality, customer service, pricing, etc.)
- Scale of impact (isolated incident vs. widespread)`,
		in.Product,
		num(monitoring, "sentiment_change")*100,
		num(monitoring, "volume_change")*100,
		num(monitoring, "current_sentiment"),
		negativeSamples(in.Points, 20))
}

func responsePrompt(product string, monitoring, investigation map[string]any) string {
	severity := str(investigation, "severity", string(SeverityMedium))
	return fmt.Sprintf(`You are a crisis response strategist for brand management.

PRODUCT: %s
CRISIS SEVERITY: %s
SENTIMENT DROP: %.1f%%
VOLUME SPIKE: %.1f%%

ROOT CAUSE ANALYSIS:
%s

Recommend a crisis response:

1. OBSERVATION: What are the immediate risks to the brand?
2. ANALYSIS: What stakeholders need to be notified?
3. HYPOTHESIS: How might this evolve if unaddressed?
4. RECOMMENDATION: What immediate actions should be taken?
5. RECOMMENDATION: What medium-term strategy should be employed?

Provide specific, actionable recommendations.

End with a JSON block:
`+"```json"+`
{
  "crisis_title": "Brief title for this crisis",
  "immediate_actions": ["action1", "action2", "action3"],
  "stakeholders_to_notify": ["stakeholder1", "stakeholder2"],
  "communication_strategy": "brief description",
  "estimated_recovery_time": "hours/days/weeks",
  "risk_if_unaddressed": "low/medium/high/critical"
}
`+"```",
		product,
		strings.ToUpper(severity),
		num(monitoring, "sentiment_change")*100,
		num(monitoring, "volume_change")*100,
		str(investigation, "root_cause_analysis", "Unknown"))
}
