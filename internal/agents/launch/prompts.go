package launch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"sentinel/internal/agents"
)

// signalSummary renders up to 20 signals for the scanner prompt.
func signalSummary(signals []Signal) string {
	if len(signals) == 0 {
		return "No signals available"
	}
	if len(signals) > 20 {
		signals = signals[:20]
	}

	var b strings.Builder
	for i, sig := range signals {
		timestamp := "Unknown time"
		if !sig.Timestamp.IsZero() {
			timestamp = sig.Timestamp.Format("2006-01-02 15:04")
		}
		var extras string
		if sig.Author != "" {
			extras += " | @" + sig.Author
		}
		if sig.Engagement > 0 {
			extras += " | Engagement: " + humanize.Comma(int64(sig.Engagement))
		}

		content := sig.Content
		if len(content) > 300 {
			content = content[:300] + "..."
		}

		fmt.Fprintf(&b, "[Signal %d] [%s] %s%s\n", i+1, strings.ToUpper(sig.Source), timestamp, extras)
		fmt.Fprintf(&b, "Content: %s\n", content)
		if sig.URL != "" {
			fmt.Fprintf(&b, "URL: %s\n", sig.URL)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// detailedSignals returns the full content of the top signals by engagement.
func detailedSignals(signals []Signal, limit int) string {
	if len(signals) == 0 {
		return "No detailed signals available"
	}

	sorted := make([]Signal, len(signals))
	copy(sorted, signals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Engagement > sorted[j].Engagement
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	var parts []string
	for _, sig := range sorted {
		parts = append(parts, fmt.Sprintf("=== [%s] ===\n%s", strings.ToUpper(sig.Source), sig.Content))
	}
	return strings.Join(parts, "\n\n")
}

func scannerPrompt(in Input) string {
	return fmt.Sprintf(`You are a competitive intelligence scanner detecting product launches.

COMPETITOR: %s
TOTAL SIGNALS: %d

SIGNALS TO ANALYZE:
%s

Your task is to identify product launch indicators:

1. OBSERVATION: What do these signals tell us about %s's activities?
2. ANALYSIS: Are there any explicit launch announcements?
3. ANALYSIS: What implicit signals suggest a new product (increased buzz, teaser content, etc.)?
4. ANALYSIS: Which platforms show the strongest launch signals?
5. HYPOTHESIS: If there is a launch, what type of product might it be?
6. DECISION: Is there sufficient evidence of a product launch? Rate confidence 0-100%%.

Look for:
- Direct announcements ("We're launching...", "Introducing...")
- Teaser campaigns or countdowns
- Unusual engagement spikes
- Press release language
- Product comparisons or competitive mentions

Be specific about which signals support your conclusions.`,
		in.Competitor, len(in.Signals), signalSummary(in.Signals), in.Competitor)
}

func imagePrompt(competitor string) string {
	return fmt.Sprintf(`You are analyzing a product image/screenshot for competitive intelligence.

COMPETITOR: %s

Analyze this image thoroughly:

1. OBSERVATION: What product or announcement do you see?
   - Product name (if visible)
   - Visual design and branding
   - Key features highlighted
   - Pricing (if shown)
   - Release date (if shown)

2. ANALYSIS: Is this a NEW product or existing?
   - What visual cues indicate newness? ("New", "Introducing", launch graphics)
   - Product version numbers
   - "Coming soon" or availability indicators

3. ANALYSIS: Extract all visible product details:
   - Product specifications
   - Target audience signals
   - Competitive positioning statements
   - Call-to-action text

4. HYPOTHESIS: What market segment is this targeting?

5. DECISION: Is this evidence of a new product launch?
   - Confidence level (0-100%%)
   - Launch type (new product, update, rebrand)

Be thorough - extract every piece of text and visual information relevant to competitive analysis.`,
		competitor)
}

func validatorPrompt(in Input, scan map[string]any) string {
	return fmt.Sprintf(`You are a competitive intelligence validator confirming a potential product launch.

COMPETITOR: %s
INITIAL SCAN CONFIDENCE: %.0f%%

SCANNER ANALYSIS:
%s

DETAILED SIGNAL CONTENT:
%s

Your task is to validate and extract launch details:

1. OBSERVATION: Review the scanner's findings. What evidence is strongest?

2. ANALYSIS: Determine launch type:
   - Is this a genuinely NEW product (never existed before)?
   - Is this a MAJOR UPDATE to existing product?
   - Is this a REBRAND or repositioning?
   - Is this MARKET EXPANSION (existing product, new region)?

3. ANALYSIS: Extract confirmed details:
   - Product name (exact, if mentioned)
   - Key features (list specific capabilities)
   - Target market/audience
   - Pricing (if any indication)
   - Launch date or availability

4. ANALYSIS: Assess information quality:
   - Is this from official sources or rumors?
   - How many independent sources confirm this?
   - Any contradictory information?

5. HYPOTHESIS: What competitive advantage is this product claiming?

6. DECISION: Final validation verdict with confidence adjustment.

End with a structured JSON block:
`+"```json"+`
{
  "is_confirmed_launch": true/false,
  "launch_type": "new_product/major_update/rebrand/expansion/unknown",
  "confidence": 0-100,
  "product_name": "extracted name or 'Unknown'",
  "key_features": ["feature1", "feature2", "feature3"],
  "target_market": "description of target audience",
  "estimated_price": "price or price range if mentioned, else null",
  "launch_date": "date if mentioned, else 'TBD'",
  "official_source": true/false,
  "source_quality": "high/medium/low"
}
`+"```",
		in.Competitor,
		agents.Num(scan, "confidence")*100,
		agents.Str(scan, "analysis", "No analysis available"),
		detailedSignals(in.Signals, 5))
}

func assessorPrompt(in Input, validated map[string]any) string {
	features := agents.Strings(validated, "key_features")
	if len(features) == 0 {
		features = []string{"Unknown"}
	}

	return fmt.Sprintf(`You are a competitive strategy assessor evaluating a competitor's product launch.

COMPETITOR: %s
YOUR PRODUCT: %s

VALIDATED LAUNCH DETAILS:
- Product: %s
- Launch Type: %s
- Confidence: %.0f%%
- Key Features: %s
- Target Market: %s
- Price: %s
- Launch Date: %s

Your task is to assess the competitive threat:

1. OBSERVATION: How does this launch relate to your product space?

2. ANALYSIS: Direct Competition Assessment
   - Feature overlap with %s
   - Price positioning comparison
   - Target audience overlap
   - Unique advantages of competitor's product

3. ANALYSIS: Market Impact Prediction
   - Which customer segments are most at risk?
   - Potential market share impact
   - Timeline of impact (immediate vs gradual)

4. HYPOTHESIS: How might customers react?
   - Likely switching behavior
   - Comparison shopping increase
   - Perception changes

5. RECOMMENDATION: Immediate Actions (within 24-48 hours)
6. RECOMMENDATION: Strategic Response (within 1-4 weeks)
7. RECOMMENDATION: Long-term Considerations

Rate overall threat level based on:
- CRITICAL: Direct competitor to your core product, strong features, aggressive pricing
- HIGH: Significant feature overlap, targets your key segments
- MEDIUM: Some overlap, different positioning or target market
- LOW: Minimal overlap, different market segment
- NONE: No competitive threat identified

End with a structured JSON block:
`+"```json"+`
{
  "threat_level": "none/low/medium/high/critical",
  "threat_score": 0-100,
  "urgency": "immediate/soon/monitor/none",
  "impact_areas": ["area1", "area2"],
  "at_risk_segments": ["segment1", "segment2"],
  "immediate_actions": ["action1", "action2", "action3"],
  "strategic_actions": ["action1", "action2"],
  "monitoring_priorities": ["what to watch1", "what to watch2"],
  "competitive_advantages_to_emphasize": ["your advantage1", "your advantage2"],
  "estimated_response_budget": "low/medium/high",
  "recommended_timeline": "description of response timeline"
}
`+"```",
		in.Competitor,
		in.YourProduct,
		agents.Str(validated, "product_name", "Unknown"),
		agents.Str(validated, "launch_type", string(LaunchUnknown)),
		agents.Num(validated, "confidence"),
		strings.Join(features, ", "),
		agents.Str(validated, "target_market", "Unknown"),
		agents.Str(validated, "estimated_price", "Unknown"),
		agents.Str(validated, "launch_date", "TBD"),
		in.YourProduct)
}
