package pricing

import (
	"fmt"
	"strings"

	"sentinel/internal/agents"
)

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func analystPrompt(product Product, competitor map[string]any) string {
	return fmt.Sprintf(`You are a pricing analyst. Compare these two products and provide market positioning analysis.

YOUR PRODUCT:
- Name: %s
- Current Price: %s %s
- Features: %s

COMPETITOR PRODUCT (from screenshot):
- Name: %s
- Price: %s %s
- Features: %s
- Promotional Signals: %s

Analyze step by step:

1. OBSERVATION: What are the key differences I notice?
2. ANALYSIS: How do these products compare on value proposition?
3. ANALYSIS: What is the price differential and what does it mean?
4. HYPOTHESIS: What market segment is each targeting?
5. DECISION: What is your product's competitive position?

Be specific and use the actual numbers provided.`,
		product.Name,
		product.Price.String(), product.Currency,
		joinOr(product.Features, "Not specified"),
		agents.Str(competitor, "product_name", "Unknown"),
		agents.Str(competitor, "price", "Unknown"),
		agents.Str(competitor, "currency", "USD"),
		joinOr(agents.Strings(competitor, "features"), "Not visible"),
		joinOr(agents.Strings(competitor, "promo_signals"), "None detected"))
}

func strategistPrompt(product Product, competitor, analysis map[string]any) string {
	return fmt.Sprintf(`You are a pricing strategist. Based on the competitive analysis, recommend an optimal price.

YOUR PRODUCT:
- Name: %s
- Current Price: %s %s
- Features: %s

COMPETITOR:
- Name: %s
- Price: %s
- Promos: %s

ANALYSIS:
- Your position: %s
- Price differential: %+.1f%%

Provide your strategic recommendation:

1. OBSERVATION: What key factors should drive this pricing decision?
2. ANALYSIS: What are the risks and opportunities at different price points?
3. HYPOTHESIS: If we change price, what market response do we expect?
4. RECOMMENDATION: What specific price do you recommend and why?

End with a JSON block containing your final recommendation:
`+"```json"+`
{
  "recommended_price": <number>,
  "confidence": <0.0-1.0>,
  "strategy": "increase|decrease|maintain",
  "risk_level": "low|medium|high",
  "key_factors": ["factor1", "factor2", "factor3"]
}
`+"```",
		product.Name,
		product.Price.String(), product.Currency,
		joinOr(product.Features, "Standard features"),
		agents.Str(competitor, "product_name", "Competitor"),
		agents.Str(competitor, "price", "Unknown"),
		joinOr(agents.Strings(competitor, "promo_signals"), "None"),
		agents.Str(analysis, "market_position", PositionUnknown),
		agents.Num(analysis, "price_differential_percent"))
}
