package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"sentinel/internal/agents"
	"sentinel/pkg/fence"
)

// Market position labels derived from the price differential.
const (
	PositionPremium     = "premium"
	PositionDiscount    = "discount"
	PositionCompetitive = "competitive"
	PositionUnknown     = "unknown"
)

// ParsePrice recovers a decimal from a price string as extracted from a
// screenshot, tolerating currency symbols and thousands separators. A string
// with no usable digits parses as zero.
func ParsePrice(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PriceDifferential compares your price against the competitor's and labels
// the market position: more than 5% above is premium, more than 5% below is
// discount, within the band is competitive. A non-positive competitor price
// yields zero and unknown.
func PriceDifferential(yours, competitor decimal.Decimal) (float64, string) {
	if competitor.Sign() <= 0 {
		return 0, PositionUnknown
	}

	diff, _ := yours.Sub(competitor).Div(competitor).Mul(decimal.NewFromInt(100)).Float64()

	switch {
	case diff > 5:
		return diff, PositionPremium
	case diff < -5:
		return diff, PositionDiscount
	default:
		return diff, PositionCompetitive
	}
}

// ParseRecommendation extracts the strategist's JSON verdict from the
// response text. The fallback ladder is fence, then a flat object carrying
// the recommended_price key; when nothing parses the recommendation is to
// maintain the current price at low confidence. The change percent is
// guarded against a zero current price.
func ParseRecommendation(response string, product Product) Recommendation {
	parsed, ok := fence.Object(response)
	if !ok {
		parsed, ok = fence.ObjectWithKey(response, "recommended_price")
	}
	if !ok {
		return Recommendation{
			RecommendedPrice:   product.Price,
			Confidence:         0.3,
			Reasoning:          response,
			PriceChangePercent: 0,
			Strategy:           "maintain",
			RiskLevel:          "medium",
			KeyFactors:         []string{"Unable to parse AI recommendation"},
		}
	}

	recommended := product.Price
	if v, isNum := parsed["recommended_price"].(float64); isNum {
		recommended = decimal.NewFromFloat(v)
	}

	var changePercent float64
	if product.Price.Sign() > 0 {
		changePercent, _ = recommended.Sub(product.Price).
			Div(product.Price).Mul(decimal.NewFromInt(100)).Float64()
	}

	confidence := 0.5
	if v, isNum := parsed["confidence"].(float64); isNum {
		confidence = v
	}

	return Recommendation{
		RecommendedPrice:   recommended,
		Confidence:         confidence,
		Reasoning:          response,
		PriceChangePercent: changePercent,
		Strategy:           agents.Str(parsed, "strategy", "maintain"),
		RiskLevel:          agents.Str(parsed, "risk_level", "medium"),
		KeyFactors:         agents.Strings(parsed, "key_factors"),
	}
}
