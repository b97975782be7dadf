package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"$49.99", "49.99"},
		{"€1,299.00", "1299"},
		{"USD 25", "25"},
		{"19.99", "19.99"},
	}
	for _, tc := range cases {
		assert.True(t, dec(tc.want).Equal(ParsePrice(tc.in)), "input: %q", tc.in)
	}
}

func TestParsePriceNoDigits(t *testing.T) {
	assert.True(t, ParsePrice("price not visible").IsZero())
	assert.True(t, ParsePrice("").IsZero())
}

func TestPriceDifferentialBands(t *testing.T) {
	// 20% above competitor
	diff, pos := PriceDifferential(dec("60"), dec("50"))
	assert.InDelta(t, 20, diff, 1e-9)
	assert.Equal(t, PositionPremium, pos)

	// 20% below
	diff, pos = PriceDifferential(dec("40"), dec("50"))
	assert.InDelta(t, -20, diff, 1e-9)
	assert.Equal(t, PositionDiscount, pos)

	// within the 5% band
	diff, pos = PriceDifferential(dec("51"), dec("50"))
	assert.InDelta(t, 2, diff, 1e-9)
	assert.Equal(t, PositionCompetitive, pos)

	// exactly at the band edge stays competitive
	_, pos = PriceDifferential(dec("52.5"), dec("50"))
	assert.Equal(t, PositionCompetitive, pos)
}

func TestPriceDifferentialUnknownCompetitor(t *testing.T) {
	diff, pos := PriceDifferential(dec("60"), decimal.Zero)
	assert.Equal(t, 0.0, diff)
	assert.Equal(t, PositionUnknown, pos)
}

func TestParseRecommendationFenced(t *testing.T) {
	product := Product{Name: "TrackMaster", Price: dec("50"), Currency: "USD"}
	response := "Reasoning first.\n```json\n{\"recommended_price\": 55, \"confidence\": 0.8, " +
		"\"strategy\": \"increase\", \"risk_level\": \"low\", \"key_factors\": [\"feature lead\"]}\n```"

	rec := ParseRecommendation(response, product)

	assert.True(t, dec("55").Equal(rec.RecommendedPrice))
	assert.Equal(t, 0.8, rec.Confidence)
	assert.Equal(t, "increase", rec.Strategy)
	assert.Equal(t, "low", rec.RiskLevel)
	assert.Equal(t, []string{"feature lead"}, rec.KeyFactors)
	assert.InDelta(t, 10, rec.PriceChangePercent, 1e-9)
	assert.Equal(t, response, rec.Reasoning)
}

func TestParseRecommendationBareObject(t *testing.T) {
	product := Product{Name: "TrackMaster", Price: dec("50")}
	response := `no fences, but {"recommended_price": 45, "strategy": "decrease"} appears inline`

	rec := ParseRecommendation(response, product)

	assert.True(t, dec("45").Equal(rec.RecommendedPrice))
	assert.Equal(t, "decrease", rec.Strategy)
	assert.InDelta(t, -10, rec.PriceChangePercent, 1e-9)
	// missing confidence takes the mid default
	assert.Equal(t, 0.5, rec.Confidence)
}

func TestParseRecommendationUnparseable(t *testing.T) {
	product := Product{Name: "TrackMaster", Price: dec("50")}

	rec := ParseRecommendation("pure prose with no structure", product)

	require.True(t, product.Price.Equal(rec.RecommendedPrice))
	assert.Equal(t, 0.3, rec.Confidence)
	assert.Equal(t, "maintain", rec.Strategy)
	assert.Equal(t, "medium", rec.RiskLevel)
	assert.Equal(t, []string{"Unable to parse AI recommendation"}, rec.KeyFactors)
	assert.Equal(t, 0.0, rec.PriceChangePercent)
}

func TestParseRecommendationZeroCurrentPrice(t *testing.T) {
	product := Product{Name: "Freebie", Price: decimal.Zero}
	response := "```json\n{\"recommended_price\": 10}\n```"

	rec := ParseRecommendation(response, product)

	assert.True(t, dec("10").Equal(rec.RecommendedPrice))
	// change percent is undefined against a zero price and stays zero
	assert.Equal(t, 0.0, rec.PriceChangePercent)
}

func TestParseRecommendationExactDecimalChange(t *testing.T) {
	// 49.99 -> 44.99 is -10.002% when computed in decimal
	product := Product{Price: dec("49.99")}
	response := "```json\n{\"recommended_price\": 44.99}\n```"

	rec := ParseRecommendation(response, product)
	assert.InDelta(t, -10.002, rec.PriceChangePercent, 0.001)
}
