// Package pricing implements the three-agent visual pricing intelligence
// pipeline: a scout extracts competitor data from a screenshot, an analyst
// compares market positioning, and a strategist recommends an optimal price.
package pricing

import (
	"github.com/shopspring/decimal"

	"sentinel/internal/adapters/ai"
)

// Agent role names used in emitted events.
const (
	AgentScout      = "scout"
	AgentAnalyst    = "analyst"
	AgentStrategist = "strategist"
)

// Product describes one side of the price comparison.
type Product struct {
	Name     string
	Price    decimal.Decimal
	Currency string
	Features []string
}

// Input is one pricing run: your product against a competitor screenshot.
type Input struct {
	Image   ai.Image
	Product Product
}

// Recommendation is the strategist's parsed verdict. Prices are decimals so
// money never rides on binary floats.
type Recommendation struct {
	RecommendedPrice   decimal.Decimal
	Confidence         float64
	Reasoning          string
	PriceChangePercent float64
	Strategy           string // increase, decrease, maintain
	RiskLevel          string // low, medium, high
	KeyFactors         []string
}

// Config holds the pipeline settings.
type Config struct {
	Model    string
	Thinking ai.ThinkingLevel
}
