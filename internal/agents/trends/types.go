// Package trends implements the three-agent market trend analysis pipeline:
// an observer scans market metrics and chart images for patterns, an analyst
// interprets drivers and risks, and a forecaster predicts direction and
// recommends pricing action. All three phases always run.
package trends

import "sentinel/internal/adapters/ai"

// Agent role names used in emitted events.
const (
	AgentObserver   = "observer"
	AgentAnalyst    = "analyst"
	AgentForecaster = "forecaster"
)

// Direction classifies a forecast trend.
type Direction string

const (
	DirectionStrongUp   Direction = "strong_up"
	DirectionUp         Direction = "up"
	DirectionStable     Direction = "stable"
	DirectionDown       Direction = "down"
	DirectionStrongDown Direction = "strong_down"
)

// MarketData is the metric snapshot one analysis runs over. Trend fields
// take the values up, down or stable.
type MarketData struct {
	SentimentScore     float64 // -1.0 to 1.0
	SentimentTrend     string
	Volume24h          int
	VolumeTrend        string
	PriceChange7d      float64 // percent
	PriceChange30d     float64 // percent
	SocialMentions     int
	SocialTrend        string
	CompetitorActivity string // normal, elevated, aggressive
	MarketPosition     string // leader, mid, niche
	Seasonality        string
}

// Input is one analysis run. When Image is set a chart analysis pre-step
// runs before the observer and its text feeds the observer prompt.
type Input struct {
	Product  string
	Category string
	Market   MarketData
	Image    *ai.Image
}

// Config holds the pipeline settings. The model default differs from the
// other pipelines: trend analysis favors throughput over reasoning depth.
type Config struct {
	Model    string
	Thinking ai.ThinkingLevel
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
	return c
}
