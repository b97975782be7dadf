// Package crisis implements the three-agent brand crisis detection pipeline:
// a monitor scans sentiment data for anomalies, an investigator identifies
// the root cause, and a response agent recommends crisis actions.
package crisis

import (
	"time"

	"sentinel/internal/adapters/ai"
)

// Agent role names used in emitted events.
const (
	AgentMonitor      = "monitor"
	AgentInvestigator = "investigator"
	AgentResponse     = "response"
)

// Severity grades a detected crisis.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Point is a single sentiment sample from one source.
type Point struct {
	Timestamp  time.Time
	Score      float64 // -1.0 to 1.0
	Volume     int     // mention count
	Source     string  // twitter, reddit, news, ...
	SampleText string
}

// Input is one detection run.
type Input struct {
	Product  string
	Baseline float64 // normal sentiment level, -1.0 to 1.0
	Points   []Point
}

// Config holds the detection thresholds. Zero values take the production
// defaults from withDefaults.
type Config struct {
	Model    string
	Thinking ai.ThinkingLevel

	// SentimentDropThreshold flags an anomaly when the midpoint-split
	// sentiment change falls below it.
	SentimentDropThreshold float64

	// VolumeSpikeThreshold flags an anomaly when mention volume grows by
	// more than this factor.
	VolumeSpikeThreshold float64

	// MinimumMentions is the smallest sample size worth analyzing.
	MinimumMentions int
}

func (c Config) withDefaults() Config {
	if c.SentimentDropThreshold == 0 {
		c.SentimentDropThreshold = -0.2
	}
	if c.VolumeSpikeThreshold == 0 {
		c.VolumeSpikeThreshold = 2.0
	}
	if c.MinimumMentions == 0 {
		c.MinimumMentions = 10
	}
	return c
}
