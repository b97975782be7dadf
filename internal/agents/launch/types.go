// Package launch implements the three-agent competitor launch detection
// pipeline: a scanner looks for launch indicators in signals or a product
// image, a validator extracts confirmed launch details, and an assessor
// grades the competitive threat.
package launch

import (
	"time"

	"sentinel/internal/adapters/ai"
)

// Agent role names used in emitted events.
const (
	AgentScanner   = "scanner"
	AgentValidator = "validator"
	AgentAssessor  = "assessor"
)

// ThreatLevel grades a competitive launch.
type ThreatLevel string

const (
	ThreatNone     ThreatLevel = "none"
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

// LaunchType classifies what kind of launch was detected.
type LaunchType string

const (
	LaunchNewProduct    LaunchType = "new_product"
	LaunchMajorUpdate   LaunchType = "major_update"
	LaunchRebrand       LaunchType = "rebrand"
	LaunchExpansion     LaunchType = "expansion"
	LaunchPricingChange LaunchType = "pricing_change"
	LaunchUnknown       LaunchType = "unknown"
)

// Signal is one piece of evidence about a potential launch.
type Signal struct {
	Source     string // twitter, reddit, news, press_release, ...
	Content    string
	URL        string
	Timestamp  time.Time
	Engagement int // likes, shares, comments
	Author     string
}

// Input is one detection run. When Image is set the scanner takes the
// multimodal path and the signals feed only the validator.
type Input struct {
	Competitor  string
	YourProduct string
	Signals     []Signal
	Image       *ai.Image
}

// Config holds the detection thresholds. Zero values take the production
// defaults from withDefaults.
type Config struct {
	Model    string
	Thinking ai.ThinkingLevel

	// MinConfidence is the scanner confidence needed to proceed to
	// validation, on a 0..1 scale.
	MinConfidence float64

	// MinSignals is the smallest signal count worth analyzing.
	MinSignals int
}

func (c Config) withDefaults() Config {
	if c.MinConfidence == 0 {
		c.MinConfidence = 0.3
	}
	if c.MinSignals == 0 {
		c.MinSignals = 1
	}
	return c
}
