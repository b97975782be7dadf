// Package agents holds the shared machinery of the analysis pipelines:
// the event model, the classified thought stream, and the phase relay that
// turns raw model output into agent events.
package agents

// ThoughtType classifies a fragment of agent reasoning.
type ThoughtType string

const (
	ThoughtObservation    ThoughtType = "observation"
	ThoughtAnalysis       ThoughtType = "analysis"
	ThoughtHypothesis     ThoughtType = "hypothesis"
	ThoughtDecision       ThoughtType = "decision"
	ThoughtRecommendation ThoughtType = "recommendation"
)

// Event is one unit of a pipeline's output stream. Streams contain zero or
// more non-final events followed by exactly one final event; Metadata on the
// final event carries the structured result.
type Event struct {
	Agent    string
	Thought  ThoughtType
	Content  string
	Final    bool
	Metadata map[string]any
}
