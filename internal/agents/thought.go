package agents

import "strings"

// thoughtRule binds trigger keywords to a category. Rules are evaluated in
// order and the first rule containing a matching keyword wins, so the
// precedence between categories lives in this table, not in control flow.
type thoughtRule struct {
	thought  ThoughtType
	keywords []string
}

var thoughtRules = []thoughtRule{
	{ThoughtObservation, []string{"i see", "looking at", "observing", "notice", "scanning"}},
	{ThoughtAnalysis, []string{"analyzing", "comparing", "examining", "this means", "evaluating"}},
	{ThoughtHypothesis, []string{"could be", "might", "possibly", "hypothesis", "if we"}},
	{ThoughtDecision, []string{"therefore", "conclude", "decision", "determined", "verdict"}},
	{ThoughtRecommendation, []string{"recommend", "suggest", "should", "optimal", "strategy"}},
}

// ClassifyThought assigns a reasoning category to a text fragment by keyword
// match. Returns "" when no rule matches; callers supply their own fallback.
func ClassifyThought(text string) ThoughtType {
	lower := strings.ToLower(text)
	for _, rule := range thoughtRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.thought
			}
		}
	}
	return ""
}

// Classifier maps a text fragment to a thought category.
type Classifier func(text string) ThoughtType

// DefaultClassifier returns the keyword classifier with a fallback category
// for fragments no rule matches.
func DefaultClassifier(fallback ThoughtType) Classifier {
	return func(text string) ThoughtType {
		if t := ClassifyThought(text); t != "" {
			return t
		}
		return fallback
	}
}
