package launch

import "strings"

// launchKeywords are the phrases counted when scoring launch evidence.
var launchKeywords = []string{
	"new product", "launching", "announcing", "introducing",
	"released", "unveiled", "debuting", "available now",
	"coming soon", "pre-order", "just dropped", "brand new",
}

// strongIndicators add a confidence boost when present in the scanner's
// narration.
var strongIndicators = []string{
	"announcing", "introducing", "launching today", "now available",
}

// imageLaunchPhrases mark a launch in the multimodal analysis text.
var imageLaunchPhrases = []string{
	"new product", "launch", "introducing", "announcing",
	"just released", "now available",
}

// KeywordConfidence scores launch evidence from the scanner's narration and
// the raw signal content. Response keywords and signal matches each
// contribute a band (0.2 for one match, 0.4 for several), and a strong
// indicator phrase adds 0.2; the total is capped at 1.0. Detection requires
// the score to reach minConfidence.
func KeywordConfidence(response string, signals []Signal, minConfidence float64) (bool, float64) {
	responseLower := strings.ToLower(response)

	keywordMatches := 0
	for _, kw := range launchKeywords {
		if strings.Contains(responseLower, kw) {
			keywordMatches++
		}
	}

	signalMatches := 0
	for _, sig := range signals {
		content := strings.ToLower(sig.Content)
		for _, kw := range launchKeywords {
			if strings.Contains(content, kw) {
				signalMatches++
				break
			}
		}
	}

	var confidence float64
	switch {
	case keywordMatches >= 3:
		confidence += 0.4
	case keywordMatches >= 1:
		confidence += 0.2
	}
	switch {
	case signalMatches >= 2:
		confidence += 0.4
	case signalMatches >= 1:
		confidence += 0.2
	}

	for _, ind := range strongIndicators {
		if strings.Contains(responseLower, ind) {
			confidence += 0.2
			break
		}
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence >= minConfidence, confidence
}

// ImageConfidence scores the multimodal path: a launch phrase anywhere in
// the analysis yields high confidence, otherwise low.
func ImageConfidence(analysis string) (bool, float64) {
	lower := strings.ToLower(analysis)
	for _, kw := range imageLaunchPhrases {
		if strings.Contains(lower, kw) {
			return true, 0.8
		}
	}
	return false, 0.2
}

// signalSources lists unique sources in first-appearance order.
func signalSources(signals []Signal) []string {
	seen := make(map[string]bool)
	var out []string
	for _, sig := range signals {
		if !seen[sig.Source] {
			seen[sig.Source] = true
			out = append(out, sig.Source)
		}
	}
	return out
}
