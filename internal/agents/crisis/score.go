package crisis

import (
	"math"
	"sort"
	"time"

	"sentinel/internal/agents"
)

// Metrics is the deterministic anomaly calculation over a sample window.
type Metrics struct {
	SentimentChange   float64
	VolumeChange      float64
	CurrentSentiment  float64
	PeakNegativeTime  time.Time
	PeakNegativeScore float64
}

// AnomalyMetrics splits the time-sorted points at the midpoint and compares
// the recent half against the older half. Sentiment change is normalized by
// the older mean with a 0.1 floor so a near-zero baseline cannot explode the
// ratio; volume change is floored at 1 mention. An anomaly is a sentiment
// change below dropThreshold or a volume change above spikeThreshold.
//
// The input slice is not mutated, and the result does not depend on the
// order points arrive in.
func AnomalyMetrics(points []Point, baseline, dropThreshold, spikeThreshold float64) (bool, Metrics) {
	if len(points) == 0 {
		return false, Metrics{CurrentSentiment: baseline}
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	mid := len(sorted) / 2
	old, recent := sorted[:mid], sorted[mid:]
	if mid == 0 {
		old, recent = sorted, sorted
	}

	oldSentiment := meanScore(old)
	recentSentiment := meanScore(recent)
	oldVolume := meanVolume(old)
	recentVolume := meanVolume(recent)

	sentimentChange := (recentSentiment - oldSentiment) / math.Max(math.Abs(oldSentiment), 0.1)
	volumeChange := (recentVolume - oldVolume) / math.Max(oldVolume, 1)

	// Earliest occurrence wins ties for the most negative point.
	peak := sorted[0]
	for _, p := range sorted[1:] {
		if p.Score < peak.Score {
			peak = p
		}
	}

	detected := sentimentChange < dropThreshold || volumeChange > spikeThreshold

	return detected, Metrics{
		SentimentChange:   sentimentChange,
		VolumeChange:      volumeChange,
		CurrentSentiment:  recentSentiment,
		PeakNegativeTime:  peak.Timestamp,
		PeakNegativeScore: peak.Score,
	}
}

func meanScore(points []Point) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Score
	}
	return sum / float64(len(points))
}

func meanVolume(points []Point) float64 {
	var sum float64
	for _, p := range points {
		sum += float64(p.Volume)
	}
	return sum / float64(len(points))
}

// AssessSeverity grades a crisis from the monitoring metrics. The sentiment
// change contributes by magnitude, so a drop and an equally-sized recovery
// weigh the same; missing keys count as zero.
func AssessSeverity(monitoring map[string]any) Severity {
	sentiment := math.Abs(agents.Num(monitoring, "sentiment_change"))
	volume := agents.Num(monitoring, "volume_change")

	switch {
	case sentiment > 0.6 || volume > 5:
		return SeverityCritical
	case sentiment > 0.4 || volume > 3:
		return SeverityHigh
	case sentiment > 0.2 || volume > 1.5:
		return SeverityMedium
	case sentiment > 0.1 || volume > 0.5:
		return SeverityLow
	default:
		return SeverityNone
	}
}

// affectedSources lists sources whose mean sentiment is negative, ordered by
// first appearance in time order.
func affectedSources(points []Point) []string {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	type acc struct {
		sum   float64
		count int
	}
	totals := make(map[string]*acc)
	var order []string
	for _, p := range sorted {
		a, ok := totals[p.Source]
		if !ok {
			a = &acc{}
			totals[p.Source] = a
			order = append(order, p.Source)
		}
		a.sum += p.Score
		a.count++
	}

	var out []string
	for _, source := range order {
		a := totals[source]
		if a.sum/float64(a.count) < 0 {
			out = append(out, source)
		}
	}
	return out
}
