package sections

import (
	"math"

	"github.com/periscan/periscan/internal/types"
)

// Confidence scores a candidate from its structural signals and the size
// of its peer group. Deterministic, additive, clamped to [0,1] and
// rounded to two decimals.
//
// Fewer competing candidates and stronger structural signals (heading,
// keyword density) both increase trust.
func Confidence(c types.SectionCandidate, totalCandidates int) float64 {
	score := math.Min(float64(len(c.MatchedKeywords))/4, 1) * 0.4

	if c.IsTitle {
		score += 0.25
	}

	switch {
	case len(c.Text) > 200:
		score += 0.15
	case len(c.Text) > 50:
		score += 0.08
	}

	switch {
	case totalCandidates == 1:
		score += 0.2
	case totalCandidates == 2:
		score += 0.1
	case totalCandidates <= 3:
		score += 0.05
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return math.Round(score*100) / 100
}
