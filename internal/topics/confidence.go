package topics

import "math"

// Confidence calibration constants. The MMR working range is empirical
// (roughly -0.5 to 0.7); the evidence boost saturates so multiple
// supporting sentences raise confidence without ever dominating relevance.
const (
	mmrRangeOffset     = 0.5
	mmrRangeWidth      = 1.2
	evidenceBoostCap   = 0.3
	evidenceBoostScale = 10.0
)

// Confidence turns a raw MMR score and an evidence count into a bounded
// confidence value in [0, 1], rounded to 3 decimals:
//
//	clamp((mmr+0.5)/1.2, 0, 1) + min(0.3, ln(1+evidence)/10), clamped to 1.
func Confidence(mmrScore float64, evidenceCount int) float64 {
	normalized := (mmrScore + mmrRangeOffset) / mmrRangeWidth
	if normalized < 0 {
		normalized = 0
	}

	if normalized > 1 {
		normalized = 1
	}

	boost := math.Log1p(float64(evidenceCount)) / evidenceBoostScale
	if boost > evidenceBoostCap {
		boost = evidenceBoostCap
	}

	confidence := normalized + boost
	if confidence > 1 {
		confidence = 1
	}

	return math.Round(confidence*1000) / 1000
}
