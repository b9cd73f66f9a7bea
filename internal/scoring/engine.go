package scoring

import "quantBreakoutBot/internal/domain"

// The composite score is a fixed additive rubric, not a learned model.
// The weights sum to 100 and each term is independent, so the result is
// always in [0,100]. The constants are contractual: reproducing them
// exactly is what makes scores comparable across deployments.
const (
	probStrong    = 0.65 // Probability above this earns the full weight
	probWeight    = 30
	probBase      = 10
	trendWeight   = 30
	volCalm       = 35.0 // Volatility below this earns the full weight
	volWeight     = 20
	volBase       = 5
	rsiLowerBound = 40.0 // Exclusive band of healthy oscillator readings
	rsiUpperBound = 65.0
	rsiWeight     = 20
	rsiBase       = 5
)

// Inputs are the four independent signals the rubric fuses.
type Inputs struct {
	Trend       domain.Trend
	Volatility  float64
	Probability float64
	RSI         float64
}

// Score computes the composite score for one candidate.
func Score(in Inputs) int {
	score := 0

	if in.Probability > probStrong {
		score += probWeight
	} else {
		score += probBase
	}

	if in.Trend == domain.TrendBullish {
		score += trendWeight
	}

	if in.Volatility < volCalm {
		score += volWeight
	} else {
		score += volBase
	}

	if in.RSI > rsiLowerBound && in.RSI < rsiUpperBound {
		score += rsiWeight
	} else {
		score += rsiBase
	}

	return score
}

// Eligible reports whether a score clears the trade threshold.
func Eligible(score, threshold int) bool {
	return score >= threshold
}
