package engine

import (
	"math"

	"dealdesk/consts"
)

// Classify categorises a disagreement between the reviewer's stated decision
// and the deterministic verdict. The probability gap is checked first: a
// wide confidence gap is never misclassified as structural even when the
// score also falls inside the ambiguous band.
func (e *Engine) Classify(bullish, bearish, score float64) string {
	if math.Abs(bullish-bearish) > e.cfg.ConfidenceGapThreshold {
		return consts.ConflictProbability
	}
	if score > -e.cfg.AmbiguousBand && score < e.cfg.AmbiguousBand {
		return consts.ConflictAmbiguous
	}
	return consts.ConflictStructural
}

// Resolve deterministically settles a conflict once the cycle budget is
// exhausted:
//
//   - ambiguous math never forces INVEST or PASS;
//   - unexplained structural conflict biases toward caution via a flat
//     penalty shift before re-applying thresholds;
//   - a pure probability disagreement trusts the math unmodified.
func (e *Engine) Resolve(category string, score float64) string {
	switch category {
	case consts.ConflictAmbiguous:
		return consts.DecisionDueDiligence
	case consts.ConflictStructural:
		return e.Verdict(score - e.cfg.StructuralPenalty)
	default:
		return e.Verdict(score)
	}
}
