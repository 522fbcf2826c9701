// Package engine holds the deterministic half of a deal review: the
// risk-adjusted score, the verdict thresholds, and the conflict
// classification and resolution rules. Everything here is a pure function of
// its inputs and the immutable Risk configuration.
package engine

import (
	"math"

	"dealdesk/config"
	"dealdesk/consts"
	"dealdesk/models"
)

type Engine struct {
	cfg config.Risk
}

func New(cfg config.Risk) *Engine {
	return &Engine{cfg: cfg}
}

// ComputeScore blends the two reviewer confidences into a risk-adjusted
// score in [-1, 1]. Leverage risk compounds bearish sentiment
// multiplicatively before the linear blend, so highly levered deals are
// penalised disproportionately rather than just additively.
func (e *Engine) ComputeScore(bullish, bearish float64, deal *models.Deal) float64 {
	leveragePenalty := 1.0
	if deal.NetDebtMultiple() > e.cfg.LeverageThreshold {
		leveragePenalty = e.cfg.LeveragePenaltyMultiplier
	}

	adjustedBearish := math.Min(1.0, bearish*leveragePenalty)
	downsideWeight := e.cfg.DownsideWeightNormal
	if leveragePenalty > 1 {
		downsideWeight = e.cfg.DownsideWeightLevered
	}

	score := bullish*e.cfg.UpsideWeight - adjustedBearish*downsideWeight
	return round4(clamp(score, -1.0, 1.0))
}

// Verdict partitions scores into three disjoint ranges. The boundaries
// belong to the middle band: a score exactly at the invest threshold is not
// INVEST, and exactly at the pass threshold is not PASS.
func (e *Engine) Verdict(score float64) string {
	switch {
	case score > e.cfg.InvestThreshold:
		return consts.DecisionInvest
	case score < e.cfg.PassThreshold:
		return consts.DecisionPass
	default:
		return consts.DecisionDueDiligence
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
