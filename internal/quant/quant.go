// Package quant derives the deterministic sub-scores that anchor each review
// cycle. Scoring is a pure, total function over any well-formed deal and is
// recomputed identically on every cycle.
package quant

import (
	"math"

	"dealdesk/models"
)

// Confidence blend weights across the four dimensions.
const (
	growthWeight     = 0.30
	marginWeight     = 0.35
	cashflowWeight   = 0.25
	efficiencyWeight = 0.10
)

// Normalisation benchmarks.
const (
	growthBenchmark    = 0.35      // blended growth rate scoring 1.0
	marginBenchmark    = 0.40      // blended margin scoring 1.0
	cashBurnFloor      = 1_000_000 // FCF at -$1M scores 0
	debtCoverMultiple  = 5.0       // ndMult at 5x zeroes debt cover
	revPerEmpBenchmark = 300_000   // $300k revenue/employee scores 1.0
)

// Provider is the quant input contract consumed by the review state machine.
type Provider interface {
	Score(deal *models.Deal) models.QuantMetrics
}

// Scorer is the production Provider.
type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

// Score computes the four sub-scores and the blended bullish confidence.
func (s *Scorer) Score(deal *models.Deal) models.QuantMetrics {
	revenue := deal.Revenue.InexactFloat64()
	ebitda := deal.EBITDAValue()
	netDebt := deal.NetDebt.InexactFloat64()
	fcf := deal.FreeCashFlow.InexactFloat64()

	// Growth: blended current-year and 3y CAGR against the benchmark.
	rawGrowth := 0.5*deal.RevenueGrowth + 0.5*deal.RevenueCAGR3Y
	growth := clamp01(rawGrowth / growthBenchmark)

	// Margin: gross margin quality plus EBITDA conversion.
	margin := math.Min((deal.GrossMargin*0.4+deal.EBITDAMargin*0.6)/marginBenchmark, 1.0)

	// Cash flow: FCF health blended with net debt coverage.
	fcfScore := 1.0
	if fcf <= 0 {
		fcfScore = math.Max(0.0, 1+fcf/cashBurnFloor)
	}
	debtCover := 1.0
	if ebitda > 0 {
		debtCover = clamp01(1 - netDebt/(ebitda*debtCoverMultiple))
	}
	cashflow := round4(0.6*fcfScore + 0.4*debtCover)

	// Efficiency: revenue per employee against the benchmark.
	efficiency := math.Min(revenue/float64(deal.Employees())/revPerEmpBenchmark, 1.0)

	confidence := round4(growthWeight*growth +
		marginWeight*margin +
		cashflowWeight*cashflow +
		efficiencyWeight*efficiency)

	return models.QuantMetrics{
		GrowthScore:       round3(growth),
		MarginScore:       round3(margin),
		CashflowScore:     round3(cashflow),
		EfficiencyScore:   round3(efficiency),
		BullishConfidence: confidence,
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1.0)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
