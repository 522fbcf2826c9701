package quant

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"dealdesk/models"
)

func TestScoreBenchmarkDeal(t *testing.T) {
	// growth: (0.35+0.35)/2 / 0.35 = 1.0
	// margin: (0.6*0.4 + 0.2*0.6) / 0.40 = 0.9
	// cashflow: FCF positive (1.0), debt cover 1 - 6/(6*5) = 0.8 -> 0.92
	// efficiency: 30M / 100 / 300k = 1.0
	deal := &models.Deal{
		ID:            "benchmark",
		Revenue:       decimal.NewFromInt(30_000_000),
		EBITDA:        decimal.NewFromInt(6_000_000),
		NetDebt:       decimal.NewFromInt(6_000_000),
		FreeCashFlow:  decimal.NewFromInt(2_000_000),
		RevenueGrowth: 0.35,
		RevenueCAGR3Y: 0.35,
		GrossMargin:   0.60,
		EBITDAMargin:  0.20,
		EmployeeCount: 100,
	}

	m := NewScorer().Score(deal)

	assert.Equal(t, 1.0, m.GrowthScore)
	assert.Equal(t, 0.9, m.MarginScore)
	assert.Equal(t, 0.92, m.CashflowScore)
	assert.Equal(t, 1.0, m.EfficiencyScore)

	// 0.30*1.0 + 0.35*0.9 + 0.25*0.92 + 0.10*1.0
	assert.Equal(t, 0.945, m.BullishConfidence)
}

func TestScoreSubScoresStayInUnitInterval(t *testing.T) {
	extremes := []*models.Deal{
		{
			ID:            "hypergrowth",
			Revenue:       decimal.NewFromInt(100_000_000),
			EBITDA:        decimal.NewFromInt(50_000_000),
			FreeCashFlow:  decimal.NewFromInt(20_000_000),
			RevenueGrowth: 2.0,
			RevenueCAGR3Y: 1.5,
			GrossMargin:   0.95,
			EBITDAMargin:  0.50,
			EmployeeCount: 10,
		},
		{
			ID:            "distressed",
			Revenue:       decimal.NewFromInt(2_000_000),
			NetDebt:       decimal.NewFromInt(50_000_000),
			FreeCashFlow:  decimal.NewFromInt(-8_000_000),
			RevenueGrowth: -0.40,
			RevenueCAGR3Y: -0.30,
			GrossMargin:   0.05,
			EBITDAMargin:  0.01,
			EmployeeCount: 500,
		},
	}

	s := NewScorer()
	for _, deal := range extremes {
		m := s.Score(deal)
		for name, v := range map[string]float64{
			"growth":     m.GrowthScore,
			"margin":     m.MarginScore,
			"cashflow":   m.CashflowScore,
			"efficiency": m.EfficiencyScore,
			"confidence": m.BullishConfidence,
		} {
			assert.GreaterOrEqual(t, v, 0.0, "%s for %s", name, deal.ID)
			assert.LessOrEqual(t, v, 1.0, "%s for %s", name, deal.ID)
		}
	}
}

func TestScoreCashBurnFloor(t *testing.T) {
	deal := &models.Deal{
		ID:           "burner",
		Revenue:      decimal.NewFromInt(10_000_000),
		FreeCashFlow: decimal.NewFromInt(-1_000_000),
		EBITDAMargin: 0.10,
	}

	m := NewScorer().Score(deal)

	// FCF at -$1M zeroes the health component; EBITDA > 0 so debt cover is
	// full at zero net debt: 0.6*0 + 0.4*1.0
	assert.Equal(t, 0.4, m.CashflowScore)
}

func TestScoreDerivesEBITDAFromMargin(t *testing.T) {
	stated := &models.Deal{
		ID:           "stated",
		Revenue:      decimal.NewFromInt(20_000_000),
		EBITDA:       decimal.NewFromInt(4_000_000),
		NetDebt:      decimal.NewFromInt(10_000_000),
		FreeCashFlow: decimal.NewFromInt(1_000_000),
		EBITDAMargin: 0.20,
	}
	derived := &models.Deal{
		ID:           "derived",
		Revenue:      decimal.NewFromInt(20_000_000),
		NetDebt:      decimal.NewFromInt(10_000_000),
		FreeCashFlow: decimal.NewFromInt(1_000_000),
		EBITDAMargin: 0.20,
	}

	s := NewScorer()
	assert.Equal(t, s.Score(stated).CashflowScore, s.Score(derived).CashflowScore)
}

func TestScoreZeroEmployeesDoesNotPanic(t *testing.T) {
	deal := &models.Deal{
		ID:      "ghost",
		Revenue: decimal.NewFromInt(1_000_000),
	}

	m := NewScorer().Score(deal)
	assert.Equal(t, 1.0, m.EfficiencyScore)
}
