package review

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/config"
	"dealdesk/consts"
	"dealdesk/models"
)

// scriptedGateway replays one canned response per call, in stage order.
type scriptedGateway struct {
	responses []string
	calls     int
}

func (g *scriptedGateway) Complete(_ context.Context, _ string) (string, error) {
	if g.calls >= len(g.responses) {
		return "", fmt.Errorf("unexpected gateway call %d", g.calls+1)
	}
	resp := g.responses[g.calls]
	g.calls++
	return resp, nil
}

type fixedQuant struct{}

func (fixedQuant) Score(*models.Deal) models.QuantMetrics {
	return models.QuantMetrics{
		GrowthScore:       0.7,
		MarginScore:       0.6,
		CashflowScore:     0.8,
		EfficiencyScore:   0.5,
		BullishConfidence: 0.66,
	}
}

func scoutJSON(bullish float64, analysis string) string {
	return fmt.Sprintf(`{
		"analysis": %q,
		"key_strengths": ["growth 28%%", "margin 35%%", "FCF $2M"],
		"concerns": ["concentration 30%%", "debt $10M", "sector cyclical"],
		"bullish_confidence": %v
	}`, analysis, bullish)
}

func contrarianJSON(bearish float64) string {
	return fmt.Sprintf(`{
		"red_flags": ["net debt $10M against $10M EBITDA"],
		"risk_summary": "Leverage manageable, fundamentals intact.",
		"bearish_confidence": %v
	}`, bearish)
}

func judgeJSON(decision string) string {
	return fmt.Sprintf(`{
		"conflict": false,
		"conflict_type": null,
		"final_decision": %q,
		"decision_confidence": 0.8,
		"reasoning": "Growth of 28%% and margin of 35%% outweigh the 1.0x leverage; FCF of $2M supports the capital structure."
	}`, decision)
}

func testMachine(t *testing.T, gw *scriptedGateway) *Machine {
	t.Helper()
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	return NewMachine(cfg, gw, fixedQuant{})
}

// unleveredDeal scores 0.76 with bullish=0.8, bearish=0.2: system says INVEST.
func unleveredDeal() *models.Deal {
	return &models.Deal{
		ID:      "deal-0001",
		Sector:  "Technology",
		Revenue: decimal.NewFromInt(30_000_000),
		EBITDA:  decimal.NewFromInt(10_000_000),
		NetDebt: decimal.NewFromInt(10_000_000),
	}
}

func TestRunSingleCycleWhenReviewerAgrees(t *testing.T) {
	gw := &scriptedGateway{responses: []string{
		scoutJSON(0.8, "Strong deal."),
		contrarianJSON(0.2),
		judgeJSON(consts.DecisionInvest),
	}}
	m := testMachine(t, gw)

	state, err := m.Run(context.Background(), unleveredDeal())
	require.NoError(t, err)

	assert.Equal(t, 1, state.ReviewCycle)
	assert.Equal(t, 3, gw.calls)
	assert.True(t, state.Final())

	v := state.Verdict
	assert.False(t, v.Conflict)
	assert.Equal(t, consts.DecisionInvest, v.FinalDecision)
	assert.Equal(t, consts.DecisionInvest, v.SystemDecision)
	assert.Equal(t, consts.SourceAgreesWithMath, v.DecisionSource)
	assert.Equal(t, 0.76, v.RiskAdjustedScore)
}

func TestRunLoopsBackOnConflictThenSettles(t *testing.T) {
	gw := &scriptedGateway{responses: []string{
		// cycle 1: reviewer says PASS against a 0.76 INVEST score
		scoutJSON(0.8, "First look."),
		contrarianJSON(0.2),
		judgeJSON(consts.DecisionPass),
		// cycle 2: reviewer falls in line
		scoutJSON(0.8, "Second look with deeper data."),
		contrarianJSON(0.2),
		judgeJSON(consts.DecisionInvest),
	}}
	m := testMachine(t, gw)

	state, err := m.Run(context.Background(), unleveredDeal())
	require.NoError(t, err)

	assert.Equal(t, 2, state.ReviewCycle)
	assert.Equal(t, 6, gw.calls)
	assert.False(t, state.Verdict.Conflict)
	assert.Equal(t, consts.SourceAgreesWithMath, state.Verdict.DecisionSource)

	// each cycle overwrites the working reports
	assert.Equal(t, "Second look with deeper data.", state.ScoutReport.Analysis)
}

func TestRunForcesResolutionAtCycleCeiling(t *testing.T) {
	gw := &scriptedGateway{responses: []string{
		scoutJSON(0.8, "First look."),
		contrarianJSON(0.2),
		judgeJSON(consts.DecisionPass),
		scoutJSON(0.8, "Second look."),
		contrarianJSON(0.2),
		judgeJSON(consts.DecisionPass),
	}}
	m := testMachine(t, gw)

	state, err := m.Run(context.Background(), unleveredDeal())
	require.NoError(t, err)

	// never a third Scout pass
	assert.Equal(t, 2, state.ReviewCycle)
	assert.Equal(t, 6, gw.calls)

	// gap |0.8-0.2| > 0.40: probability disagreement, math wins unmodified
	v := state.Verdict
	assert.True(t, v.Conflict)
	assert.Equal(t, consts.ConflictProbability, v.ConflictType)
	assert.Equal(t, consts.DecisionInvest, v.FinalDecision)
	assert.Equal(t, consts.DecisionPass, v.LLMDecision)
	assert.Equal(t, consts.SourceForcedPrefix+consts.ConflictProbability, v.DecisionSource)
}

func TestRunForcedStructuralResolutionShiftsVerdict(t *testing.T) {
	// bullish 0.75, bearish 0.40: score 0.50, gap 0.35. A persistent PASS
	// from the reviewer classifies structural, and the forced resolution
	// re-applies thresholds at 0.35: due diligence, matching neither side.
	gw := &scriptedGateway{responses: []string{
		scoutJSON(0.75, "First look."),
		contrarianJSON(0.40),
		judgeJSON(consts.DecisionPass),
		scoutJSON(0.75, "Second look."),
		contrarianJSON(0.40),
		judgeJSON(consts.DecisionPass),
	}}
	m := testMachine(t, gw)

	state, err := m.Run(context.Background(), unleveredDeal())
	require.NoError(t, err)

	v := state.Verdict
	assert.Equal(t, 0.50, v.RiskAdjustedScore)
	assert.Equal(t, consts.DecisionInvest, v.SystemDecision)
	assert.Equal(t, consts.ConflictStructural, v.ConflictType)
	assert.Equal(t, consts.DecisionDueDiligence, v.FinalDecision)
	assert.Equal(t, consts.SourceForcedPrefix+consts.ConflictStructural, v.DecisionSource)
}

func TestRunPropagatesStageFailure(t *testing.T) {
	// both attempts of the first Scout call return prose, exhausting the
	// retry budget and aborting the review
	gw := &scriptedGateway{responses: []string{
		"Let me think about this deal...",
		"Here is my take in plain English:",
	}}
	m := testMachine(t, gw)

	state, err := m.Run(context.Background(), unleveredDeal())
	require.Error(t, err)
	assert.Nil(t, state)
	assert.Equal(t, 2, gw.calls)
	assert.Contains(t, err.Error(), consts.LabelScout)
}
