package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dealdesk/config"
	"dealdesk/consts"
)

func TestClassifyProbabilityDisagreement(t *testing.T) {
	e := New(config.DefaultRisk())

	got := e.Classify(0.85, 0.30, 0.52)
	assert.Equal(t, consts.ConflictProbability, got)
}

func TestClassifyGapWinsOverAmbiguousBand(t *testing.T) {
	e := New(config.DefaultRisk())

	// gap 0.60 and score inside (-0.20, 0.20): the gap check runs first,
	// so this is never misread as an ambiguous signal
	got := e.Classify(0.90, 0.30, 0.10)
	assert.Equal(t, consts.ConflictProbability, got)
}

func TestClassifyAmbiguousSignal(t *testing.T) {
	e := New(config.DefaultRisk())

	got := e.Classify(0.60, 0.50, 0.10)
	assert.Equal(t, consts.ConflictAmbiguous, got)
}

func TestClassifyStructuralDisagreement(t *testing.T) {
	e := New(config.DefaultRisk())

	got := e.Classify(0.60, 0.50, 0.50)
	assert.Equal(t, consts.ConflictStructural, got)
}

func TestClassifyBoundariesAreStrict(t *testing.T) {
	e := New(config.DefaultRisk())

	// gap of exactly 0.40 does not trip the probability branch
	assert.Equal(t, consts.ConflictStructural, e.Classify(0.80, 0.40, 0.30))
	// score of exactly 0.20 sits outside the open ambiguous band
	assert.Equal(t, consts.ConflictStructural, e.Classify(0.60, 0.50, 0.20))
	assert.Equal(t, consts.ConflictStructural, e.Classify(0.60, 0.50, -0.20))
}

func TestResolveAmbiguousAlwaysDueDiligence(t *testing.T) {
	e := New(config.DefaultRisk())

	for _, score := range []float64{-1.0, -0.19, 0.0, 0.19, 0.9, 1.0} {
		got := e.Resolve(consts.ConflictAmbiguous, score)
		assert.Equal(t, consts.DecisionDueDiligence, got, "score %.2f", score)
	}
}

func TestResolveStructuralAppliesPenaltyShift(t *testing.T) {
	e := New(config.DefaultRisk())

	// 0.50 - 0.15 = 0.35, below the invest threshold
	assert.Equal(t, consts.DecisionDueDiligence, e.Resolve(consts.ConflictStructural, 0.50))
	// 0.65 - 0.15 = 0.50 still clears it
	assert.Equal(t, consts.DecisionInvest, e.Resolve(consts.ConflictStructural, 0.65))
	// -0.05 - 0.15 = -0.20 pushes a borderline score into PASS
	assert.Equal(t, consts.DecisionPass, e.Resolve(consts.ConflictStructural, -0.05))
}

func TestResolveProbabilityTrustsTheMath(t *testing.T) {
	e := New(config.DefaultRisk())

	assert.Equal(t, consts.DecisionInvest, e.Resolve(consts.ConflictProbability, 0.50))
	assert.Equal(t, consts.DecisionPass, e.Resolve(consts.ConflictProbability, -0.50))
	assert.Equal(t, consts.DecisionDueDiligence, e.Resolve(consts.ConflictProbability, 0.10))
}
