package consts

// Review stages
const (
	StageScout      = "scout"
	StageContrarian = "contrarian"
	StageJudge      = "judge"
)

// Stage display labels, used in logs and retry errors
const (
	LabelScout      = "Scout"
	LabelContrarian = "Contrarian"
	LabelJudge      = "Judge"
)

// Final decisions, the closed three-value set
const (
	DecisionInvest       = "INVEST"
	DecisionPass         = "PASS"
	DecisionDueDiligence = "REQUIRES_DUE_DILIGENCE"
)

// Conflict categories
const (
	ConflictProbability = "PROBABILITY_DISAGREEMENT"
	ConflictAmbiguous   = "AMBIGUOUS_SIGNAL"
	ConflictStructural  = "STRUCTURAL_DISAGREEMENT"
)

// Decision sources recorded on the final verdict
const (
	SourceAgreesWithMath  = "LLM_AGREES_WITH_MATH"
	SourceConflictPending = "CONFLICT_PENDING_REVIEW"
	SourceForcedPrefix    = "FORCED_" // followed by the conflict category
)

// Deal queue statuses
const (
	StatusNew        = "NEW"
	StatusProcessing = "PROCESSING"
	StatusFinalized  = "FINALIZED"
	StatusFailed     = "FAILED"
)

// ValidDecision reports whether d is one of the three allowed final decisions.
func ValidDecision(d string) bool {
	switch d {
	case DecisionInvest, DecisionPass, DecisionDueDiligence:
		return true
	}
	return false
}
