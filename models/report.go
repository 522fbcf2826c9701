package models

// QuantMetrics holds the four deterministic sub-scores plus the derived
// bullish confidence, all in [0,1]. Recomputed identically on every cycle.
type QuantMetrics struct {
	GrowthScore       float64 `json:"growth_score"`
	MarginScore       float64 `json:"margin_score"`
	CashflowScore     float64 `json:"cashflow_score"`
	EfficiencyScore   float64 `json:"efficiency_score"`
	BullishConfidence float64 `json:"bullish_confidence"`
}

// ScoutReport is the Scout stage output: quant metrics plus the reviewer's
// qualitative case. Overwritten, not merged, on each new cycle.
type ScoutReport struct {
	Metrics           QuantMetrics `json:"metrics"`
	Analysis          string       `json:"analysis"`
	KeyStrengths      []string     `json:"key_strengths"`
	Concerns          []string     `json:"concerns"`
	BullishConfidence float64      `json:"bullish_confidence"`
}

// ContrarianReport is the Contrarian stage output. Overwritten each cycle.
type ContrarianReport struct {
	RedFlags          []string `json:"red_flags"`
	RiskSummary       string   `json:"risk_summary"`
	BearishConfidence float64  `json:"bearish_confidence"`
}

// JudgeVerdict is the terminal output of one full review cycle. FinalDecision
// is what the system commits to; LLMDecision is what the reviewer stated and
// SystemDecision what the deterministic math said.
type JudgeVerdict struct {
	FinalDecision      string  `json:"final_decision"`
	LLMDecision        string  `json:"llm_decision"`
	SystemDecision     string  `json:"system_decision"`
	DecisionSource     string  `json:"decision_source"`
	DecisionConfidence float64 `json:"decision_confidence"`
	Reasoning          string  `json:"reasoning"`
	RiskAdjustedScore  float64 `json:"risk_adjusted_score"`
	Conflict           bool    `json:"conflict"`
	ConflictType       string  `json:"conflict_type,omitempty"`
}
